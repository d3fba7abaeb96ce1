// Package ai defines the semantic analysis collaborator used to seed the
// technical and experience scores.
package ai

import (
	"context"

	"github.com/spigell/recruiter-copilot/internal/candidate"
)

// Neutral scores used when no model answer is available.
const (
	NeutralTechnicalScore  = 5
	NeutralExperienceScore = 5
)

// AnalysisRequest carries everything the model is shown about one candidate.
type AnalysisRequest struct {
	CandidateID    string
	JobDescription string
	Resume         *candidate.ResumeFacts
	CodeHosting    *candidate.CodeHostingProfile
}

// Analyzer judges how well a candidate fits a job description.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*candidate.SemanticAnalysis, error)
}

// Fallback returns the neutral analysis used when the model is unavailable
// or its answer cannot be used.
func Fallback(reason string) *candidate.SemanticAnalysis {
	concern := "AI analysis not available"
	if reason != "" {
		concern = "AI analysis not available: " + reason
	}
	return &candidate.SemanticAnalysis{
		TechnicalMatchScore:      NeutralTechnicalScore,
		ExperienceRelevanceScore: NeutralExperienceScore,
		MatchingSkills:           []string{},
		MissingSkills:            []string{},
		Strengths:                []string{"Unable to perform AI analysis"},
		Concerns:                 []string{concern},
		HiringRecommendation:     candidate.RecommendManualReview,
		Summary:                  "AI analysis unavailable. Please review candidate manually.",
		Fallback:                 true,
	}
}

// AnalyzeOrFallback calls the analyzer and substitutes Fallback on error or
// when the analyzer is nil. The returned error is the analyzer error, if any,
// so callers can log it.
func AnalyzeOrFallback(ctx context.Context, a Analyzer, req AnalysisRequest) (*candidate.SemanticAnalysis, error) {
	if a == nil {
		return Fallback("no analyzer configured"), nil
	}
	analysis, err := a.Analyze(ctx, req)
	if err != nil {
		return Fallback(err.Error()), err
	}
	if analysis == nil {
		return Fallback("empty analysis"), nil
	}
	return analysis, nil
}
