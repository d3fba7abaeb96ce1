// Package report assembles the candidate report artifact and writes it to disk.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/recruiter-copilot/internal/candidate"
	"github.com/spigell/recruiter-copilot/internal/evaluation"
	"github.com/spigell/recruiter-copilot/internal/scoring"
	"github.com/spigell/recruiter-copilot/internal/skills"
	"github.com/spigell/recruiter-copilot/internal/validator"
)

const (
	DefaultEngine  = "Recruiter Copilot"
	DefaultVersion = "1.0.0"

	maxVerifiedSkills = 20
	maxTopLanguages   = 5
	filePerm          = 0o644
	dirPerm           = 0o755
	timestampLayout   = "20060102_150405"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Meta identifies the report.
type Meta struct {
	CandidateID string    `json:"candidate_id"`
	AnalysisID  string    `json:"analysis_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Version     string    `json:"version"`
	Engine      string    `json:"engine"`
}

type CodeHostingSummary struct {
	Status             string   `json:"status"`
	Message            string   `json:"message,omitempty"`
	Username           string   `json:"username,omitempty"`
	Commits12Months    int      `json:"commits_12_months"`
	PublicRepos        int      `json:"public_repos"`
	TopLanguages       []string `json:"top_languages"`
	ReadmeQuality      float64  `json:"readme_quality"`
	ContributionStreak int      `json:"contribution_streak"`
	Followers          int      `json:"followers"`
}

type NetworkSummary struct {
	Status          string `json:"status"`
	Message         string `json:"message,omitempty"`
	Name            string `json:"name,omitempty"`
	Headline        string `json:"headline,omitempty"`
	Location        string `json:"location,omitempty"`
	ExperienceCount int    `json:"experience_count"`
	EducationCount  int    `json:"education_count"`
	SkillsCount     int    `json:"skills_count"`
}

type ResumeSummary struct {
	Name                 string  `json:"name,omitempty"`
	Email                string  `json:"email,omitempty"`
	TotalExperienceYears float64 `json:"total_experience_years"`
	PositionsHeld        int     `json:"positions_held"`
	SkillsDetected       int     `json:"skills_detected"`
	Certifications       int     `json:"certifications"`
}

type AIAnalysis struct {
	TechnicalMatchScore      float64  `json:"technical_match_score"`
	ExperienceRelevanceScore float64  `json:"experience_relevance_score"`
	HiringRecommendation     string   `json:"hiring_recommendation,omitempty"`
	MatchingSkills           []string `json:"matching_skills"`
	MissingSkills            []string `json:"missing_skills"`
	Strengths                []string `json:"strengths"`
	Concerns                 []string `json:"concerns"`
	Summary                  string   `json:"summary,omitempty"`
	Fallback                 bool     `json:"fallback,omitempty"`
}

// Report is the candidate report artifact.
type Report struct {
	Meta              Meta                       `json:"meta"`
	TotalScore        float64                    `json:"total_score"`
	TotalUnrounded    float64                    `json:"total_unrounded"`
	ReasoningSummary  string                     `json:"reasoning_summary"`
	Explanation       string                     `json:"explanation,omitempty"`
	VerifiedSkills    []skills.Verified          `json:"verified_skills"`
	Flags             []validator.Flag           `json:"flags"`
	Checks            []validator.Status         `json:"checks"`
	DetailedBreakdown scoring.Breakdown          `json:"detailed_breakdown"`
	Activity          scoring.ActivityComponents `json:"activity_components"`
	Interpretation    scoring.Band               `json:"interpretation"`

	CodeHostingSummary *CodeHostingSummary `json:"code_hosting_summary"`
	NetworkSummary     *NetworkSummary     `json:"network_summary"`
	ResumeSummary      *ResumeSummary      `json:"resume_summary"`
	AIAnalysis         *AIAnalysis         `json:"ai_analysis"`
}

// Assemble builds the report for one evaluated candidate. Empty meta fields
// are filled in: a random analysis id, the evaluation time, and the default
// version and engine.
func Assemble(meta Meta, in evaluation.Input, res *evaluation.Result, explanation string) (*Report, error) {
	if res == nil {
		return nil, fmt.Errorf("evaluation result is required")
	}

	if meta.CandidateID == "" {
		meta.CandidateID = res.CandidateID
	}
	if meta.AnalysisID == "" {
		meta.AnalysisID = uuid.NewString()
	}
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = res.EvaluatedAt
	}
	meta.GeneratedAt = meta.GeneratedAt.UTC()
	if meta.Version == "" {
		meta.Version = DefaultVersion
	}
	if meta.Engine == "" {
		meta.Engine = DefaultEngine
	}

	verified := res.VerifiedSkills
	if len(verified) > maxVerifiedSkills {
		verified = verified[:maxVerifiedSkills]
	}

	resume := res.Resume
	if resume == nil {
		resume = in.Resume
	}

	return &Report{
		Meta:               meta,
		TotalScore:         res.Breakdown.Display,
		TotalUnrounded:     res.Breakdown.Total,
		ReasoningSummary:   reasoningSummary(res, in.Analysis),
		Explanation:        explanation,
		VerifiedSkills:     nonNil(verified),
		Flags:              nonNil(res.Flags),
		Checks:             nonNil(res.Checks),
		DetailedBreakdown:  res.Breakdown,
		Activity:           res.Activity,
		Interpretation:     res.Breakdown.Band,
		CodeHostingSummary: summarizeCodeHosting(in.CodeHosting),
		NetworkSummary:     summarizeNetwork(in.Network),
		ResumeSummary:      summarizeResume(resume),
		AIAnalysis:         formatAnalysis(in.Analysis),
	}, nil
}

// FileName returns the file name the report is written under.
func (r *Report) FileName() string {
	id := unsafeFileChars.ReplaceAllString(strings.TrimSpace(r.Meta.CandidateID), "_")
	if id == "" {
		id = "unknown"
	}
	return fmt.Sprintf("candidate_report_%s_%s.json", id, r.Meta.GeneratedAt.UTC().Format(timestampLayout))
}

// WriteFile writes the report as indented JSON into dir and returns the path.
func WriteFile(dir string, r *Report) (string, error) {
	if r == nil {
		return "", fmt.Errorf("report is required")
	}
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("creating report directory %q: %w", dir, err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	path := filepath.Join(dir, r.FileName())
	if err := os.WriteFile(path, append(data, '\n'), filePerm); err != nil {
		return "", fmt.Errorf("writing report %q: %w", path, err)
	}
	return path, nil
}

func reasoningSummary(res *evaluation.Result, analysis *candidate.SemanticAnalysis) string {
	var parts []string
	b := res.Breakdown
	parts = append(parts, fmt.Sprintf("Candidate scored %.1f/10 (%s).", b.Display, b.Band.Rating))

	if analysis != nil {
		if s := strings.TrimSpace(analysis.Summary); s != "" {
			parts = append(parts, s)
		}
		if len(analysis.Strengths) > 0 {
			parts = append(parts, fmt.Sprintf("Key strengths include: %s.", strings.Join(firstN(analysis.Strengths, 2), ", ")))
		}
		if len(analysis.Concerns) > 0 {
			parts = append(parts, fmt.Sprintf("Areas of concern: %s.", strings.Join(firstN(analysis.Concerns, 2), ", ")))
		}
	}

	high := 0
	for _, f := range res.Flags {
		if f.Severity == validator.SeverityHigh {
			high++
		}
	}
	if high > 0 {
		parts = append(parts, fmt.Sprintf("Found %d critical discrepancies in claims.", high))
	}

	return strings.Join(parts, " ")
}

func summarizeCodeHosting(p *candidate.CodeHostingProfile) *CodeHostingSummary {
	if p == nil {
		return nil
	}
	if !p.Available() {
		return &CodeHostingSummary{Status: "unavailable", Message: p.Message, TopLanguages: []string{}}
	}
	return &CodeHostingSummary{
		Status:             string(candidate.StatusOK),
		Username:           p.Username,
		Commits12Months:    p.CommitsLast12Months,
		PublicRepos:        p.PublicRepos,
		TopLanguages:       nonNil(firstN(p.LanguageNames(), maxTopLanguages)),
		ReadmeQuality:      p.ReadmeComplexityScore,
		ContributionStreak: p.ContributionStreakDays,
		Followers:          p.Followers,
	}
}

func summarizeNetwork(p *candidate.NetworkProfile) *NetworkSummary {
	if p == nil {
		return nil
	}
	if !p.Available() {
		msg := p.Message
		if msg == "" {
			msg = "professional network data not available"
		}
		return &NetworkSummary{Status: "unavailable", Message: msg}
	}
	return &NetworkSummary{
		Status:          string(candidate.StatusOK),
		Name:            p.Name,
		Headline:        p.Headline,
		Location:        p.Location,
		ExperienceCount: len(p.Experience),
		EducationCount:  len(p.Education),
		SkillsCount:     len(p.Skills),
	}
}

func summarizeResume(r *candidate.ResumeFacts) *ResumeSummary {
	if r == nil {
		return nil
	}
	return &ResumeSummary{
		Name:                 r.Contact.Name,
		Email:                r.Contact.Email,
		TotalExperienceYears: r.TotalYearsExperience,
		PositionsHeld:        len(r.Experience),
		SkillsDetected:       len(r.ClaimedSkills()),
		Certifications:       len(r.Certifications),
	}
}

func formatAnalysis(a *candidate.SemanticAnalysis) *AIAnalysis {
	if a == nil {
		return nil
	}
	return &AIAnalysis{
		TechnicalMatchScore:      a.TechnicalMatchScore,
		ExperienceRelevanceScore: a.ExperienceRelevanceScore,
		HiringRecommendation:     a.HiringRecommendation,
		MatchingSkills:           nonNil(a.MatchingSkills),
		MissingSkills:            nonNil(a.MissingSkills),
		Strengths:                nonNil(a.Strengths),
		Concerns:                 nonNil(a.Concerns),
		Summary:                  a.Summary,
		Fallback:                 a.Fallback,
	}
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
