package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/recruiter-copilot/internal/candidate"
	"github.com/spigell/recruiter-copilot/internal/evaluation"
	"github.com/spigell/recruiter-copilot/internal/scoring"
	"github.com/spigell/recruiter-copilot/internal/skills"
	"github.com/spigell/recruiter-copilot/internal/validator"
)

var evaluatedAt = time.Date(2025, time.March, 4, 15, 6, 7, 0, time.UTC)

func sampleInput() evaluation.Input {
	return evaluation.Input{
		CandidateID: "cand/42",
		Resume: &candidate.ResumeFacts{
			Contact:              candidate.Contact{Name: "Test User", Email: "test@example.com"},
			Skills:               []string{"Python", "AWS"},
			TotalYearsExperience: 5,
			Experience:           []candidate.Experience{{Title: "Engineer", DurationMonths: 60}},
			Certifications:       []string{"AWS SA"},
		},
		CodeHosting: &candidate.CodeHostingProfile{
			Username:            "testuser",
			CommitsLast12Months: 234,
			PublicRepos:         25,
			Languages: []candidate.LanguageStat{
				{Name: "Python"}, {Name: "Go"}, {Name: "Rust"}, {Name: "C"}, {Name: "Java"}, {Name: "Ruby"},
			},
			ReadmeComplexityScore: 7.5,
		},
		Network: &candidate.NetworkProfile{Status: candidate.StatusScrapingFailed},
		Analysis: &candidate.SemanticAnalysis{
			TechnicalMatchScore:      8,
			ExperienceRelevanceScore: 7,
			MatchingSkills:           []string{"python", "aws"},
			Strengths:                []string{"Strong Python", "Cloud experience", "Mentoring"},
			Concerns:                 []string{"Limited frontend"},
			HiringRecommendation:     candidate.RecommendYes,
			Summary:                  "Solid backend engineer.",
		},
	}
}

func sampleResult(t *testing.T) *evaluation.Result {
	t.Helper()

	scorer, err := scoring.NewScorer(scoring.DefaultWeights)
	require.NoError(t, err)

	verified := make([]skills.Verified, 0, 25)
	for i := 0; i < 25; i++ {
		verified = append(verified, skills.Verified{Skill: string(rune('a' + i)), Confidence: 0.5})
	}

	return &evaluation.Result{
		CandidateID: "cand/42",
		Breakdown: scorer.Combine(scoring.SubScores{
			TechnicalMatch:  8,
			ExperienceDepth: 8,
			Activity:        6,
			Credibility:     6,
		}),
		Flags: []validator.Flag{
			{Type: validator.FlagTechAgeImplausible, Severity: validator.SeverityHigh, Description: "impossible"},
			{Type: validator.FlagTitleMismatch, Severity: validator.SeverityMedium, Description: "titles"},
		},
		VerifiedSkills: verified,
		EvaluatedAt:    evaluatedAt,
	}
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	in := sampleInput()
	rep, err := Assemble(Meta{}, in, sampleResult(t), "explanation")
	require.NoError(t, err)

	assert.Equal(t, "cand/42", rep.Meta.CandidateID)
	_, err = uuid.Parse(rep.Meta.AnalysisID)
	assert.NoError(t, err)
	assert.Equal(t, evaluatedAt, rep.Meta.GeneratedAt)
	assert.Equal(t, DefaultVersion, rep.Meta.Version)
	assert.Equal(t, DefaultEngine, rep.Meta.Engine)

	assert.InDelta(t, 7.3, rep.TotalScore, 1e-9)
	assert.Equal(t, "GOOD", rep.Interpretation.Rating)
	assert.Len(t, rep.VerifiedSkills, maxVerifiedSkills)
	assert.Len(t, rep.Flags, 2)
	assert.NotNil(t, rep.Checks)

	assert.Equal(t,
		"Candidate scored 7.3/10 (GOOD). Solid backend engineer. "+
			"Key strengths include: Strong Python, Cloud experience. "+
			"Areas of concern: Limited frontend. Found 1 critical discrepancies in claims.",
		rep.ReasoningSummary)

	require.NotNil(t, rep.CodeHostingSummary)
	assert.Equal(t, []string{"Python", "Go", "Rust", "C", "Java"}, rep.CodeHostingSummary.TopLanguages)
	assert.Equal(t, 234, rep.CodeHostingSummary.Commits12Months)

	require.NotNil(t, rep.NetworkSummary)
	assert.Equal(t, "unavailable", rep.NetworkSummary.Status)

	require.NotNil(t, rep.ResumeSummary)
	assert.Equal(t, "Test User", rep.ResumeSummary.Name)
	assert.Equal(t, 2, rep.ResumeSummary.SkillsDetected)
	assert.Equal(t, 1, rep.ResumeSummary.PositionsHeld)

	require.NotNil(t, rep.AIAnalysis)
	assert.Equal(t, candidate.RecommendYes, rep.AIAnalysis.HiringRecommendation)
	assert.Equal(t, []string{}, rep.AIAnalysis.MissingSkills)
}

func TestAssembleKeepsProvidedMeta(t *testing.T) {
	t.Parallel()

	meta := Meta{AnalysisID: "run-1", Version: "2.0.0", Engine: "test", GeneratedAt: evaluatedAt.Add(time.Hour)}
	in := sampleInput()
	in.CodeHosting = nil
	in.Network = nil
	in.Analysis = nil

	res := sampleResult(t)
	res.Flags = nil

	rep, err := Assemble(meta, in, res, "")
	require.NoError(t, err)

	assert.Equal(t, "run-1", rep.Meta.AnalysisID)
	assert.Equal(t, "2.0.0", rep.Meta.Version)
	assert.Equal(t, evaluatedAt.Add(time.Hour), rep.Meta.GeneratedAt)
	assert.Nil(t, rep.CodeHostingSummary)
	assert.Nil(t, rep.NetworkSummary)
	assert.Nil(t, rep.AIAnalysis)
	assert.Equal(t, []validator.Flag{}, rep.Flags)
	assert.Equal(t, "Candidate scored 7.3/10 (GOOD).", rep.ReasoningSummary)

	_, err = Assemble(meta, in, nil, "")
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	rep, err := Assemble(Meta{}, sampleInput(), sampleResult(t), "")
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "reports")
	path, err := WriteFile(dir, rep)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "candidate_report_cand_42_20250304_150607.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"meta\": {"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 7.3, decoded["total_score"])
	assert.Contains(t, decoded, "interpretation")
	assert.Contains(t, decoded, "detailed_breakdown")

	_, err = WriteFile(dir, nil)
	assert.Error(t, err)
}
