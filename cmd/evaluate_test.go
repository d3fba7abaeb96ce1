package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/recruiter-copilot/internal/candidate"
	"github.com/spigell/recruiter-copilot/internal/evaluation"
	"github.com/spigell/recruiter-copilot/internal/scoring"
	"github.com/spigell/recruiter-copilot/internal/skills"
	"github.com/spigell/recruiter-copilot/internal/timeline"
	"github.com/spigell/recruiter-copilot/internal/validator"
)

const bundleYAML = `
id: cand-1
resume:
  contact:
    name: Jane Doe
  summary: Backend engineer
  skills: [Python, Go]
  keyword_counts:
    node.js: 2
  total_years_experience: 6
  experience:
    - title: Senior Engineer
      company: Acme
      duration_months: 72
code_hosting:
  status: ok
  username: jane
  commits_last_12_months: 300
  languages:
    - name: Python
      repo_count: 10
      percentage: 70
network:
  status: scraping_failed
analysis:
  technical_match_score: 8
  experience_relevance_score: 7
  key_matching_skills: [python]
  missing_skills: []
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadBundle(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "cand.yaml", bundleYAML)

	b, err := loadBundle(path)
	require.NoError(t, err)

	assert.Equal(t, "cand-1", b.ID)
	require.NotNil(t, b.Resume)
	assert.Equal(t, "Jane Doe", b.Resume.Contact.Name)
	assert.Equal(t, map[string]int{"node.js": 2}, b.Resume.KeywordCounts)
	assert.Equal(t, 72, b.Resume.Experience[0].DurationMonths)
	require.NotNil(t, b.CodeHosting)
	assert.Equal(t, 300, b.CodeHosting.CommitsLast12Months)
	assert.Equal(t, 70.0, b.CodeHosting.Languages[0].Percentage)
	require.NotNil(t, b.Network)
	assert.Equal(t, candidate.StatusScrapingFailed, b.Network.Status)
	require.NotNil(t, b.Analysis)
	assert.Equal(t, []string{"python"}, b.Analysis.MatchingSkills)
}

func TestLoadBundleJSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "cand.json", `{"id": "json-1", "resume": {"total_years_experience": 2}}`)

	b, err := loadBundle(path)
	require.NoError(t, err)
	assert.Equal(t, "json-1", b.ID)
	assert.Equal(t, 2.0, b.Resume.TotalYearsExperience)
	assert.Nil(t, b.CodeHosting)
}

func TestLoadBundles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeFile(t, dir, "a.yaml", bundleYAML)
	anonymous := writeFile(t, dir, "b.yaml", "resume:\n  total_years_experience: 1\n")

	bundles, err := loadBundles([]string{first, anonymous}, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, bundles, 2)
	assert.Equal(t, "cand-1", bundles[0].ID)
	_, err = uuid.Parse(bundles[1].ID)
	assert.NoError(t, err, "missing id should be replaced with a uuid")

	duplicate := writeFile(t, dir, "c.yaml", bundleYAML)
	_, err = loadBundles([]string{first, duplicate}, zap.NewNop())
	assert.ErrorContains(t, err, `candidate id "cand-1" is used by both`)

	_, err = loadBundles([]string{filepath.Join(dir, "missing.yaml")}, zap.NewNop())
	assert.ErrorContains(t, err, "reading bundle")
}

func TestReadJobDescription(t *testing.T) {
	t.Parallel()

	jd, err := readJobDescription("")
	require.NoError(t, err)
	assert.Empty(t, jd)

	path := writeFile(t, t.TempDir(), "jd.md", "\n Senior Go engineer \n")
	jd, err = readJobDescription(path)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go engineer", jd)
}

func sampleResult() *evaluation.Result {
	scorer, _ := scoring.NewScorer(scoring.DefaultWeights)
	return &evaluation.Result{
		CandidateID: "cand-1",
		Breakdown:   scorer.Combine(scoring.SubScores{TechnicalMatch: 8, ExperienceDepth: 8, Activity: 6, Credibility: 6}),
		Flags: []validator.Flag{{
			Type:        validator.FlagSkillNotVerified,
			Severity:    validator.SeverityMedium,
			Description: "Claims RUST but no Rust code on profile",
		}},
		VerifiedSkills: []skills.Verified{
			{Skill: "python", Confidence: 1, Sources: []skills.Source{skills.SourceResume, skills.SourceCodeHosting, skills.SourceAI}},
			{Skill: "go", Confidence: 0.5, Sources: []skills.Source{skills.SourceResume}},
		},
	}
}

func TestCandidateLabel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1. cand-1 7.3/10 GOOD", candidateLabel(1, sampleResult()))
}

func TestPrintHelpers(t *testing.T) {
	t.Parallel()

	r := sampleResult()

	var flags bytes.Buffer
	require.NoError(t, printFlags(&flags, r))
	assert.Contains(t, flags.String(), `"type": "SKILL_NOT_VERIFIED"`)

	var none bytes.Buffer
	require.NoError(t, printFlags(&none, &evaluation.Result{}))
	assert.Equal(t, "No validation flags.\n", none.String())

	var table bytes.Buffer
	require.NoError(t, printSkills(&table, r))
	lines := strings.Split(strings.TrimSpace(table.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "SKILL"))
	assert.Contains(t, lines[1], "1.00")
	assert.Contains(t, lines[1], "Resume, Code hosting repos, AI verified")
	assert.Contains(t, lines[2], "0.50")
}

func TestPrintTimeline(t *testing.T) {
	t.Parallel()

	tl := timeline.New(map[string]int{"fastapi": 2018, "react": 2013})

	var out bytes.Buffer
	require.NoError(t, printTimeline(&out, tl, "table"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "react"))
	assert.True(t, strings.HasSuffix(lines[2], "2018"))

	var doc bytes.Buffer
	require.NoError(t, printTimeline(&doc, tl, "YAML"))
	assert.Equal(t, "- name: react\n  year: 2013\n- name: fastapi\n  year: 2018\n", doc.String())

	assert.Error(t, printTimeline(&bytes.Buffer{}, tl, "xml"))
}

func TestSessionHandleAction(t *testing.T) {
	t.Parallel()

	r := sampleResult()
	var out bytes.Buffer
	s := &session{
		inputs: map[string]evaluation.Input{"cand-1": {CandidateID: "cand-1", Analysis: &candidate.SemanticAnalysis{
			TechnicalMatchScore:      8,
			ExperienceRelevanceScore: 7,
			Strengths:                []string{"API design"},
		}}},
		ranked: []*evaluation.Result{r},
		dir:    t.TempDir(),
		out:    &out,
		logger: zap.NewNop(),
	}

	require.NoError(t, s.handleAction(PromptExplain, r))
	assert.Contains(t, out.String(), "**Overall Score: 7.3/10 (GOOD)**")
	assert.Contains(t, out.String(), "API design")

	require.NoError(t, s.handleAction(PromptSaveReport, r))
	files, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.HasPrefix(files[0].Name(), "candidate_report_cand-1_"))

	assert.True(t, errors.Is(s.handleAction(PromptBack, r), errBack))
	assert.True(t, errors.Is(s.handleAction(PromptExit, r), errExit))
	assert.Error(t, s.handleAction("unknown", r))
}

func TestPrepareFilters(t *testing.T) {
	t.Parallel()

	steps := prepareFilters(nil, &FiltersConfig{MinimumScore: 6, ExcludeFile: "reviewed.json"})
	require.Len(t, steps, 3)
	assert.True(t, steps[0].IsEnabled())
	assert.False(t, steps[1].IsEnabled())
	assert.True(t, steps[2].IsEnabled())
}

func TestExampleBundleEvaluates(t *testing.T) {
	t.Parallel()

	b, err := loadBundle(filepath.Join("..", "examples", "candidate.yaml"))
	require.NoError(t, err)

	evaluator, err := evaluation.New(evaluation.Config{
		Now: func() time.Time { return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	res, err := evaluator.Evaluate(evaluation.InputFromBundle(b))
	require.NoError(t, err)
	assert.Equal(t, "jane-doe", res.CandidateID)
	assert.Equal(t, candidate.RecommendYes, b.Analysis.HiringRecommendation)
	assert.NotEmpty(t, res.Breakdown.Band.Rating)
	assert.Greater(t, res.Resume.TotalYearsExperience, 6.0)
}
