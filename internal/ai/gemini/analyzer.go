package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/spigell/recruiter-copilot/internal/ai"
	"github.com/spigell/recruiter-copilot/internal/candidate"
	"github.com/spigell/recruiter-copilot/internal/logger"
	"github.com/spigell/recruiter-copilot/internal/utils"
)

const (
	ProviderName = "gemini"

	systemInstruction = "You are an expert technical recruiter. You answer with JSON only."

	defaultMaxLogLength  = 200
	maxJobDescriptionLen = 3000
	maxSummaryLen        = 500
	maxPromptSkills      = 20
	maxPromptLanguages   = 5
	notProvided          = "Not provided"
)

//go:embed prompt.md
var promptTemplate string

//go:embed response.schema.json
var responseSchema string

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

// Analyzer produces a semantic analysis of a candidate with Gemini.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Analyzer = (*Analyzer)(nil)

func NewAnalyzer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Analyzer{
		generator: generator,
		logger:    logger.WithFields(log, logger.AIFields(ProviderName, generator.Model())...),
		maxLogLen: maxLogLength,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, req ai.AnalysisRequest) (*candidate.SemanticAnalysis, error) {
	if req.Resume == nil {
		return nil, errors.New("resume facts are required")
	}

	prompt := buildPrompt(req)
	log := logger.WithFields(a.logger, logger.CandidateFields(req.CandidateID)...)

	log.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	log.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	return parseResponse(raw)
}

func buildPrompt(req ai.AnalysisRequest) string {
	jd := strings.TrimSpace(req.JobDescription)
	if jd == "" {
		jd = notProvided
	} else if runes := []rune(jd); len(runes) > maxJobDescriptionLen {
		jd = string(runes[:maxJobDescriptionLen])
	}

	skills := req.Resume.ClaimedSkills()
	if len(skills) > maxPromptSkills {
		skills = skills[:maxPromptSkills]
	}

	summary := strings.TrimSpace(req.Resume.Summary)
	if runes := []rune(summary); len(runes) > maxSummaryLen {
		summary = string(runes[:maxSummaryLen])
	}

	replacer := strings.NewReplacer(
		"{{JOB_DESCRIPTION}}", jd,
		"{{TOTAL_YEARS}}", strconv.FormatFloat(req.Resume.TotalYearsExperience, 'f', -1, 64),
		"{{SKILLS}}", orNotProvided(strings.Join(skills, ", ")),
		"{{SUMMARY}}", orNotProvided(summary),
		"{{CODE_HOSTING}}", codeHostingBlock(req.CodeHosting),
	)
	return replacer.Replace(promptTemplate)
}

func codeHostingBlock(p *candidate.CodeHostingProfile) string {
	if !p.Available() {
		return "- Not available"
	}

	languages := p.LanguageNames()
	if len(languages) > maxPromptLanguages {
		languages = languages[:maxPromptLanguages]
	}

	lines := []string{
		"- Username: " + orNotProvided(p.Username),
		fmt.Sprintf("- Commits (last 12 months): %d", p.CommitsLast12Months),
		"- Top Languages: " + orNotProvided(strings.Join(languages, ", ")),
		fmt.Sprintf("- Public Repos: %d", p.PublicRepos),
		fmt.Sprintf("- README Quality Score: %s/10", strconv.FormatFloat(p.ReadmeComplexityScore, 'f', -1, 64)),
	}
	return strings.Join(lines, "\n")
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}

func parseResponse(raw string) (*candidate.SemanticAnalysis, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, errors.New("gemini response contains no JSON object")
	}

	if err := validateResponse(cleaned); err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}
	delete(data, "fallback")

	var analysis candidate.SemanticAnalysis
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &analysis,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	analysis.HiringRecommendation = strings.ToUpper(strings.TrimSpace(analysis.HiringRecommendation))
	if analysis.HiringRecommendation == "" {
		analysis.HiringRecommendation = candidate.RecommendMaybe
	}
	if analysis.MatchingSkills == nil {
		analysis.MatchingSkills = []string{}
	}
	if analysis.MissingSkills == nil {
		analysis.MissingSkills = []string{}
	}

	if err := analysis.Validate(); err != nil {
		return nil, fmt.Errorf("gemini response: %w", err)
	}
	return &analysis, nil
}

func validateResponse(doc string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(responseSchema),
		gojsonschema.NewStringLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("parse gemini response: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return fmt.Errorf("gemini response does not match schema: %s", strings.Join(problems, "; "))
}

// extractJSON strips markdown fences and any prose around the outermost
// JSON object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end < start {
		return ""
	}
	return strings.TrimSpace(raw[start : end+1])
}
