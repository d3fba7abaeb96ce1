package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/recruiter-copilot/internal/ai"
	"github.com/spigell/recruiter-copilot/internal/ai/gemini"
	"github.com/spigell/recruiter-copilot/internal/candidate"
	"github.com/spigell/recruiter-copilot/internal/evaluation"
	"github.com/spigell/recruiter-copilot/internal/filtering"
	"github.com/spigell/recruiter-copilot/internal/logger"
	"github.com/spigell/recruiter-copilot/internal/report"
	"github.com/spigell/recruiter-copilot/internal/secrets"
)

const (
	PromptExplain    = "Explain the score"
	PromptFlags      = "Show validation flags"
	PromptSkills     = "Show verified skills"
	PromptSaveReport = "Save report"
	PromptSaveAll    = "Save reports for all candidates"
	PromptBack       = "back"
	PromptExit       = "exit"

	PromptAppendToExcludeFile = "Append all candidates to exclude file"
)

var errExit = errors.New("exit requested")

var evaluateCmd = &cobra.Command{
	Use:   "evaluate BUNDLE...",
	Short: "Evaluate and rank candidates from evidence bundle files",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		evaluate(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().BoolP("yes", "y", false, "do not show the interactive menu after ranking")
	evaluateCmd.Flags().StringP("out", "o", "", "write a report for every evaluated candidate into this directory and exit")
	evaluateCmd.Flags().StringP("job-description-file", "J", "", "file with the job description sent to the AI analyzer")
	evaluateCmd.Flags().Int("year", 0, "evaluation year for technology-age checks (default is the current year)")
	evaluateCmd.Flags().Int("workers", 0, "number of candidates evaluated concurrently")
	evaluateCmd.Flags().StringP("exclude-file", "e", "", "file with already reviewed candidates to exclude. Default is unset.")
	evaluateCmd.Flags().BoolP("include-reviewed", "f", false, "do not exclude candidates listed in the exclude file")

	viper.BindPFlag("job-description-file", evaluateCmd.Flags().Lookup("job-description-file"))
	viper.BindPFlag("evaluation.year", evaluateCmd.Flags().Lookup("year"))
	viper.BindPFlag("evaluation.workers", evaluateCmd.Flags().Lookup("workers"))
	viper.BindPFlag("filters.exclude-file", evaluateCmd.Flags().Lookup("exclude-file"))
}

// session holds everything the interactive menu works on.
type session struct {
	inputs      map[string]evaluation.Input
	ranked      []*evaluation.Result
	dir         string
	excludeFile string
	version     string
	out         io.Writer
	logger      *zap.Logger
}

func evaluate(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the recruiter-copilot", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	bundles, err := loadBundles(args, logger)
	if err != nil {
		logger.Fatal("loading candidate bundles", zap.Error(err))
	}

	if config.AI.Enabled {
		analyzer, err := newAnalyzer(ctx, config.AI, logger)
		if err != nil {
			logger.Fatal("creating the AI analyzer", zap.Error(err))
		}

		jd, err := readJobDescription(config.JobDescriptionFile)
		if err != nil {
			logger.Fatal("reading the job description", zap.Error(err))
		}

		if err := analyzeMissing(ctx, analyzer, jd, bundles, config.Evaluation.Workers, logger); err != nil {
			logger.Fatal("running the AI analysis", zap.Error(err))
		}
	}

	evaluator, err := evaluation.New(evaluation.Config{
		Weights:        config.Scoring.Weights,
		EvaluationYear: config.Evaluation.Year,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal("creating the evaluator", zap.Error(err))
	}

	inputs := make([]evaluation.Input, 0, len(bundles))
	byID := make(map[string]evaluation.Input, len(bundles))
	for _, b := range bundles {
		in := evaluation.InputFromBundle(b)
		inputs = append(inputs, in)
		byID[in.CandidateID] = in
	}

	outcomes, err := evaluator.EvaluateAll(ctx, inputs, config.Evaluation.Workers)
	if err != nil {
		logger.Fatal("evaluating candidates", zap.Error(err))
	}

	ranked := evaluation.Rank(evaluation.Successful(outcomes))
	logger.Info("candidates evaluated",
		zap.Int("total", len(outcomes)),
		zap.Int("accepted", len(ranked)),
		zap.Int("rejected", len(outcomes)-len(ranked)),
	)

	if len(ranked) == 0 {
		logger.Fatal("exiting", zap.String("reason", "no candidate could be evaluated"))
	}

	steps := prepareFilters(cmd, config.Filters)
	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	ranked, err = filtering.Run(ctx, filtering.Deps{Logger: logger}, steps, ranked)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if len(ranked) == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	logRanking(logger, ranked)

	s := &session{
		inputs:      byID,
		ranked:      ranked,
		dir:         config.Report.Dir,
		excludeFile: strings.TrimSpace(config.Filters.ExcludeFile),
		version:     version,
		out:         cmd.OutOrStdout(),
		logger:      logger,
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		s.dir = out
		if err := s.saveAll(); err != nil {
			logger.Fatal("writing reports", zap.Error(err))
		}
		return
	}

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return
	}

	if err := s.interact(); err != nil && !errors.Is(err, errExit) {
		logger.Fatal("exiting", zap.Error(err))
	}
}

// loadBundles reads every bundle file. A bundle without an id gets a random one.
func loadBundles(paths []string, logger *zap.Logger) ([]*candidate.Bundle, error) {
	bundles := make([]*candidate.Bundle, 0, len(paths))
	seen := make(map[string]string, len(paths))

	for _, path := range paths {
		b, err := loadBundle(path)
		if err != nil {
			return nil, err
		}

		if strings.TrimSpace(b.ID) == "" {
			b.ID = uuid.NewString()
			logger.Debug("assigned candidate id", zap.String("candidate_id", b.ID), zap.String("source", path))
		}
		if prev, ok := seen[b.ID]; ok {
			return nil, fmt.Errorf("candidate id %q is used by both %s and %s", b.ID, prev, path)
		}
		seen[b.ID] = path

		bundles = append(bundles, b)
	}

	logger.Info("loaded candidate bundles", zap.Int("count", len(bundles)))
	return bundles, nil
}

// loadBundle decodes a YAML or JSON bundle file. Keys may contain dots
// (for example "node.js" keyword counts), so the key delimiter is changed.
func loadBundle(path string) (*candidate.Bundle, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading bundle %s: %w", path, err)
	}

	var b candidate.Bundle
	if err := v.Unmarshal(&b); err != nil {
		return nil, fmt.Errorf("decoding bundle %s: %w", path, err)
	}
	return &b, nil
}

func readJobDescription(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func newAnalyzer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Analyzer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.ProviderName {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
		Hint: "set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewAnalyzer(generator, logger, cfg.Gemini.MaxLogLength), nil
}

// analyzeMissing fills in the analysis of bundles that do not carry one. A
// failed call falls back to the neutral analysis.
func analyzeMissing(ctx context.Context, analyzer ai.Analyzer, jd string, bundles []*candidate.Bundle, workers int, logger *zap.Logger) error {
	if workers <= 0 {
		workers = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, b := range bundles {
		if b.Analysis != nil {
			continue
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			analysis, err := ai.AnalyzeOrFallback(gCtx, analyzer, ai.AnalysisRequest{
				CandidateID:    b.ID,
				JobDescription: jd,
				Resume:         b.Resume,
				CodeHosting:    b.CodeHosting,
			})
			if err != nil {
				logger.Warn("AI analysis failed, using fallback", zap.String("candidate_id", b.ID), zap.Error(err))
			}
			b.Analysis = analysis
			return nil
		})
	}

	return g.Wait()
}

func prepareFilters(cmd *cobra.Command, cfg *FiltersConfig) []filtering.Filter {
	steps := []filtering.Filter{
		filtering.NewMinimumScore(cfg.MinimumScore),
		filtering.NewCriticalFlags(cfg.ExcludeCritical),
		filtering.NewExcludeFile(cfg.ExcludeFile),
	}

	if cmd != nil {
		if include, _ := cmd.Flags().GetBool("include-reviewed"); include {
			filtering.DisableByName(steps, "exclude_file", "include-reviewed flag is set")
		}
	}

	return steps
}

func logRanking(logger *zap.Logger, ranked []*evaluation.Result) {
	for i, r := range ranked {
		logger.Info("ranked candidate",
			zap.Int("rank", i+1),
			zap.String("candidate_id", r.CandidateID),
			zap.Float64("total_score", r.Breakdown.Display),
			zap.String("rating", r.Breakdown.Band.Rating),
			zap.String("recommendation", r.Breakdown.Band.Recommendation),
			zap.Int("flags", len(r.Flags)),
		)
	}
}

func candidateLabel(rank int, r *evaluation.Result) string {
	return fmt.Sprintf("%d. %s %.1f/10 %s", rank, r.CandidateID, r.Breakdown.Display, r.Breakdown.Band.Rating)
}

func (s *session) interact() error {
	for {
		items := make([]string, 0, len(s.ranked)+2)
		for i, r := range s.ranked {
			items = append(items, candidateLabel(i+1, r))
		}
		items = append(items, PromptSaveAll)
		if s.excludeFile != "" && len(s.ranked) != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}
		items = append(items, PromptExit)

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: items,
			Size:  10,
		}

		idx, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}

		switch selected {
		case PromptExit:
			s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
			return errExit
		case PromptSaveAll:
			if err := s.saveAll(); err != nil {
				return err
			}
		case PromptAppendToExcludeFile:
			if err := filtering.AppendToFile(s.excludeFile, s.ranked, time.Now()); err != nil {
				return err
			}
			s.logger.Info("appended to exclude file", zap.String("filename", s.excludeFile), zap.Int("count", len(s.ranked)))
		default:
			if err := s.candidateMenu(s.ranked[idx]); err != nil {
				return err
			}
		}
	}
}

func (s *session) candidateMenu(r *evaluation.Result) error {
	menu := promptui.Select{
		Label: fmt.Sprintf("Candidate %s", r.CandidateID),
		Items: []string{PromptExplain, PromptFlags, PromptSkills, PromptSaveReport, PromptBack, PromptExit},
	}

	for {
		_, action, err := menu.Run()
		if err != nil {
			return err
		}

		if err := s.handleAction(action, r); err != nil {
			if errors.Is(err, errBack) {
				return nil
			}
			return err
		}
	}
}

var errBack = errors.New("back requested")

func (s *session) handleAction(action string, r *evaluation.Result) error {
	switch action {
	case PromptExplain:
		_, err := fmt.Fprintln(s.out, evaluation.Explain(r, s.inputs[r.CandidateID].Analysis))
		return err
	case PromptFlags:
		return printFlags(s.out, r)
	case PromptSkills:
		return printSkills(s.out, r)
	case PromptSaveReport:
		path, err := s.save(r)
		if err != nil {
			return err
		}
		s.logger.Info("report saved", zap.String("candidate_id", r.CandidateID), zap.String("filename", path))
		return nil
	case PromptBack:
		return errBack
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *session) save(r *evaluation.Result) (string, error) {
	in := s.inputs[r.CandidateID]
	rep, err := report.Assemble(report.Meta{Version: s.version}, in, r, evaluation.Explain(r, in.Analysis))
	if err != nil {
		return "", err
	}
	return report.WriteFile(s.dir, rep)
}

func (s *session) saveAll() error {
	for _, r := range s.ranked {
		path, err := s.save(r)
		if err != nil {
			return fmt.Errorf("saving report for %s: %w", r.CandidateID, err)
		}
		s.logger.Info("report saved", zap.String("candidate_id", r.CandidateID), zap.String("filename", path))
	}
	return nil
}

func printFlags(w io.Writer, r *evaluation.Result) error {
	if len(r.Flags) == 0 {
		_, err := fmt.Fprintln(w, "No validation flags.")
		return err
	}
	pretty, err := json.MarshalIndent(r.Flags, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(pretty))
	return err
}

func printSkills(w io.Writer, r *evaluation.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SKILL\tCONFIDENCE\tEVIDENCE")
	for _, v := range r.VerifiedSkills {
		sources := make([]string, 0, len(v.Sources))
		for _, src := range v.Sources {
			sources = append(sources, string(src))
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%s\n", v.Skill, v.Confidence, strings.Join(sources, ", "))
	}
	return tw.Flush()
}
