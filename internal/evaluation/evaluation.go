// Package evaluation runs the validator, the sub-score calculators and the
// scorer over the evidence gathered for a candidate.
package evaluation

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/recruiter-copilot/internal/candidate"
	"github.com/spigell/recruiter-copilot/internal/logger"
	"github.com/spigell/recruiter-copilot/internal/scoring"
	"github.com/spigell/recruiter-copilot/internal/skills"
	"github.com/spigell/recruiter-copilot/internal/timeline"
	"github.com/spigell/recruiter-copilot/internal/validator"
)

// Input is the already fetched evidence for one candidate. CodeHosting and
// Network may be nil or carry a failure status.
type Input struct {
	CandidateID string
	Resume      *candidate.ResumeFacts
	CodeHosting *candidate.CodeHostingProfile
	Network     *candidate.NetworkProfile
	Analysis    *candidate.SemanticAnalysis
}

// InputFromBundle converts a loaded bundle into an evaluation input.
func InputFromBundle(b *candidate.Bundle) Input {
	if b == nil {
		return Input{}
	}
	return Input{
		CandidateID: b.ID,
		Resume:      b.Resume,
		CodeHosting: b.CodeHosting,
		Network:     b.Network,
		Analysis:    b.Analysis,
	}
}

// Result is the outcome of one evaluation.
type Result struct {
	CandidateID string
	Breakdown   scoring.Breakdown
	Activity    scoring.ActivityComponents
	Flags       []validator.Flag
	Checks      []validator.Status
	// Skills maps a normalized skill to its confidence.
	Skills map[string]float64
	// VerifiedSkills is Skills ordered by confidence, then name.
	VerifiedSkills []skills.Verified
	// Resume is the résumé with derived durations and total.
	Resume      *candidate.ResumeFacts
	EvaluatedAt time.Time
}

// Config configures an Evaluator.
type Config struct {
	Weights scoring.Weights
	// EvaluationYear overrides the year taken from Now for technology-age checks.
	EvaluationYear int
	Timeline       *timeline.Timeline
	// Now supplies the evaluation time. Defaults to time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

// Evaluator is safe for concurrent use.
type Evaluator struct {
	scorer   *scoring.Scorer
	timeline *timeline.Timeline
	year     int
	now      func() time.Time
	logger   *zap.Logger
}

func New(cfg Config) (*Evaluator, error) {
	scorer, err := scoring.NewScorer(cfg.Weights)
	if err != nil {
		return nil, err
	}

	if cfg.EvaluationYear < 0 {
		return nil, fmt.Errorf("evaluation year must not be negative, got %d", cfg.EvaluationYear)
	}

	e := &Evaluator{
		scorer:   scorer,
		timeline: cfg.Timeline,
		year:     cfg.EvaluationYear,
		now:      cfg.Now,
		logger:   logger.WithFields(cfg.Logger),
	}
	if e.timeline == nil {
		e.timeline = timeline.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}

	return e, nil
}

func (e *Evaluator) Weights() scoring.Weights {
	return e.scorer.Weights()
}

// Evaluate validates the input, runs the validator and the four calculators
// and combines them. Inputs are never modified.
func (e *Evaluator) Evaluate(in Input) (*Result, error) {
	if err := validateInput(in); err != nil {
		return nil, fmt.Errorf("evaluating candidate %q: %w", in.CandidateID, err)
	}

	now := e.now()
	year := e.year
	if year == 0 {
		year = now.Year()
	}

	resume := in.Resume.Resolve(now)
	src := validator.Sources{Resume: resume, CodeHosting: in.CodeHosting, Network: in.Network}

	flags, checks := validator.New(validator.Options{EvaluationYear: year, Timeline: e.timeline}).Describe(src)

	activity := scoring.ActivityParts(in.CodeHosting)
	breakdown := e.scorer.Combine(scoring.SubScores{
		TechnicalMatch:  scoring.TechnicalMatch(in.Analysis),
		ExperienceDepth: scoring.ExperienceDepth(resume.TotalYearsExperience, in.Analysis),
		Activity:        activity.Total(),
		Credibility:     scoring.Credibility(flags),
	})

	verified := skills.Compute(skills.Evidence{Resume: resume, CodeHosting: in.CodeHosting, Analysis: in.Analysis})

	log := logger.WithFields(e.logger, logger.CandidateFields(in.CandidateID)...)
	for _, c := range checks {
		if !c.Enabled {
			log.Debug("validation check skipped", zap.String("check", c.Name), zap.String("reason", c.Reason))
		}
	}
	log.Debug("candidate evaluated",
		zap.Float64("total_score", breakdown.Display),
		zap.String("rating", breakdown.Band.Rating),
		zap.Int("flags", len(flags)),
		zap.Int("evaluation_year", year),
	)

	return &Result{
		CandidateID:    in.CandidateID,
		Breakdown:      breakdown,
		Activity:       activity,
		Flags:          flags,
		Checks:         checks,
		Skills:         verified.Map(),
		VerifiedSkills: verified.Ranked(),
		Resume:         resume,
		EvaluatedAt:    now,
	}, nil
}

func validateInput(in Input) error {
	if err := in.Resume.Validate(); err != nil {
		return err
	}
	if err := in.CodeHosting.Validate(); err != nil {
		return err
	}
	return in.Analysis.Validate()
}
