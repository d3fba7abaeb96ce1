package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/recruiter-copilot/internal/evaluation"
	"github.com/spigell/recruiter-copilot/internal/validator"
)

type minimumScoreFilter struct {
	minimum float64
	enabled bool
	reason  string
}

// NewMinimumScore creates a filter that drops candidates whose displayed score
// is below minimum. A non-positive minimum disables the filter.
func NewMinimumScore(minimum float64) Filter {
	f := &minimumScoreFilter{minimum: minimum, enabled: minimum > 0}
	if !f.enabled {
		f.reason = "minimum score is not set"
	}
	return f
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *minimumScoreFilter) IsEnabled() bool { return f.enabled }

func (f *minimumScoreFilter) Validate() error {
	if f.minimum > 10 {
		return fmt.Errorf("minimum score must be at most 10, got %v", f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, deps Deps, results []*evaluation.Result) ([]*evaluation.Result, Step, error) {
	initial := len(results)
	kept, dropped := keep(results, func(r *evaluation.Result) bool {
		return r.Breakdown.Display >= f.minimum
	})

	if len(dropped) > 0 {
		deps.Logger.Info("excluding candidates below the minimum score",
			zap.Strings("excluded_candidates", dropped),
			zap.Float64("minimum_score", f.minimum),
			zap.Int("candidates_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"minimum_score": strconv.FormatFloat(f.minimum, 'f', -1, 64)},
	}
}

type criticalFlagsFilter struct {
	enabled bool
	reason  string
}

// NewCriticalFlags creates a filter that drops candidates with at least one
// HIGH severity flag.
func NewCriticalFlags(enabled bool) Filter {
	f := &criticalFlagsFilter{enabled: enabled}
	if !enabled {
		f.reason = "critical flags are allowed"
	}
	return f
}

func (f *criticalFlagsFilter) Name() string { return "critical_flags" }

func (f *criticalFlagsFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *criticalFlagsFilter) IsEnabled() bool { return f.enabled }

func (f *criticalFlagsFilter) Validate() error { return nil }

func (f *criticalFlagsFilter) Apply(_ context.Context, deps Deps, results []*evaluation.Result) ([]*evaluation.Result, Step, error) {
	initial := len(results)
	kept, dropped := keep(results, func(r *evaluation.Result) bool {
		for _, flag := range r.Flags {
			if flag.Severity == validator.SeverityHigh {
				return false
			}
		}
		return true
	})

	if len(dropped) > 0 {
		deps.Logger.Info("excluding candidates with critical flags",
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *criticalFlagsFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason}
}
