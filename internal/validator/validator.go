// Package validator cross-checks the résumé against the other evidence
// sources and reports inconsistencies as severity-tagged flags.
package validator

import (
	"github.com/spigell/recruiter-copilot/internal/candidate"
	"github.com/spigell/recruiter-copilot/internal/timeline"
)

// Severity of a flag.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// FlagType identifies the kind of inconsistency. The set is open.
type FlagType string

const (
	FlagTechAgeImplausible  FlagType = "TECH_AGE_IMPLAUSIBLE"
	FlagSkillNotVerified    FlagType = "SKILL_NOT_VERIFIED"
	FlagLowGitHubActivity   FlagType = "LOW_GITHUB_ACTIVITY"
	FlagExcessiveExperience FlagType = "EXCESSIVE_EXPERIENCE"
	FlagTitleMismatch       FlagType = "TITLE_MISMATCH"
)

// Flag is a single finding. Flags are values and are never changed once emitted.
type Flag struct {
	Type        FlagType `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Evidence    string   `json:"evidence"`
}

// Sources is the evidence a check may look at. Failed or absent profiles are
// represented as they were received; checks decide whether they can run.
type Sources struct {
	Resume      *candidate.ResumeFacts
	CodeHosting *candidate.CodeHostingProfile
	Network     *candidate.NetworkProfile
}

// Check is one independent validation rule.
type Check interface {
	Name() string
	// Applicable reports whether the sources the check needs are usable. The
	// reason explains a skip.
	Applicable(src Sources) (bool, string)
	Run(src Sources) []Flag
}

// Status describes whether a check ran for a given set of sources.
type Status struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason,omitempty"`
	Flags   int    `json:"flags"`
}

// Validator runs its checks in a fixed order.
type Validator struct {
	checks []Check
}

// Options configures the default checks.
type Options struct {
	// EvaluationYear is the year claims are judged against.
	EvaluationYear int
	Timeline       *timeline.Timeline
}

// New returns a validator with the default checks in their fixed order.
func New(opts Options) *Validator {
	tl := opts.Timeline
	if tl == nil {
		tl = timeline.Default()
	}

	return NewWithChecks(
		NewTechAge(tl, opts.EvaluationYear),
		NewSkillActivity(),
		NewActivitySeniority(),
		NewExcessiveExperience(),
		NewTitleMismatch(),
	)
}

// NewWithChecks returns a validator running exactly the provided checks.
func NewWithChecks(checks ...Check) *Validator {
	return &Validator{checks: checks}
}

// Describe runs every applicable check and reports which of them ran. Flags
// are returned in the order they were found; the same input always yields the
// same sequence.
func (v *Validator) Describe(src Sources) ([]Flag, []Status) {
	flags := make([]Flag, 0)
	statuses := make([]Status, 0, len(v.checks))

	for _, check := range v.checks {
		ok, reason := check.Applicable(src)
		if !ok {
			statuses = append(statuses, Status{Name: check.Name(), Reason: reason})
			continue
		}

		found := check.Run(src)
		flags = append(flags, found...)
		statuses = append(statuses, Status{Name: check.Name(), Enabled: true, Flags: len(found)})
	}

	return flags, statuses
}

func resumeOnly(src Sources) (bool, string) {
	if src.Resume == nil {
		return false, "resume is missing"
	}
	return true, ""
}

func resumeAndCodeHosting(src Sources) (bool, string) {
	if ok, reason := resumeOnly(src); !ok {
		return ok, reason
	}
	if !src.CodeHosting.Available() {
		return false, "code-hosting profile is unavailable"
	}
	return true, ""
}
