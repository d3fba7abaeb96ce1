package validator

import (
	"fmt"
	"strings"

	"github.com/spigell/recruiter-copilot/internal/candidate"
)

const (
	seniorityYears       = 5.0
	lowActivityCommits   = 50
	excessiveYears       = 30.0
	titleMismatchMinimum = 2
	titleEvidenceLimit   = 3
)

type skillActivityCheck struct{}

// NewSkillActivity flags claimed programming languages that never show up on
// the code-hosting profile.
func NewSkillActivity() Check {
	return &skillActivityCheck{}
}

func (c *skillActivityCheck) Name() string { return "skill_activity" }

func (c *skillActivityCheck) Applicable(src Sources) (bool, string) {
	return resumeAndCodeHosting(src)
}

func (c *skillActivityCheck) Run(src Sources) []Flag {
	languages := src.CodeHosting.LanguageSet()
	listed := strings.Join(src.CodeHosting.LanguageNames(), ", ")
	if listed == "" {
		listed = "none"
	}

	var flags []Flag
	for _, skill := range src.Resume.ClaimedSkills() {
		if !candidate.IsProgrammingLanguage(skill) {
			continue
		}
		if _, ok := languages[skill]; ok {
			continue
		}

		upper := strings.ToUpper(skill)
		flags = append(flags, Flag{
			Type:        FlagSkillNotVerified,
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Claims %s expertise on resume, but no %s repositories found on the code-hosting profile", upper, upper),
			Evidence:    fmt.Sprintf("claimed_skill=%s code_hosting_languages=[%s]", skill, listed),
		})
	}

	return flags
}

type activitySeniorityCheck struct{}

// NewActivitySeniority flags senior candidates with almost no recent commits.
func NewActivitySeniority() Check {
	return &activitySeniorityCheck{}
}

func (c *activitySeniorityCheck) Name() string { return "activity_seniority" }

func (c *activitySeniorityCheck) Applicable(src Sources) (bool, string) {
	return resumeAndCodeHosting(src)
}

func (c *activitySeniorityCheck) Run(src Sources) []Flag {
	years := src.Resume.TotalYearsExperience
	commits := src.CodeHosting.CommitsLast12Months
	if years < seniorityYears || commits >= lowActivityCommits {
		return nil
	}

	return []Flag{{
		Type:        FlagLowGitHubActivity,
		Severity:    SeverityLow,
		Description: fmt.Sprintf("Claims %.1f years of experience but has minimal code-hosting activity (%d commits in the last 12 months)", years, commits),
		Evidence:    fmt.Sprintf("years_experience=%.1f commits_last_12_months=%d public_repos=%d", years, commits, src.CodeHosting.PublicRepos),
	}}
}

type excessiveExperienceCheck struct{}

// NewExcessiveExperience flags unusually long careers.
func NewExcessiveExperience() Check {
	return &excessiveExperienceCheck{}
}

func (c *excessiveExperienceCheck) Name() string { return "excessive_experience" }

func (c *excessiveExperienceCheck) Applicable(src Sources) (bool, string) {
	return resumeOnly(src)
}

func (c *excessiveExperienceCheck) Run(src Sources) []Flag {
	years := src.Resume.TotalYearsExperience
	if years <= excessiveYears {
		return nil
	}

	return []Flag{{
		Type:        FlagExcessiveExperience,
		Severity:    SeverityMedium,
		Description: fmt.Sprintf("Total experience claimed is %.1f years, which is unusually high", years),
		Evidence:    fmt.Sprintf("total_years=%.1f positions=%d", years, len(src.Resume.Experience)),
	}}
}

type titleMismatchCheck struct{}

// NewTitleMismatch flags résumés whose job titles share nothing with the
// professional-network profile.
func NewTitleMismatch() Check {
	return &titleMismatchCheck{}
}

func (c *titleMismatchCheck) Name() string { return "title_mismatch" }

func (c *titleMismatchCheck) Applicable(src Sources) (bool, string) {
	if ok, reason := resumeOnly(src); !ok {
		return ok, reason
	}
	if src.Network == nil {
		return false, "professional-network profile is absent"
	}
	if !src.Network.Available() {
		return false, "professional-network profile is unavailable"
	}
	return true, ""
}

func (c *titleMismatchCheck) Run(src Sources) []Flag {
	resumeTitles := src.Resume.Titles()
	networkTitles := src.Network.Titles()

	if len(resumeTitles) <= titleMismatchMinimum || len(networkTitles) <= titleMismatchMinimum {
		return nil
	}

	known := make(map[string]struct{}, len(networkTitles))
	for _, title := range networkTitles {
		known[title] = struct{}{}
	}
	for _, title := range resumeTitles {
		if _, ok := known[title]; ok {
			return nil
		}
	}

	return []Flag{{
		Type:        FlagTitleMismatch,
		Severity:    SeverityMedium,
		Description: "Job titles on resume don't match the professional-network profile",
		Evidence: fmt.Sprintf("resume_titles=[%s] network_titles=[%s]",
			strings.Join(limit(resumeTitles, titleEvidenceLimit), ", "),
			strings.Join(limit(networkTitles, titleEvidenceLimit), ", ")),
	}}
}

func limit(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}
