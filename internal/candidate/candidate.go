// Package candidate describes the evidence collected about a job candidate:
// the parsed résumé, the code-hosting and professional-network profiles and the
// semantic analysis produced by an AI collaborator.
package candidate

// Contact is the contact block found at the top of a résumé.
type Contact struct {
	Name     string `mapstructure:"name" json:"name,omitempty"`
	Email    string `mapstructure:"email" json:"email,omitempty"`
	Phone    string `mapstructure:"phone" json:"phone,omitempty"`
	LinkedIn string `mapstructure:"linkedin" json:"linkedin,omitempty"`
	GitHub   string `mapstructure:"github" json:"github,omitempty"`
	Location string `mapstructure:"location" json:"location,omitempty"`
}

// Experience is a single work history entry.
type Experience struct {
	Title   string `mapstructure:"title" json:"title,omitempty"`
	Company string `mapstructure:"company" json:"company,omitempty"`
	// Start and End hold dates as written on the résumé. End may be
	// "present", "current" or "now".
	Start          string `mapstructure:"start" json:"start,omitempty"`
	End            string `mapstructure:"end" json:"end,omitempty"`
	DurationMonths int    `mapstructure:"duration_months" json:"duration_months" validate:"gte=0"`
	// Description is the raw text of the entry.
	Description string `mapstructure:"description" json:"description,omitempty"`
}

type Education struct {
	Degree      string `mapstructure:"degree" json:"degree,omitempty"`
	Field       string `mapstructure:"field" json:"field,omitempty"`
	Institution string `mapstructure:"institution" json:"institution,omitempty"`
}

// ResumeFacts is the structured result of résumé extraction.
type ResumeFacts struct {
	Contact    Contact      `mapstructure:"contact" json:"contact"`
	Summary    string       `mapstructure:"summary" json:"summary,omitempty"`
	Experience []Experience `mapstructure:"experience" json:"experience" validate:"dive"`
	Education  []Education  `mapstructure:"education" json:"education,omitempty"`
	// Skills is the set of claimed skill strings.
	Skills []string `mapstructure:"skills" json:"skills,omitempty"`
	// KeywordCounts maps a normalized keyword to the number of times it occurs.
	KeywordCounts        map[string]int `mapstructure:"keyword_counts" json:"keyword_counts,omitempty" validate:"dive,gte=0"`
	TotalYearsExperience float64        `mapstructure:"total_years_experience" json:"total_years_experience" validate:"gte=0"`
	Certifications       []string       `mapstructure:"certifications" json:"certifications,omitempty"`
}

// Titles returns the distinct lowercase job titles found in the experience list.
func (r *ResumeFacts) Titles() []string {
	if r == nil {
		return nil
	}
	titles := make([]string, 0, len(r.Experience))
	for _, exp := range r.Experience {
		titles = append(titles, exp.Title)
	}
	return distinctLower(titles)
}

// LanguageStat is one entry of a code-hosting language breakdown.
type LanguageStat struct {
	Name       string  `mapstructure:"name" json:"name" validate:"required"`
	RepoCount  int     `mapstructure:"repo_count" json:"repo_count" validate:"gte=0"`
	Percentage float64 `mapstructure:"percentage" json:"percentage" validate:"gte=0,lte=100"`
}

// CodeHostingProfile is the activity snapshot of a public code-hosting account.
// When Status reports a failure every numeric field is treated as absent.
type CodeHostingProfile struct {
	Status  SourceStatus `mapstructure:"status" json:"status,omitempty"`
	Message string       `mapstructure:"message" json:"message,omitempty"`

	Username               string         `mapstructure:"username" json:"username,omitempty"`
	CommitsLast12Months    int            `mapstructure:"commits_last_12_months" json:"commits_last_12_months" validate:"gte=0"`
	Languages              []LanguageStat `mapstructure:"languages" json:"languages" validate:"dive"`
	ReadmeComplexityScore  float64        `mapstructure:"readme_complexity_score" json:"readme_complexity_score" validate:"gte=0,lte=10"`
	PublicRepos            int            `mapstructure:"public_repos" json:"public_repos" validate:"gte=0"`
	Followers              int            `mapstructure:"followers" json:"followers" validate:"gte=0"`
	Following              int            `mapstructure:"following" json:"following" validate:"gte=0"`
	ContributionStreakDays int            `mapstructure:"contribution_streak_days" json:"contribution_streak_days" validate:"gte=0"`
}

// Available reports whether the profile was fetched successfully. A nil
// profile is unavailable.
func (p *CodeHostingProfile) Available() bool {
	return p != nil && p.Status.OK()
}

// LanguageSet returns the normalized language names of the profile.
func (p *CodeHostingProfile) LanguageSet() map[string]struct{} {
	set := make(map[string]struct{})
	if !p.Available() {
		return set
	}
	for _, lang := range p.Languages {
		if name := NormalizeSkill(lang.Name); name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// LanguageNames returns the language names in profile order.
func (p *CodeHostingProfile) LanguageNames() []string {
	if !p.Available() {
		return nil
	}
	names := make([]string, 0, len(p.Languages))
	for _, lang := range p.Languages {
		names = append(names, lang.Name)
	}
	return names
}

// NetworkPosition is one position listed on a professional-network profile.
type NetworkPosition struct {
	Title   string `mapstructure:"title" json:"title,omitempty"`
	Company string `mapstructure:"company" json:"company,omitempty"`
}

// NetworkProfile is the professional-network profile of the candidate.
type NetworkProfile struct {
	Status  SourceStatus `mapstructure:"status" json:"status,omitempty"`
	Message string       `mapstructure:"message" json:"message,omitempty"`

	Name       string            `mapstructure:"name" json:"name,omitempty"`
	Headline   string            `mapstructure:"headline" json:"headline,omitempty"`
	Location   string            `mapstructure:"location" json:"location,omitempty"`
	Experience []NetworkPosition `mapstructure:"experience" json:"experience,omitempty"`
	Education  []Education       `mapstructure:"education" json:"education,omitempty"`
	Skills     []string          `mapstructure:"skills" json:"skills,omitempty"`
}

// Available reports whether the profile is present and was fetched successfully.
func (p *NetworkProfile) Available() bool {
	return p != nil && p.Status.OK()
}

// Titles returns the distinct lowercase titles on the profile.
func (p *NetworkProfile) Titles() []string {
	if !p.Available() {
		return nil
	}
	titles := make([]string, 0, len(p.Experience))
	for _, pos := range p.Experience {
		titles = append(titles, pos.Title)
	}
	return distinctLower(titles)
}

// Hiring recommendations produced by the semantic analysis.
const (
	RecommendStrongYes    = "STRONG_YES"
	RecommendYes          = "YES"
	RecommendMaybe        = "MAYBE"
	RecommendNo           = "NO"
	RecommendStrongNo     = "STRONG_NO"
	RecommendManualReview = "MANUAL_REVIEW"
)

// SemanticAnalysis is the AI judgment of how well the candidate fits the job.
// It is advisory: scores are seeded from it but flags never are.
type SemanticAnalysis struct {
	TechnicalMatchScore      float64  `mapstructure:"technical_match_score" json:"technical_match_score" validate:"gte=1,lte=10"`
	ExperienceRelevanceScore float64  `mapstructure:"experience_relevance_score" json:"experience_relevance_score" validate:"gte=1,lte=10"`
	MatchingSkills           []string `mapstructure:"key_matching_skills" json:"key_matching_skills"`
	MissingSkills            []string `mapstructure:"missing_skills" json:"missing_skills"`
	Strengths                []string `mapstructure:"strengths" json:"strengths,omitempty"`
	Concerns                 []string `mapstructure:"concerns" json:"concerns,omitempty"`
	HiringRecommendation     string   `mapstructure:"hiring_recommendation" json:"hiring_recommendation,omitempty" validate:"omitempty,oneof=STRONG_YES YES MAYBE NO STRONG_NO MANUAL_REVIEW"`
	Summary                  string   `mapstructure:"summary" json:"summary,omitempty"`
	// Fallback is set when the analysis was produced without a model answer.
	Fallback bool `mapstructure:"fallback" json:"fallback,omitempty"`
}

// Bundle is every piece of evidence gathered for one candidate.
type Bundle struct {
	ID          string              `mapstructure:"id" json:"id"`
	Resume      *ResumeFacts        `mapstructure:"resume" json:"resume"`
	CodeHosting *CodeHostingProfile `mapstructure:"code_hosting" json:"code_hosting,omitempty"`
	Network     *NetworkProfile     `mapstructure:"network" json:"network,omitempty"`
	Analysis    *SemanticAnalysis   `mapstructure:"analysis" json:"analysis,omitempty"`
}
