package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/recruiter-copilot/internal/candidate"
	"github.com/spigell/recruiter-copilot/internal/timeline"
)

func activeProfile(languages ...string) *candidate.CodeHostingProfile {
	p := &candidate.CodeHostingProfile{CommitsLast12Months: 300, PublicRepos: 20}
	for _, lang := range languages {
		p.Languages = append(p.Languages, candidate.LanguageStat{Name: lang, RepoCount: 1})
	}
	return p
}

func validate(v *Validator, src Sources) []Flag {
	flags, _ := v.Describe(src)
	return flags
}

func flagTypes(flags []Flag) []FlagType {
	types := make([]FlagType, 0, len(flags))
	for _, f := range flags {
		types = append(types, f.Type)
	}
	return types
}

func TestTechAge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		year  int
		text  string
		want  []Claim
		flags int
	}{
		{
			name:  "claim equal to years since release is allowed",
			year:  2026,
			text:  "8 years of FastAPI",
			want:  []Claim{{Technology: "fastapi", Years: 8, Location: "summary"}},
			flags: 0,
		},
		{
			name:  "claim older than technology",
			year:  2021,
			text:  "8 years of FastAPI",
			want:  []Claim{{Technology: "fastapi", Years: 8, Location: "summary"}},
			flags: 1,
		},
		{
			name:  "connector words",
			year:  2026,
			text:  "Senior developer with 15+ years of experience in React Native and 3 years using Docker",
			want:  []Claim{{Technology: "react native", Years: 15, Location: "summary"}, {Technology: "docker", Years: 3, Location: "summary"}},
			flags: 1,
		},
		{
			name:  "expert phrasing",
			year:  2026,
			text:  "LangChain expert with 6 years",
			want:  []Claim{{Technology: "langchain", Years: 6, Location: "summary"}},
			flags: 1,
		},
		{
			name:  "role phrasing",
			year:  2026,
			text:  "20 years Kubernetes engineer",
			want:  []Claim{{Technology: "kubernetes", Years: 20, Location: "summary"}},
			flags: 1,
		},
		{
			name:  "released this year is never flagged",
			year:  2022,
			text:  "3 years with langchain",
			want:  []Claim{{Technology: "langchain", Years: 3, Location: "summary"}},
			flags: 0,
		},
		{
			name: "unknown technology is ignored",
			year: 2026,
			text: "40 years of COBOL",
		},
		{
			name: "term must be a whole word",
			year: 2026,
			text: "30 years in google cloud",
		},
		{
			name: "claim ends at a sentence break",
			year: 2026,
			text: "12 years of experience in banking. Recently adopted FastAPI.",
		},
		{
			name: "claim ends at a line break",
			year: 2026,
			text: "10 years in sales\nkubernetes on the side",
		},
		{
			name:  "expert phrasing starts after a sentence break",
			year:  2020,
			text:  "Shipped Go services. React expert with 10 years",
			want:  []Claim{{Technology: "react", Years: 10, Location: "summary"}},
			flags: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			check := NewTechAge(timeline.Default(), tt.year).(*techAgeCheck)
			src := Sources{Resume: &candidate.ResumeFacts{Summary: tt.text}}

			assert.Equal(t, tt.want, check.Claims(src))

			flags := check.Run(src)
			require.Len(t, flags, tt.flags)
			for _, f := range flags {
				assert.Equal(t, FlagTechAgeImplausible, f.Type)
				assert.Equal(t, SeverityHigh, f.Severity)
				assert.Contains(t, f.Evidence, "release_year=")
				assert.Contains(t, f.Evidence, "claimed_years=")
			}
		})
	}
}

func TestTechAgeClaimsPerSection(t *testing.T) {
	t.Parallel()

	resume := &candidate.ResumeFacts{
		Summary: "8 years of experience with React Native",
		Experience: []candidate.Experience{
			{Title: "Mobile Engineer", Description: "8 years React Native developer"},
			{Title: "Lead", Description: "Led a team. 9 years with react native."},
			{Title: "Contractor", Description: "8 years with react native"},
		},
	}

	flags := validate(New(Options{EvaluationYear: 2020}), Sources{Resume: resume})
	require.Len(t, flags, 4)

	wants := []struct {
		years    string
		location string
	}{
		{years: "claimed_years=8", location: "found_in=summary"},
		{years: "claimed_years=8", location: "found_in=experience[0]"},
		{years: "claimed_years=9", location: "found_in=experience[1]"},
		{years: "claimed_years=8", location: "found_in=experience[2]"},
	}
	for i, want := range wants {
		assert.Contains(t, flags[i].Evidence, want.years)
		assert.Contains(t, flags[i].Evidence, want.location)
	}
}

func TestSkillActivity(t *testing.T) {
	t.Parallel()

	resume := &candidate.ResumeFacts{Skills: []string{"Python", "Docker", "Go"}}

	t.Run("unverified language is flagged", func(t *testing.T) {
		t.Parallel()

		flags := validate(New(Options{EvaluationYear: 2026}), Sources{Resume: resume, CodeHosting: activeProfile("JavaScript", "Go")})
		require.Len(t, flags, 1)
		assert.Equal(t, FlagSkillNotVerified, flags[0].Type)
		assert.Equal(t, SeverityMedium, flags[0].Severity)
		assert.Contains(t, flags[0].Description, "PYTHON")
		assert.Contains(t, flags[0].Evidence, "JavaScript, Go")
	})

	t.Run("aliases match", func(t *testing.T) {
		t.Parallel()

		flags := validate(New(Options{EvaluationYear: 2026}), Sources{Resume: resume, CodeHosting: activeProfile("python", "Golang")})
		assert.Empty(t, flags)
	})

	for _, status := range []candidate.SourceStatus{candidate.StatusNotFound, candidate.StatusBlocked, candidate.StatusScrapingFailed} {
		t.Run("skipped when "+string(status), func(t *testing.T) {
			t.Parallel()

			hosting := &candidate.CodeHostingProfile{Status: status}
			flags, statuses := New(Options{EvaluationYear: 2026}).Describe(Sources{Resume: resume, CodeHosting: hosting})
			assert.Empty(t, flags)
			assert.False(t, statuses[1].Enabled)
			assert.Equal(t, "code-hosting profile is unavailable", statuses[1].Reason)
		})
	}

	t.Run("skipped when absent", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, validate(New(Options{EvaluationYear: 2026}), Sources{Resume: resume}))
	})
}

func TestActivitySeniority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		years   float64
		commits int
		status  candidate.SourceStatus
		flagged bool
	}{
		{name: "senior and quiet", years: 5, commits: 49, flagged: true},
		{name: "senior and active", years: 12, commits: 50},
		{name: "junior and quiet", years: 4.9, commits: 0},
		{name: "failed profile", years: 10, commits: 0, status: candidate.StatusScrapingFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := Sources{
				Resume:      &candidate.ResumeFacts{TotalYearsExperience: tt.years},
				CodeHosting: &candidate.CodeHostingProfile{Status: tt.status, CommitsLast12Months: tt.commits},
			}
			flags := validate(NewWithChecks(NewActivitySeniority()), src)

			if !tt.flagged {
				assert.Empty(t, flags)
				return
			}
			require.Len(t, flags, 1)
			assert.Equal(t, FlagLowGitHubActivity, flags[0].Type)
			assert.Equal(t, SeverityLow, flags[0].Severity)
		})
	}
}

func TestExcessiveExperience(t *testing.T) {
	t.Parallel()

	check := NewWithChecks(NewExcessiveExperience())
	assert.Empty(t, validate(check, Sources{Resume: &candidate.ResumeFacts{TotalYearsExperience: 30}}))

	flags := validate(check, Sources{Resume: &candidate.ResumeFacts{TotalYearsExperience: 31.5}})
	require.Len(t, flags, 1)
	assert.Equal(t, FlagExcessiveExperience, flags[0].Type)
	assert.Equal(t, SeverityMedium, flags[0].Severity)
}

func TestTitleMismatch(t *testing.T) {
	t.Parallel()

	resume := &candidate.ResumeFacts{Experience: []candidate.Experience{
		{Title: "Backend Engineer"}, {Title: "Platform Engineer"}, {Title: "Tech Lead"},
	}}
	positions := func(titles ...string) []candidate.NetworkPosition {
		out := make([]candidate.NetworkPosition, 0, len(titles))
		for _, title := range titles {
			out = append(out, candidate.NetworkPosition{Title: title})
		}
		return out
	}

	tests := []struct {
		name    string
		network *candidate.NetworkProfile
		flagged bool
	}{
		{name: "no overlap", network: &candidate.NetworkProfile{Experience: positions("Chef", "Pilot", "Painter")}, flagged: true},
		{name: "overlap ignores case", network: &candidate.NetworkProfile{Experience: positions("chef", "pilot", "tech lead")}},
		{name: "too few titles", network: &candidate.NetworkProfile{Experience: positions("Chef", "Pilot")}},
		{name: "scraping failed", network: &candidate.NetworkProfile{Status: candidate.StatusScrapingFailed, Experience: positions("Chef", "Pilot", "Painter")}},
		{name: "absent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags := validate(NewWithChecks(NewTitleMismatch()), Sources{Resume: resume, Network: tt.network})
			if !tt.flagged {
				assert.Empty(t, flags)
				return
			}
			require.Len(t, flags, 1)
			assert.Equal(t, FlagTitleMismatch, flags[0].Type)
			assert.Equal(t, "resume_titles=[backend engineer, platform engineer, tech lead] network_titles=[chef, painter, pilot]", flags[0].Evidence)
		})
	}
}

func TestValidateOrderAndDeterminism(t *testing.T) {
	t.Parallel()

	src := Sources{
		Resume: &candidate.ResumeFacts{
			Summary:              "12 years of experience with Kubernetes",
			Skills:               []string{"Rust", "Java"},
			TotalYearsExperience: 31,
		},
		CodeHosting: &candidate.CodeHostingProfile{CommitsLast12Months: 10, Languages: []candidate.LanguageStat{{Name: "Go"}}},
	}

	v := New(Options{EvaluationYear: 2024})
	first := validate(v, src)

	assert.Equal(t, []FlagType{
		FlagTechAgeImplausible,
		FlagSkillNotVerified,
		FlagSkillNotVerified,
		FlagLowGitHubActivity,
		FlagExcessiveExperience,
	}, flagTypes(first))

	for i := 0; i < 10; i++ {
		assert.Equal(t, first, validate(v, src))
	}
}

func TestValidateWithoutResume(t *testing.T) {
	t.Parallel()

	flags, statuses := New(Options{EvaluationYear: 2026}).Describe(Sources{CodeHosting: activeProfile("Go")})
	assert.Empty(t, flags)
	require.Len(t, statuses, 5)
	for _, s := range statuses {
		assert.False(t, s.Enabled)
		assert.Equal(t, "resume is missing", s.Reason)
	}
}
