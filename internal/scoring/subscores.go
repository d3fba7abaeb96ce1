// Package scoring turns the evidence about a candidate into four 0-10
// sub-scores and combines them into a weighted total with a hiring band.
package scoring

import (
	"math"

	"github.com/spigell/recruiter-copilot/internal/candidate"
	"github.com/spigell/recruiter-copilot/internal/validator"
)

const (
	MinScore = 0.0
	MaxScore = 10.0
)

// step awards points when a value reaches min. Tables are ordered by
// descending min and the first matching step wins.
type step struct {
	min    float64
	points float64
}

func stepValue(steps []step, v, fallback float64) float64 {
	for _, s := range steps {
		if v >= s.min {
			return s.points
		}
	}
	return fallback
}

// Clamp limits v to [0,10]. NaN becomes 0.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return MinScore
	}
	return math.Max(MinScore, math.Min(MaxScore, v))
}

// Technical match

type technicalAdjustment struct {
	name  string
	apply func(matching, missing int) bool
	delta float64
}

var technicalAdjustments = []technicalAdjustment{
	{name: "many_matching_skills", apply: func(matching, _ int) bool { return matching >= 5 }, delta: 0.5},
	{name: "many_missing_skills", apply: func(_, missing int) bool { return missing >= 4 }, delta: -1.0},
}

// TechnicalSeed is the AI technical judgment used as the starting point.
func TechnicalSeed(a *candidate.SemanticAnalysis) float64 {
	if a == nil {
		return MinScore
	}
	return a.TechnicalMatchScore
}

// AdjustTechnical applies the deterministic skill-count adjustments to seed.
func AdjustTechnical(seed float64, matching, missing int) float64 {
	score := seed
	for _, adj := range technicalAdjustments {
		if adj.apply(matching, missing) {
			score += adj.delta
		}
	}
	return Clamp(score)
}

// TechnicalMatch seeds from the analysis and adjusts by matching and missing
// skill counts.
func TechnicalMatch(a *candidate.SemanticAnalysis) float64 {
	if a == nil {
		return MinScore
	}
	return AdjustTechnical(TechnicalSeed(a), len(a.MatchingSkills), len(a.MissingSkills))
}

// Experience depth

var experienceBands = []step{
	{min: 10, points: 9.0},
	{min: 7, points: 8.0},
	{min: 5, points: 7.0},
	{min: 3, points: 6.0},
	{min: 1, points: 4.0},
}

const experienceFloor = 2.0

// ExperienceBase maps total years of experience onto the band table.
func ExperienceBase(years float64) float64 {
	return stepValue(experienceBands, years, experienceFloor)
}

// ExperienceDepth averages the years band with the AI relevance judgment.
func ExperienceDepth(years float64, a *candidate.SemanticAnalysis) float64 {
	if a == nil {
		return MinScore
	}
	return Clamp((ExperienceBase(years) + a.ExperienceRelevanceScore) / 2)
}

// Activity

var (
	commitBands = []step{{min: 500, points: 4}, {min: 200, points: 3}, {min: 50, points: 2}}
	repoBands   = []step{{min: 30, points: 3}, {min: 15, points: 2}, {min: 5, points: 1.5}}
)

const (
	commitFloor     = 1.0
	repoFloor       = 1.0
	readmeMaxPoints = 2.0
	// readme scores at or above readmeFullCredit earn all readme points.
	readmeFullCredit = 8.0
	streakPoints     = 1.0
	streakMinDays    = 30
)

// ActivityComponents are the parts of the activity score.
type ActivityComponents struct {
	Commits float64 `json:"commits"`
	Repos   float64 `json:"repos"`
	Readme  float64 `json:"readme"`
	Streak  float64 `json:"streak"`
}

func (c ActivityComponents) Total() float64 {
	return Clamp(c.Commits + c.Repos + c.Readme + c.Streak)
}

// ActivityParts scores the code-hosting profile. An unavailable profile yields
// all zeros.
func ActivityParts(p *candidate.CodeHostingProfile) ActivityComponents {
	if !p.Available() {
		return ActivityComponents{}
	}

	streak := 0.0
	if p.ContributionStreakDays >= streakMinDays {
		streak = streakPoints
	}

	return ActivityComponents{
		Commits: stepValue(commitBands, float64(p.CommitsLast12Months), commitFloor),
		Repos:   stepValue(repoBands, float64(p.PublicRepos), repoFloor),
		Readme:  math.Min(readmeMaxPoints, math.Max(0, p.ReadmeComplexityScore)*readmeMaxPoints/readmeFullCredit),
		Streak:  streak,
	}
}

// Activity is the clamped sum of the activity components.
func Activity(p *candidate.CodeHostingProfile) float64 {
	return ActivityParts(p).Total()
}

// Credibility

var severityDeductions = map[validator.Severity]float64{
	validator.SeverityHigh:   3.0,
	validator.SeverityMedium: 1.5,
	validator.SeverityLow:    0.5,
}

// Deduction returns the credibility penalty for a severity. Unknown
// severities cost as much as LOW.
func Deduction(s validator.Severity) float64 {
	if d, ok := severityDeductions[s]; ok {
		return d
	}
	return severityDeductions[validator.SeverityLow]
}

// Credibility starts at 10 and subtracts a deduction per flag, flooring at 0.
func Credibility(flags []validator.Flag) float64 {
	score := MaxScore
	for _, f := range flags {
		score -= Deduction(f.Severity)
	}
	return Clamp(score)
}
