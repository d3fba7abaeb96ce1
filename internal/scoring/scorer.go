package scoring

import (
	"fmt"
	"math"
)

// Band is a named score range and the hiring recommendation attached to it.
type Band struct {
	Min            float64 `json:"-"`
	Rating         string  `json:"rating"`
	Recommendation string  `json:"recommendation"`
	Description    string  `json:"description"`
}

// Bands is ordered by descending lower bound. Each band covers [Min, previous
// band's Min), so a boundary value belongs to the higher band.
var Bands = []Band{
	{Min: 8.5, Rating: "EXCELLENT", Recommendation: "STRONG_YES", Description: "Outstanding candidate with strong technical alignment"},
	{Min: 7.0, Rating: "GOOD", Recommendation: "YES", Description: "Well-qualified candidate worth interviewing"},
	{Min: 5.5, Rating: "FAIR", Recommendation: "MAYBE", Description: "Candidate has potential but may lack some requirements"},
	{Min: 4.0, Rating: "BELOW_AVERAGE", Recommendation: "PROBABLY_NO", Description: "Significant gaps in qualifications for this role"},
	{Min: 0, Rating: "POOR", Recommendation: "NO", Description: "Candidate does not meet minimum requirements"},
}

// bandPrecision keeps float noise such as 8.4999999999 from falling below a
// boundary it mathematically reaches.
const bandPrecision = 1e6

// Classify returns the band containing total.
func Classify(total float64) Band {
	snapped := math.Round(Clamp(total)*bandPrecision) / bandPrecision
	for _, b := range Bands {
		if snapped >= b.Min {
			return b
		}
	}
	return Bands[len(Bands)-1]
}

// SubScores are the four independent sub-scores.
type SubScores struct {
	TechnicalMatch  float64 `json:"technical_match"`
	ExperienceDepth float64 `json:"experience_depth"`
	Activity        float64 `json:"activity_score"`
	Credibility     float64 `json:"credibility"`
}

// Breakdown is the complete scoring result.
type Breakdown struct {
	SubScores
	// Total is the unrounded weighted sum, kept for ranking.
	Total float64 `json:"total_unrounded"`
	// Display is Total rounded to one decimal.
	Display float64 `json:"total_score"`
	Band    Band    `json:"interpretation"`
	Weights Weights `json:"weights"`
}

// Scorer combines sub-scores using a fixed set of weights.
type Scorer struct {
	weights Weights
}

// NewScorer validates the weights. Zero weights select DefaultWeights.
func NewScorer(w Weights) (*Scorer, error) {
	if w.IsZero() {
		w = DefaultWeights
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring weights: %w", err)
	}
	return &Scorer{weights: w}, nil
}

func (s *Scorer) Weights() Weights {
	return s.weights
}

// Combine clamps the sub-scores, computes the weighted total and its band.
func (s *Scorer) Combine(sub SubScores) Breakdown {
	sub = SubScores{
		TechnicalMatch:  Clamp(sub.TechnicalMatch),
		ExperienceDepth: Clamp(sub.ExperienceDepth),
		Activity:        Clamp(sub.Activity),
		Credibility:     Clamp(sub.Credibility),
	}

	w := s.weights
	total := Clamp(sub.TechnicalMatch*w.Technical +
		sub.ExperienceDepth*w.Experience +
		sub.Activity*w.Activity +
		sub.Credibility*w.Credibility)

	return Breakdown{
		SubScores: sub,
		Total:     total,
		Display:   Round1(total),
		Band:      Classify(total),
		Weights:   w,
	}
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
