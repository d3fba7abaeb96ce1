// Package skills estimates how well each skill of a candidate is backed by
// evidence.
package skills

import (
	"math"
	"sort"

	"github.com/spigell/recruiter-copilot/internal/candidate"
)

// Source names a piece of evidence that confirms a skill.
type Source string

const (
	SourceResume      Source = "Resume"
	SourceCodeHosting Source = "Code hosting repos"
	SourceAI          Source = "AI verified"
)

var contributions = []struct {
	source Source
	weight float64
}{
	{source: SourceResume, weight: 0.5},
	{source: SourceCodeHosting, weight: 0.3},
	{source: SourceAI, weight: 0.2},
}

const maxConfidence = 1.0

// Evidence is what the confidence is computed from. Any field may be nil.
type Evidence struct {
	Resume      *candidate.ResumeFacts
	CodeHosting *candidate.CodeHostingProfile
	Analysis    *candidate.SemanticAnalysis
}

// Verified is a skill with its confidence and the sources that back it.
type Verified struct {
	Skill      string   `json:"skill"`
	Confidence float64  `json:"confidence"`
	Sources    []Source `json:"evidence"`
}

// Result holds the verified skills ordered by confidence, then name.
type Result struct {
	items []Verified
}

// Compute unions the skills of every source and accumulates a confidence per
// skill. Skills are compared after normalization. A failed code-hosting
// profile contributes nothing.
func Compute(ev Evidence) *Result {
	bySource := map[Source]map[string]struct{}{
		SourceResume:      toSet(ev.Resume.ClaimedSkills()),
		SourceCodeHosting: ev.CodeHosting.LanguageSet(),
		SourceAI:          nil,
	}
	if ev.Analysis != nil {
		bySource[SourceAI] = toSet(ev.Analysis.MatchingSkills)
	}

	all := make(map[string]struct{})
	for _, set := range bySource {
		for skill := range set {
			all[skill] = struct{}{}
		}
	}

	items := make([]Verified, 0, len(all))
	for skill := range all {
		v := Verified{Skill: skill}
		for _, c := range contributions {
			if _, ok := bySource[c.source][skill]; ok {
				v.Confidence += c.weight
				v.Sources = append(v.Sources, c.source)
			}
		}
		if len(v.Sources) == 0 {
			continue
		}
		v.Confidence = math.Min(maxConfidence, math.Round(v.Confidence*100)/100)
		items = append(items, v)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Confidence != items[j].Confidence {
			return items[i].Confidence > items[j].Confidence
		}
		return items[i].Skill < items[j].Skill
	})

	return &Result{items: items}
}

// Map returns skill to confidence.
func (r *Result) Map() map[string]float64 {
	out := make(map[string]float64, len(r.items))
	for _, v := range r.items {
		out[v.Skill] = v.Confidence
	}
	return out
}

// Ranked returns a copy of all verified skills in order.
func (r *Result) Ranked() []Verified {
	return r.Top(len(r.items))
}

// Top returns at most n skills in order.
func (r *Result) Top(n int) []Verified {
	if n > len(r.items) {
		n = len(r.items)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Verified, n)
	copy(out, r.items[:n])
	return out
}

func (r *Result) Len() int {
	return len(r.items)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if s := candidate.NormalizeSkill(v); s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}
