package candidate

import (
	"math"
	"strings"
	"time"
)

var dateLayouts = []string{
	"January 2006",
	"Jan 2006",
	"01/2006",
	"1/2006",
	"2006-01",
	"2006",
}

var presentWords = map[string]struct{}{
	"present": {},
	"current": {},
	"now":     {},
}

// ParseDate parses a résumé date. "present", "current" and "now" resolve to now.
func ParseDate(value string, now time.Time) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	if _, ok := presentWords[strings.ToLower(v)]; ok {
		return now, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MonthsBetween returns the whole months from start to end, never negative.
func MonthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	if months < 0 {
		return 0
	}
	return months
}

// Resolve returns a copy of the résumé with entry durations derived from their
// dates and the total recomputed from those durations. Entries that already
// carry a duration keep it. When no entry contributes any months the supplied
// total is kept.
//
// Overlapping entries are summed, not merged, so concurrent jobs overstate the
// total. This is a known approximation.
func (r *ResumeFacts) Resolve(now time.Time) *ResumeFacts {
	if r == nil {
		return nil
	}

	out := *r
	out.Experience = make([]Experience, len(r.Experience))
	copy(out.Experience, r.Experience)

	total := 0
	for i := range out.Experience {
		exp := &out.Experience[i]
		if exp.DurationMonths == 0 {
			start, okStart := ParseDate(exp.Start, now)
			end, okEnd := ParseDate(exp.End, now)
			if okStart && okEnd {
				exp.DurationMonths = MonthsBetween(start, end)
			}
		}
		total += exp.DurationMonths
	}

	if total > 0 {
		out.TotalYearsExperience = math.Round(float64(total)/12*10) / 10
	}

	return &out
}
