package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/spigell/recruiter-copilot/internal/timeline"
)

var (
	// "8 years of experience with react", "5+ years in go", "8 years of fastapi"
	yearsThenTech = regexp.MustCompile(`(\d+)\+?\s*years?\s+(?:of\s+)?(?:experience\s+)?(?:(?:with|in|using)\s+)?([a-z][a-z\s.\-]*)`)
	// "react expert with 10 years"
	techThenYears = regexp.MustCompile(`([a-z][a-z\s.\-]*)\s+expert\s+with\s+(\d+)\+?\s*years?`)
	// "6 years kubernetes engineer"
	yearsTechRole = regexp.MustCompile(`(\d+)\+?\s*years?\s+([a-z][a-z\s.\-]*?)\s+(?:developer|engineer)`)

	// a period followed by whitespace, or a line break, ends a sentence
	sentenceBreak = regexp.MustCompile(`\.\s|\n`)
)

type claimPattern struct {
	re        *regexp.Regexp
	yearsIdx  int
	phraseIdx int
	// phraseLeads is set when the technology comes before the years, so the
	// sentence nearest the years is the last one in the phrase.
	phraseLeads bool
}

var claimPatterns = []claimPattern{
	{re: yearsThenTech, yearsIdx: 1, phraseIdx: 2},
	{re: techThenYears, yearsIdx: 2, phraseIdx: 1, phraseLeads: true},
	{re: yearsTechRole, yearsIdx: 1, phraseIdx: 2},
}

// Claim is a "N years of TECH" statement found in résumé text.
type Claim struct {
	Technology string
	Years      int
	Location   string
}

type techAgeCheck struct {
	timeline *timeline.Timeline
	year     int
}

// NewTechAge flags claims of more years with a technology than it has existed.
func NewTechAge(tl *timeline.Timeline, evaluationYear int) Check {
	return &techAgeCheck{timeline: tl, year: evaluationYear}
}

func (c *techAgeCheck) Name() string { return "tech_age" }

func (c *techAgeCheck) Applicable(src Sources) (bool, string) {
	if c.year <= 0 {
		return false, "evaluation year is not set"
	}
	return resumeOnly(src)
}

func (c *techAgeCheck) Run(src Sources) []Flag {
	var flags []Flag

	for _, claim := range c.Claims(src) {
		release, ok := c.timeline.Lookup(claim.Technology)
		if !ok {
			continue
		}

		since := c.year - release
		if since <= 0 || claim.Years <= since {
			continue
		}

		flags = append(flags, Flag{
			Type:     FlagTechAgeImplausible,
			Severity: SeverityHigh,
			Description: fmt.Sprintf("Claims %d years of experience with %s, but it was released in %d (%d years ago)",
				claim.Years, claim.Technology, release, since),
			Evidence: fmt.Sprintf("technology=%s claimed_years=%d release_year=%d evaluation_year=%d found_in=%s",
				claim.Technology, claim.Years, release, c.year, claim.Location),
		})
	}

	return flags
}

// Claims extracts the technology experience claims from the résumé summary and
// experience descriptions. Within one section an identical (technology, years)
// pair is reported once; the same pair in another section is a separate claim.
func (c *techAgeCheck) Claims(src Sources) []Claim {
	if src.Resume == nil {
		return nil
	}

	type text struct {
		location string
		body     string
	}

	texts := []text{{location: "summary", body: src.Resume.Summary}}
	for i, exp := range src.Resume.Experience {
		texts = append(texts, text{location: fmt.Sprintf("experience[%d]", i), body: exp.Description})
	}

	terms := c.timeline.Names()
	seen := make(map[string]struct{})
	var claims []Claim

	for _, t := range texts {
		body := strings.ToLower(t.body)
		if strings.TrimSpace(body) == "" {
			continue
		}

		for _, p := range claimPatterns {
			for _, m := range p.re.FindAllStringSubmatch(body, -1) {
				years, err := strconv.Atoi(m[p.yearsIdx])
				if err != nil {
					continue
				}

				tech := findTerm(sentence(m[p.phraseIdx], p.phraseLeads), terms)
				if tech == "" {
					continue
				}

				key := t.location + "\x00" + tech + "\x00" + strconv.Itoa(years)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}

				claims = append(claims, Claim{Technology: tech, Years: years, Location: t.location})
			}
		}
	}

	return claims
}

// sentence trims phrase to the sentence adjacent to the years: the first one,
// or the last one when last is set.
func sentence(phrase string, last bool) string {
	parts := sentenceBreak.Split(phrase, -1)
	if last {
		return parts[len(parts)-1]
	}
	return parts[0]
}

// findTerm returns the term occurring earliest in phrase as a whole word.
// Terms are expected longest first, so the longer term wins a tie.
func findTerm(phrase string, terms []string) string {
	best := ""
	bestIdx := -1

	for _, term := range terms {
		idx := wordIndex(phrase, term)
		if idx == -1 {
			continue
		}
		if bestIdx == -1 || idx < bestIdx {
			best, bestIdx = term, idx
		}
	}

	return best
}

func wordIndex(s, term string) int {
	from := 0
	for from <= len(s) {
		idx := strings.Index(s[from:], term)
		if idx == -1 {
			return -1
		}
		idx += from
		end := idx + len(term)
		if (idx == 0 || !isWordByte(s[idx-1])) && (end == len(s) || !isWordByte(s[end])) {
			return idx
		}
		from = idx + 1
	}
	return -1
}

func isWordByte(b byte) bool {
	r := rune(b)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
