package candidate

import (
	"sort"
	"strings"
)

var skillAliases = map[string]string{
	"golang":  "go",
	"js":      "javascript",
	"ts":      "typescript",
	"cpp":     "c++",
	"csharp":  "c#",
	"c sharp": "c#",
	"python3": "python",
	"py":      "python",
}

var programmingLanguages = map[string]struct{}{
	"python":     {},
	"javascript": {},
	"typescript": {},
	"java":       {},
	"go":         {},
	"rust":       {},
	"c++":        {},
	"c#":         {},
	"ruby":       {},
	"php":        {},
	"swift":      {},
	"kotlin":     {},
	"scala":      {},
}

// NormalizeSkill lowercases the skill, collapses whitespace and resolves
// common aliases such as "golang" to "go".
func NormalizeSkill(skill string) string {
	s := strings.ToLower(strings.Join(strings.Fields(skill), " "))
	if alias, ok := skillAliases[s]; ok {
		return alias
	}
	return s
}

// IsProgrammingLanguage reports whether the skill names a well-known
// programming language.
func IsProgrammingLanguage(skill string) bool {
	_, ok := programmingLanguages[NormalizeSkill(skill)]
	return ok
}

// ClaimedSkills returns the normalized skills claimed on the résumé: the
// skills list in order, then keyword-count keys in sorted order. Duplicates
// are dropped.
func (r *ResumeFacts) ClaimedSkills() []string {
	if r == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(r.Skills)+len(r.KeywordCounts))
	out := make([]string, 0, len(r.Skills)+len(r.KeywordCounts))
	add := func(skill string) {
		s := NormalizeSkill(skill)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	for _, skill := range r.Skills {
		add(skill)
	}

	keywords := make([]string, 0, len(r.KeywordCounts))
	for k := range r.KeywordCounts {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	for _, k := range keywords {
		add(k)
	}

	return out
}

func distinctLower(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.Join(strings.Fields(v), " "))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
