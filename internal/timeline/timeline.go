// Package timeline holds the release years of well-known technologies.
package timeline

import (
	"sort"
	"strings"
)

// Entry is a single technology and its first public release year.
type Entry struct {
	Name string `yaml:"name" json:"name"`
	Year int    `yaml:"year" json:"year"`
}

// Timeline maps a lowercase technology name to its first public release year.
// It is read-only after construction and safe for concurrent use.
type Timeline struct {
	years map[string]int
	names []string
}

var releases = map[string]int{
	// frontend
	"react":        2013,
	"react native": 2015,
	"vue":          2014,
	"vue.js":       2014,
	"angular":      2016,
	"svelte":       2016,
	"next.js":      2016,
	"tailwind":     2017,
	"tailwindcss":  2017,

	// backend
	"fastapi": 2018,
	"nestjs":  2017,
	"deno":    2018,

	// cloud and ops
	"kubernetes":     2014,
	"terraform":      2014,
	"github actions": 2019,
	"docker":         2013,
	"aws lambda":     2014,

	// data and ml
	"pytorch":    2016,
	"tensorflow": 2015,
	"gpt":        2018,
	"langchain":  2022,
	"openai api": 2020,
	"llm":        2020,

	// languages
	"rust":       2010,
	"go":         2009,
	"golang":     2009,
	"kotlin":     2011,
	"swift":      2014,
	"typescript": 2012,

	// databases
	"snowflake":   2014,
	"cockroachdb": 2015,
	"planetscale": 2018,
}

var defaultTimeline = New(releases)

// Default returns the built-in technology timeline.
func Default() *Timeline {
	return defaultTimeline
}

// New builds a timeline from the provided table. Keys are normalized to
// lowercase and entries with empty names or non-positive years are ignored.
func New(table map[string]int) *Timeline {
	years := make(map[string]int, len(table))
	for name, year := range table {
		key := normalize(name)
		if key == "" || year <= 0 {
			continue
		}
		years[key] = year
	}

	names := make([]string, 0, len(years))
	for name := range years {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	return &Timeline{years: years, names: names}
}

// Lookup returns the release year for the technology. Matching is exact after
// trimming and lowercasing.
func (t *Timeline) Lookup(name string) (int, bool) {
	if t == nil {
		return 0, false
	}
	year, ok := t.years[normalize(name)]
	return year, ok
}

// Names returns all known technology names, longest first and then
// alphabetically, so that "react native" is tried before "react".
func (t *Timeline) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Entries returns the table sorted by release year and then by name.
func (t *Timeline) Entries() []Entry {
	if t == nil {
		return nil
	}
	entries := make([]Entry, 0, len(t.years))
	for name, year := range t.years {
		entries = append(entries, Entry{Name: name, Year: year})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Year != entries[j].Year {
			return entries[i].Year < entries[j].Year
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Len returns the number of known technologies.
func (t *Timeline) Len() int {
	if t == nil {
		return 0
	}
	return len(t.years)
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
