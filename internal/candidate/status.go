package candidate

import "strings"

// SourceStatus marks whether an evidence source was fetched. The zero value
// and StatusOK both mean the source is usable; anything else is a failure.
type SourceStatus string

const (
	StatusOK             SourceStatus = "ok"
	StatusNotFound       SourceStatus = "not_found"
	StatusBlocked        SourceStatus = "blocked"
	StatusScrapingFailed SourceStatus = "scraping_failed"
)

// OK reports whether the status allows the source to be used.
func (s SourceStatus) OK() bool {
	v := strings.ToLower(strings.TrimSpace(string(s)))
	return v == "" || v == string(StatusOK)
}

func (s SourceStatus) String() string {
	if s == "" {
		return string(StatusOK)
	}
	return string(s)
}
