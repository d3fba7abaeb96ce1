package filtering

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/recruiter-copilot/internal/evaluation"
)

// ReviewedCandidates is the content of an exclude file: candidates that were
// already reviewed and should not be shortlisted again.
type ReviewedCandidates struct {
	Items []*ReviewedCandidate `json:"items"`
}

type ReviewedCandidate struct {
	ID         string    `json:"id"`
	TotalScore float64   `json:"total_score"`
	Rating     string    `json:"rating"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// ToReviewed converts results into exclude file entries stamped with now.
func ToReviewed(results []*evaluation.Result, now time.Time) *ReviewedCandidates {
	reviewed := &ReviewedCandidates{}
	for _, r := range results {
		reviewed.Items = append(reviewed.Items, &ReviewedCandidate{
			ID:         r.CandidateID,
			TotalScore: r.Breakdown.Display,
			Rating:     r.Breakdown.Band.Rating,
			ReviewedAt: now.UTC(),
		})
	}
	return reviewed
}

// LoadReviewed reads an exclude file. A missing or empty file yields an empty list.
func LoadReviewed(path string) (*ReviewedCandidates, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ReviewedCandidates{}, nil
	}
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(string(data)) == "" {
		return &ReviewedCandidates{}, nil
	}

	var reviewed ReviewedCandidates
	if err := json.Unmarshal(data, &reviewed); err != nil {
		return nil, fmt.Errorf("decoding exclude file %q: %w", path, err)
	}
	return &reviewed, nil
}

// Append adds the entries of s whose id is not listed yet.
func (v *ReviewedCandidates) Append(s *ReviewedCandidates) {
	known := make(map[string]struct{}, len(v.Items))
	for _, item := range v.Items {
		known[item.ID] = struct{}{}
	}
	for _, item := range s.Items {
		if _, ok := known[item.ID]; ok {
			continue
		}
		known[item.ID] = struct{}{}
		v.Items = append(v.Items, item)
	}
}

func (v *ReviewedCandidates) IDs() []string {
	ids := make([]string, 0, len(v.Items))
	for _, item := range v.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

// Write encodes the list as indented JSON.
func (v *ReviewedCandidates) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ToFile overwrites path with the list.
func (v *ReviewedCandidates) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	return v.writeAndClose(file, path)
}

// writeAndClose reports a close failure unless the write already failed.
func (v *ReviewedCandidates) writeAndClose(w io.WriteCloser, name string) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", name, cerr)
		}
	}()

	return v.Write(w)
}

// AppendToFile merges results into the exclude file at path.
func AppendToFile(path string, results []*evaluation.Result, now time.Time) error {
	reviewed, err := LoadReviewed(path)
	if err != nil {
		return err
	}
	reviewed.Append(ToReviewed(results, now))
	return reviewed.ToFile(path)
}

type excludeFileFilter struct {
	path    string
	enabled bool
	reason  string
}

// NewExcludeFile creates a filter that removes candidates listed in the exclude file.
func NewExcludeFile(path string) Filter {
	f := &excludeFileFilter{path: strings.TrimSpace(path), enabled: true}
	if f.path == "" {
		f.enabled = false
		f.reason = "exclude file is not set"
	}
	return f
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *excludeFileFilter) IsEnabled() bool { return f.enabled }

func (f *excludeFileFilter) Validate() error { return nil }

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, results []*evaluation.Result) ([]*evaluation.Result, Step, error) {
	initial := len(results)

	reviewed, err := LoadReviewed(f.path)
	if err != nil {
		return results, Step{}, fmt.Errorf("getting reviewed candidates from file: %w", err)
	}

	ids := make(map[string]struct{}, len(reviewed.Items))
	for _, id := range reviewed.IDs() {
		ids[id] = struct{}{}
	}

	kept, dropped := keep(results, func(r *evaluation.Result) bool {
		_, seen := ids[r.CandidateID]
		return !seen
	})

	if len(dropped) > 0 {
		deps.Logger.Info("excluding candidates based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}
