package evaluation

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// Outcome pairs an input with its result or the error that rejected it.
type Outcome struct {
	CandidateID string
	Result      *Result
	Err         error
}

// EvaluateAll evaluates the inputs concurrently with at most workers running
// at once. Outcomes keep the input order. A rejected candidate does not stop
// the others; only cancellation of ctx does, and it is checked before each
// candidate starts.
func (e *Evaluator) EvaluateAll(ctx context.Context, inputs []Input, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = defaultWorkers
	}

	outcomes := make([]Outcome, len(inputs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, in := range inputs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			res, err := e.Evaluate(in)
			outcomes[i] = Outcome{CandidateID: in.CandidateID, Result: res, Err: err}
			if err != nil {
				e.logger.Warn("candidate rejected", zap.String("candidate_id", in.CandidateID), zap.Error(err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return outcomes, nil
}

// Rank returns the results ordered by unrounded total, highest first. Ties are
// broken by candidate id. Nil results are dropped.
func Rank(results []*Result) []*Result {
	ranked := make([]*Result, 0, len(results))
	for _, r := range results {
		if r != nil {
			ranked = append(ranked, r)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Breakdown.Total != ranked[j].Breakdown.Total {
			return ranked[i].Breakdown.Total > ranked[j].Breakdown.Total
		}
		return ranked[i].CandidateID < ranked[j].CandidateID
	})

	return ranked
}

// Successful returns the results of the outcomes that were not rejected.
func Successful(outcomes []Outcome) []*Result {
	results := make([]*Result, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err == nil && o.Result != nil {
			results = append(results, o.Result)
		}
	}
	return results
}
