package ingest

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Outcome is the per-item result of a bounded fan-out.
type Outcome[T any] struct {
	Item T
	Err  error
}

// RunBounded runs fn over items with at most limit in flight. One item
// failing never cancels its siblings: every item gets its attempt and the
// caller decides what a partial failure means. Outcomes come back in input
// order. Context cancellation is the exception; items not yet started report
// the context error.
func RunBounded[T any](ctx context.Context, items []T, limit int, fn func(context.Context, T) error) []Outcome[T] {
	outcomes := make([]Outcome[T], len(items))
	if len(items) == 0 {
		return outcomes
	}
	if limit <= 0 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, item := range items {
		outcomes[i].Item = item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}
			outcomes[i].Err = fn(ctx, item)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// FailedOutcomes filters to the items whose attempt returned an error.
func FailedOutcomes[T any](outcomes []Outcome[T]) []Outcome[T] {
	var failed []Outcome[T]
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}
