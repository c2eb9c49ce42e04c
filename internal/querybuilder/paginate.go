package querybuilder

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// PageFunc loads one page of rows
type PageFunc[R any] func(ctx context.Context) ([]R, error)

// CountFunc counts distinct roots matching the same predicate
type CountFunc func(ctx context.Context) (int, error)

// Paginate runs the page and count queries concurrently and returns the first
// error. The two queries are not wrapped in a transaction: a write landing
// between them can leave total momentarily out of step with the page.
func Paginate[R any](ctx context.Context, page PageFunc[R], count CountFunc) ([]R, int, error) {
	g, gctx := errgroup.WithContext(ctx)

	var (
		rows  []R
		total int
	)

	g.Go(func() error {
		var err error
		rows, err = page(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = count(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
