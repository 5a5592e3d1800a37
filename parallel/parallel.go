// Package parallel provides the single fire-and-join primitive used by every
// parallel phase in the conversion pipeline: split a range of rows into
// tiles or stripes, run each concurrently, and block until all of them
// finish or the context is cancelled.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Tiles partitions [0, n) into contiguous tiles of tileSize rows (the last
// tile may be shorter) and runs fn(start, end) for each tile concurrently,
// returning once every tile has completed or the context is cancelled. fn is
// expected to check ctx.Err() itself for fine-grained cancellation within a
// tile; Tiles only guarantees that no *new* tile starts once ctx is done.
//
// A non-positive n or tileSize is a no-op.
func Tiles(ctx context.Context, n, tileSize int, fn func(ctx context.Context, start, end int) error) error {
	if n <= 0 || tileSize <= 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += tileSize {
		start := start
		end := start + tileSize
		if end > n {
			end = n
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fn(ctx, start, end)
		})
	}
	return g.Wait()
}

// Stripes partitions [0, n) into count contiguous, near-equal-sized stripes
// (the shape spec.md requires for the renderers: T = hardware concurrency
// stripes over output rows) and runs fn for each concurrently. When n <
// count some stripes would be empty; those are skipped, so fn runs fewer
// than count times.
func Stripes(ctx context.Context, n, count int, fn func(ctx context.Context, start, end int) error) error {
	if n <= 0 || count <= 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for t := 0; t < count; t++ {
		start := (n * t) / count
		end := (n * (t + 1)) / count
		if start == end {
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fn(ctx, start, end)
		})
	}
	return g.Wait()
}
