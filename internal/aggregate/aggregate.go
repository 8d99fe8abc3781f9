// Package aggregate runs a named set of independent fetch operations
// concurrently and joins their results into a single record.
//
// # Usage
//
//	results, err := aggregate.Run(ctx, map[string]aggregate.Fetch{
//		"authors": func(ctx context.Context) (any, error) { return repo.GetAll() },
//		"genres":  func(ctx context.Context) (any, error) { return genreRepo.GetAll() },
//	})
package aggregate

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Fetch is a single independent lookup. Implementations must not
// assume any ordering relative to sibling fetches.
type Fetch func(ctx context.Context) (any, error)

// Results maps each logical key to the value its fetch produced.
type Results map[string]any

// Run executes every fetch concurrently. When all succeed it returns
// a fresh Results keyed identically to the input. When any fetch
// fails, the remaining fetches are cancelled, partial results are
// discarded, and the first error is returned.
func Run(ctx context.Context, fetches map[string]Fetch) (Results, error) {
	group, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make(Results, len(fetches))

	for key, fetch := range fetches {
		group.Go(func() error {
			value, err := fetch(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			results[key] = value
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
