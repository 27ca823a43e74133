package triage

import (
	"context"
	"fmt"
	"iter"

	"github.com/danielolaszy/backlog/pkg/models"
)

// PageFunc fetches one 1-based page of a listing.
type PageFunc[T any] func(ctx context.Context, page, perPage int) (models.Page[T], error)

// Paginate walks a listing page by page and yields its items in request order.
// It stops after an empty page, a page shorter than perPage, or a page the
// backend marks as last. A fetch error is yielded once and ends the sequence.
// Pages are requested lazily, so breaking out of the loop stops fetching.
func Paginate[T any](ctx context.Context, perPage int, fetch PageFunc[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		for page := 1; ; page++ {
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}

			result, err := fetch(ctx, page, perPage)
			if err != nil {
				yield(zero, fmt.Errorf("page %d: %w", page, err))
				return
			}

			for _, item := range result.Items {
				if !yield(item, nil) {
					return
				}
			}

			if len(result.Items) == 0 || len(result.Items) < perPage || result.IsLast {
				return
			}
		}
	}
}
