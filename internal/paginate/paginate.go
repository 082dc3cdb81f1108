// Package paginate drains cursor- or page-number-paginated APIs.
package paginate

import (
	"context"
	"errors"
	"iter"
)

// ErrStalledCursor is returned when a page claims more results but hands
// back the cursor it was called with.
var ErrStalledCursor = errors.New("paginate: next cursor did not advance")

// Page is one response from a paginated endpoint.
type Page[C comparable, T any] struct {
	Items []T
	Next  C
	More  bool
}

// Fetcher loads the page that starts at cursor. The first call receives the
// zero value of C.
type Fetcher[C comparable, T any] func(ctx context.Context, cursor C) (Page[C, T], error)

// All returns a lazy sequence over every item. Each range over the sequence
// starts again from the first page. A fetch error is yielded once with a
// zero item and ends the sequence.
func All[C comparable, T any](ctx context.Context, fetch Fetcher[C, T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var cursor C
		for {
			if err := ctx.Err(); err != nil {
				var zero T
				yield(zero, err)
				return
			}
			page, err := fetch(ctx, cursor)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range page.Items {
				if !yield(item, nil) {
					return
				}
			}
			if !page.More {
				return
			}
			if page.Next == cursor {
				var zero T
				yield(zero, ErrStalledCursor)
				return
			}
			cursor = page.Next
		}
	}
}

// Collect drains every page into a slice.
func Collect[C comparable, T any](ctx context.Context, fetch Fetcher[C, T]) ([]T, error) {
	return CollectN(ctx, fetch, 0)
}

// CollectN drains pages until limit items are gathered. A limit <= 0 means no limit.
func CollectN[C comparable, T any](ctx context.Context, fetch Fetcher[C, T], limit int) ([]T, error) {
	var out []T
	for item, err := range All(ctx, fetch) {
		if err != nil {
			return out, err
		}
		out = append(out, item)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
