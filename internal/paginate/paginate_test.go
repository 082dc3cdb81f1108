package paginate

import (
	"context"
	"errors"
	"testing"
)

func cursorFetcher(pages map[string]Page[string, int], calls *[]string) Fetcher[string, int] {
	return func(ctx context.Context, cursor string) (Page[string, int], error) {
		*calls = append(*calls, cursor)
		page, ok := pages[cursor]
		if !ok {
			return Page[string, int]{}, errors.New("unknown cursor " + cursor)
		}
		return page, nil
	}
}

func TestCollectFollowsCursorUntilNoMore(t *testing.T) {
	var calls []string
	fetch := cursorFetcher(map[string]Page[string, int]{
		"":   {Items: []int{1, 2}, Next: "c1", More: true},
		"c1": {Items: []int{3}, Next: "c2", More: true},
		"c2": {Items: []int{4, 5}},
	}, &calls)

	items, err := Collect(context.Background(), fetch)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if len(items) != 5 || items[0] != 1 || items[4] != 5 {
		t.Fatalf("unexpected items %v", items)
	}
	if len(calls) != 3 || calls[0] != "" || calls[1] != "c1" || calls[2] != "c2" {
		t.Fatalf("unexpected cursor sequence %v", calls)
	}
}

func TestAllIsRestartable(t *testing.T) {
	var calls []string
	fetch := cursorFetcher(map[string]Page[string, int]{
		"":  {Items: []int{1}, Next: "n", More: true},
		"n": {Items: []int{2}},
	}, &calls)

	seq := All(context.Background(), fetch)
	for range 2 {
		var got []int
		for item, err := range seq {
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got = append(got, item)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 items per pass, got %v", got)
		}
	}
	if len(calls) != 4 {
		t.Fatalf("expected each pass to refetch, got calls %v", calls)
	}
}

func TestCollectNStopsEarly(t *testing.T) {
	var calls []string
	fetch := cursorFetcher(map[string]Page[string, int]{
		"":  {Items: []int{1, 2, 3}, Next: "n", More: true},
		"n": {Items: []int{4}},
	}, &calls)

	items, err := CollectN(context.Background(), fetch, 2)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %v", items)
	}
	if len(calls) != 1 {
		t.Fatalf("expected a single page fetch, got %v", calls)
	}
}

func TestCollectReturnsFetchError(t *testing.T) {
	boom := errors.New("boom")
	fetch := func(ctx context.Context, page int) (Page[int, string], error) {
		if page == 0 {
			return Page[int, string]{Items: []string{"a"}, Next: 2, More: true}, nil
		}
		return Page[int, string]{}, boom
	}

	items, err := Collect(context.Background(), fetch)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected partial items, got %v", items)
	}
}

func TestCollectDetectsStalledCursor(t *testing.T) {
	fetch := func(ctx context.Context, cursor string) (Page[string, int], error) {
		return Page[string, int]{Items: []int{1}, Next: cursor, More: true}, nil
	}
	if _, err := Collect(context.Background(), fetch); !errors.Is(err, ErrStalledCursor) {
		t.Fatalf("expected stalled cursor error, got %v", err)
	}
}
