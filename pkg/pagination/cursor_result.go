package pagination

import "fmt"

// CursorResult is one page of a keyset-paginated listing.
type CursorResult[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor,omitempty"`
	HasMore    bool    `json:"has_more"`
}

// NewCursorResult builds a page from items read with CursorRequest.Fetch.
// Reading one extra row decides HasMore without a count query; the cursor
// is derived from the last item kept. Items is never nil.
func NewCursorResult[T any](items []T, size int, cursorFn func(T) (string, error)) (*CursorResult[T], error) {
	if size < 1 {
		size = PageDefaultSize
	}
	if len(items) <= size {
		if items == nil {
			items = []T{}
		}
		return &CursorResult[T]{Items: items}, nil
	}

	items = items[:size]
	cursor, err := cursorFn(items[size-1])
	if err != nil {
		return nil, fmt.Errorf("encode next cursor: %w", err)
	}
	return &CursorResult[T]{Items: items, NextCursor: &cursor, HasMore: true}, nil
}
