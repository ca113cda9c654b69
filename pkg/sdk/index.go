package placesearch

import (
	"context"
	"fmt"
)

// TypedIndex serves searches over a slice of tagged structs.
// Schema is inferred from T's struct tags at construction time.
type TypedIndex[T any] struct {
	client *Client
	meta   *schemaMeta
}

// NewIndex loads items into a new Client and returns a typed handle on it.
// T must be a struct with placesearch tags. opts may add a gazetteer,
// limits, logging or metrics; data source options are overridden.
func NewIndex[T any](ctx context.Context, items []T, opts ...Option) (*TypedIndex[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index: %w", err)
	}

	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = meta.toRow(item)
	}

	opts = append(opts, WithRows(meta.header, rows), WithColumns(meta.columns), withVerbatimRows())
	client, err := New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("new index: %w", err)
	}
	return &TypedIndex[T]{client: client, meta: meta}, nil
}

// Client returns the underlying untyped client.
func (idx *TypedIndex[T]) Client() *Client { return idx.client }

// Close releases the underlying client.
func (idx *TypedIndex[T]) Close() { idx.client.Close() }

// Get retrieves a typed item by its position in the loaded slice. Every
// item is kept, blank ones included, so positions never shift.
func (idx *TypedIndex[T]) Get(ctx context.Context, id int) (T, error) {
	p, err := idx.client.Place(ctx, id)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("get: %w", err)
	}
	return idx.decode(p)
}

// Search returns a fluent search builder for this index.
func (idx *TypedIndex[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{idx: idx}
}

func (idx *TypedIndex[T]) decode(p Place) (T, error) {
	item, ok := idx.meta.fromPlace(p).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("decode place %d: type assertion failed", p.ID)
	}
	return item, nil
}
