package placesearch

import (
	"context"
	"fmt"
)

// Hit is a typed search result.
type Hit[T any] struct {
	Item       T
	ID         int
	DistanceKm *float64 // proximity searches only
}

// SearchBuilder is a fluent builder for typed searches.
type SearchBuilder[T any] struct {
	idx   *TypedIndex[T]
	query Query
}

// Category restricts results to places carrying the tag.
func (b *SearchBuilder[T]) Category(c string) *SearchBuilder[T] {
	b.query.Category = c
	return b
}

// Region restricts results to one region. Ignored for proximity searches.
func (b *SearchBuilder[T]) Region(r string) *SearchBuilder[T] {
	b.query.Region = r
	return b
}

// Near ranks results by distance to the given point.
func (b *SearchBuilder[T]) Near(lat, lon float64) *SearchBuilder[T] {
	b.query.Origin = &Point{Lat: lat, Lon: lon}
	return b
}

// In ranks results by distance to a "Suburb, Postcode" gazetteer entry.
func (b *SearchBuilder[T]) In(location string) *SearchBuilder[T] {
	b.query.Location = location
	return b
}

// Do executes the search and returns typed results.
func (b *SearchBuilder[T]) Do(ctx context.Context) ([]Hit[T], error) {
	res, err := b.idx.client.Search(ctx, b.query)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit[T], len(res.Places))
	for i, p := range res.Places {
		item, err := b.idx.decode(p)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		hits[i] = Hit[T]{Item: item, ID: p.ID, DistanceKm: p.DistanceKm}
	}
	return hits, nil
}
