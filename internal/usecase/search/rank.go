package search

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/kailas-cloud/placesearch/internal/domain"
	"github.com/kailas-cloud/placesearch/internal/domain/geo"
	"github.com/kailas-cloud/placesearch/internal/domain/place"
)

// RankByProximity returns up to limit category-matching places nearest to
// origin, closest first. Ties keep dataset order. Places that do not match
// the category, or have no usable coordinates, are never returned.
func RankByProximity(ds *place.Dataset, origin geo.Point, category string, limit int) ([]place.Ranked, error) {
	if !origin.IsValid() {
		return nil, fmt.Errorf("%w: origin %v", domain.ErrInvalidQuery, origin)
	}
	if limit <= 0 {
		return []place.Ranked{}, nil
	}

	ranked := make([]place.Ranked, 0, ds.Len())
	ds.Each(func(p place.Place) bool {
		ranked = append(ranked, place.Ranked{Place: p, DistanceKm: assignedDistance(p, origin, category)})
		return true
	})

	slices.SortStableFunc(ranked, func(a, b place.Ranked) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})

	out := make([]place.Ranked, 0, min(limit, len(ranked)))
	for _, r := range ranked {
		// Sorted ascending: the first sentinel means only excluded rows remain.
		if r.DistanceKm >= geo.EarthCircumferenceKm {
			break
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// assignedDistance is the sort key for p: its distance to origin, or the
// earth-circumference sentinel when p is excluded.
func assignedDistance(p place.Place, origin geo.Point, category string) float64 {
	if !place.HasCategory(p.Categories(), category) || !p.HasCoordinates() {
		return geo.EarthCircumferenceKm
	}
	d := origin.DistanceTo(p.Point())
	if math.IsNaN(d) {
		return geo.EarthCircumferenceKm
	}
	return d
}
