package search

import (
	"github.com/kailas-cloud/placesearch/internal/domain/place"
	"github.com/kailas-cloud/placesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/placesearch/internal/domain/search/result"
)

// DefaultNearestLimit is how many places a proximity search returns.
const DefaultNearestLimit = 5

// Engine applies filter states to a dataset. It holds only configuration
// and is safe for concurrent use.
type Engine struct {
	nearestLimit int
}

// NewEngine creates an Engine. nearestLimit <= 0 selects DefaultNearestLimit.
func NewEngine(nearestLimit int) *Engine {
	if nearestLimit <= 0 {
		nearestLimit = DefaultNearestLimit
	}
	return &Engine{nearestLimit: nearestLimit}
}

// NearestLimit returns the proximity result size.
func (e *Engine) NearestLimit() int { return e.nearestLimit }

// Apply runs ApplyFilters with the engine's nearest limit.
func (e *Engine) Apply(ds *place.Dataset, state filter.State) (result.Result, error) {
	return ApplyFilters(ds, state, e.nearestLimit)
}

// ApplyFilters selects the places matching state.
//
// With a location the result is the nearestLimit closest category matches
// and any region in state is ignored. Without one, places are kept in
// dataset order when they match both the region (exact, case-sensitive)
// and the category; All disables either test.
func ApplyFilters(ds *place.Dataset, state filter.State, nearestLimit int) (result.Result, error) {
	if origin, ok := state.Location(); ok {
		ranked, err := RankByProximity(ds, origin, state.Category(), nearestLimit)
		if err != nil {
			return result.Result{}, err
		}
		return result.NewRanked(ranked), nil
	}

	region, category := state.Region(), state.Category()
	if region == filter.All && category == place.AllCategories {
		return result.NewFiltered(ds.All()), nil
	}

	var out []place.Place
	ds.Each(func(p place.Place) bool {
		if region != filter.All && p.Region() != region {
			return true
		}
		if !place.HasCategory(p.Categories(), category) {
			return true
		}
		out = append(out, p)
		return true
	})
	return result.NewFiltered(out), nil
}
