package result

import (
	"github.com/kailas-cloud/placesearch/internal/domain/place"
	"github.com/kailas-cloud/placesearch/internal/domain/search/mode"
)

// Result is the ordered selection produced by one filter pass. A zero-length
// result is the "no places matched" signal, not an error.
type Result struct {
	searchMode mode.Mode
	places     []place.Place
	ranked     []place.Ranked
}

// NewFiltered creates a region/category result in dataset order.
func NewFiltered(places []place.Place) Result {
	if places == nil {
		places = []place.Place{}
	}
	return Result{searchMode: mode.RegionCategory, places: places}
}

// NewRanked creates a proximity result ordered by distance.
func NewRanked(ranked []place.Ranked) Result {
	if ranked == nil {
		ranked = []place.Ranked{}
	}
	places := make([]place.Place, len(ranked))
	for i, r := range ranked {
		places[i] = r.Place
	}
	return Result{searchMode: mode.Proximity, places: places, ranked: ranked}
}

// Mode returns the mode that produced the result.
func (r Result) Mode() mode.Mode { return r.searchMode }

// Len returns the number of places.
func (r Result) Len() int { return len(r.places) }

// Empty reports whether no place matched.
func (r Result) Empty() bool { return len(r.places) == 0 }

// Places returns the selected places in result order.
func (r Result) Places() []place.Place { return r.places }

// Ranked returns places with distances. Nil unless Mode is Proximity.
func (r Result) Ranked() []place.Ranked { return r.ranked }

// Distance returns the distance of the i-th place, if the result is ranked.
func (r Result) Distance(i int) (float64, bool) {
	if r.ranked == nil || i < 0 || i >= len(r.ranked) {
		return 0, false
	}
	return r.ranked[i].DistanceKm, true
}
