package filter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/placesearch/internal/domain/geo"
	"github.com/kailas-cloud/placesearch/internal/domain/search/mode"
)

// All is the sentinel for "no restriction" on region or category.
const All = "All"

// State is the user's current filter intent. Location and a specific region
// are mutually exclusive: the transition methods clear one when setting the
// other. State is a value; transitions return a new State.
type State struct {
	category string
	region   string
	location *geo.Point
}

// Default returns the initial state: every category, every region, no location.
func Default() State {
	return State{category: All, region: All}
}

// New validates and creates a State from raw parameters. An empty category
// or region means All. A region passed together with a location is kept but
// has no effect: proximity mode ignores it.
func New(category, region string, location *geo.Point) (State, error) {
	s := Default()
	if c := strings.TrimSpace(category); c != "" {
		s.category = c
	}
	if r := strings.TrimSpace(region); r != "" {
		s.region = r
	}
	if location != nil {
		if !location.IsValid() {
			return State{}, fmt.Errorf("location %v out of range", *location)
		}
		loc := *location
		s.location = &loc
	}
	return s, nil
}

// Category returns the selected category or All.
func (s State) Category() string { return s.category }

// Region returns the selected region or All.
func (s State) Region() string { return s.region }

// Location returns the searched location, if any.
func (s State) Location() (geo.Point, bool) {
	if s.location == nil {
		return geo.Point{}, false
	}
	return *s.location, true
}

// Mode reports which filtering strategy the state selects.
func (s State) Mode() mode.Mode {
	if s.location != nil {
		return mode.Proximity
	}
	return mode.RegionCategory
}

// SelectRegion sets the region and clears any location search.
func (s State) SelectRegion(region string) State {
	if region = strings.TrimSpace(region); region == "" {
		region = All
	}
	s.region = region
	s.location = nil
	return s
}

// SelectCategory sets the category and clears any location search.
func (s State) SelectCategory(category string) State {
	if category = strings.TrimSpace(category); category == "" {
		category = All
	}
	s.category = category
	s.location = nil
	return s
}

// SearchLocation switches to proximity mode around p and resets the region.
// The region value is kept as All rather than left stale.
func (s State) SearchLocation(p geo.Point) (State, error) {
	if !p.IsValid() {
		return s, fmt.Errorf("location %v out of range", p)
	}
	s.location = &p
	s.region = All
	return s, nil
}

// Reset returns the default state.
func (s State) Reset() State { return Default() }

func (s State) String() string {
	if s.location != nil {
		return fmt.Sprintf("mode=%s category=%q location=%s", s.Mode(), s.category, s.location)
	}
	return fmt.Sprintf("mode=%s category=%q region=%q", s.Mode(), s.category, s.region)
}
