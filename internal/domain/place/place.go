// Package place defines the venue rows a dataset is made of.
package place

import (
	"math"
	"slices"

	"github.com/kailas-cloud/placesearch/internal/domain/geo"
)

// Place is one venue row. Core fields are typed; every other source column
// is carried verbatim in Fields for display.
type Place struct {
	id         int
	name       string
	latitude   float64
	longitude  float64
	categories string
	region     string
	fields     map[string]string
}

// New creates a Place. Missing coordinates are passed as NaN; such a place
// still takes part in region and category filtering but never in proximity
// ranking.
func New(
	id int, name string, lat, lon float64,
	categories, region string, fields map[string]string,
) Place {
	return Place{
		id: id, name: name, latitude: lat, longitude: lon,
		categories: categories, region: region, fields: cloneFields(fields),
	}
}

// ID returns the stable row identifier (position in the dataset).
func (p Place) ID() int { return p.id }

// Name returns the venue name.
func (p Place) Name() string { return p.name }

// Latitude returns the latitude in degrees (NaN when unknown).
func (p Place) Latitude() float64 { return p.latitude }

// Longitude returns the longitude in degrees (NaN when unknown).
func (p Place) Longitude() float64 { return p.longitude }

// Categories returns the raw comma-separated category tags.
func (p Place) Categories() string { return p.categories }

// Region returns the region code, e.g. a state abbreviation.
func (p Place) Region() string { return p.region }

// Fields returns a copy of the pass-through display columns.
func (p Place) Fields() map[string]string { return cloneFields(p.fields) }

// Field returns a single display column.
func (p Place) Field(name string) (string, bool) {
	v, ok := p.fields[name]
	return v, ok
}

// HasCoordinates reports whether both coordinates are usable.
func (p Place) HasCoordinates() bool {
	return geo.ValidateCoordinates(p.latitude, p.longitude)
}

// Point returns the place location.
func (p Place) Point() geo.Point {
	return geo.Point{Lat: p.latitude, Lon: p.longitude}
}

// Ranked is a Place with its distance to the current proximity origin.
type Ranked struct {
	Place
	DistanceKm float64
}

// Dataset is the ordered, immutable collection of places loaded for a session.
type Dataset struct {
	places []Place
	header []string
}

// NewDataset builds a Dataset, assigning each place its index as identifier.
func NewDataset(places []Place) *Dataset {
	own := make([]Place, len(places))
	for i, p := range places {
		p.id = i
		p.fields = cloneFields(p.fields)
		own[i] = p
	}
	return &Dataset{places: own}
}

// WithHeader returns a copy of the dataset that remembers the source column order.
func (d *Dataset) WithHeader(header []string) *Dataset {
	return &Dataset{places: d.places, header: slices.Clone(header)}
}

// Header returns the source column order, or nil when unknown.
func (d *Dataset) Header() []string { return slices.Clone(d.header) }

// Len returns the number of places.
func (d *Dataset) Len() int { return len(d.places) }

// At returns the place with the given identifier.
func (d *Dataset) At(id int) (Place, bool) {
	if id < 0 || id >= len(d.places) {
		return Place{}, false
	}
	return d.places[id], true
}

// All returns the places in dataset order. The slice is a fresh copy.
func (d *Dataset) All() []Place {
	out := make([]Place, len(d.places))
	copy(out, d.places)
	return out
}

// Each calls fn for every place in order until fn returns false.
func (d *Dataset) Each(fn func(Place) bool) {
	for _, p := range d.places {
		if !fn(p) {
			return
		}
	}
}

// ParseCoordinate parses a coordinate cell; blanks and garbage become NaN.
func ParseCoordinate(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		return parseFloatOrNaN(x)
	case nil:
		return math.NaN()
	default:
		return math.NaN()
	}
}

func cloneFields(in map[string]string) map[string]string {
	if in == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
