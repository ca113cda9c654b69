// Package postcode resolves "Suburb, Postcode" search terms to coordinates.
package postcode

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/placesearch/internal/domain"
	"github.com/kailas-cloud/placesearch/internal/domain/geo"
	"github.com/kailas-cloud/placesearch/internal/domain/place"
)

// Entry is one suburb/postcode pair with its centroid.
type Entry struct {
	Suburb   string
	Postcode string
	Point    geo.Point
}

// Label returns the display form used by autocomplete, "SUBURB, 4000".
func (e Entry) Label() string {
	return e.Suburb + ", " + e.Postcode
}

// Gazetteer is an immutable lookup table of entries.
type Gazetteer struct {
	entries []Entry
	byKey   map[string]Entry
}

// NewGazetteer indexes entries. On duplicate labels the first entry wins.
// Entries with invalid coordinates are dropped.
func NewGazetteer(entries []Entry) *Gazetteer {
	g := &Gazetteer{
		entries: make([]Entry, 0, len(entries)),
		byKey:   make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		if !e.Point.IsValid() {
			continue
		}
		k := key(e.Suburb, e.Postcode)
		if _, dup := g.byKey[k]; dup {
			continue
		}
		g.byKey[k] = e
		g.entries = append(g.entries, e)
	}
	return g
}

// Len returns the number of indexed entries.
func (g *Gazetteer) Len() int { return len(g.entries) }

// IsLocationSearch reports whether term has the "Suburb, Postcode" shape:
// exactly two comma-separated parts.
func IsLocationSearch(term string) bool {
	return len(strings.Split(term, ",")) == 2
}

// Resolve returns the point for a "Suburb, Postcode" term.
func (g *Gazetteer) Resolve(term string) (Entry, error) {
	if !IsLocationSearch(term) {
		return Entry{}, fmt.Errorf("%w: %q is not \"suburb, postcode\"", domain.ErrUnknownLocation, term)
	}
	suburb, code, _ := strings.Cut(term, ",")
	e, ok := g.byKey[key(suburb, code)]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", domain.ErrUnknownLocation, term)
	}
	return e, nil
}

// Suggest returns up to limit entries whose label contains term,
// case-insensitively, in gazetteer order. Terms shorter than minLen yield
// nothing. limit <= 0 means no limit.
func (g *Gazetteer) Suggest(term string, minLen, limit int) []Entry {
	term = strings.TrimSpace(term)
	if len([]rune(term)) < minLen || term == "" {
		return nil
	}
	needle := place.NormalizeTag(term)
	var out []Entry
	for _, e := range g.entries {
		if strings.Contains(place.NormalizeTag(e.Label()), needle) {
			out = append(out, e)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

func key(suburb, postcode string) string {
	return place.NormalizeTag(suburb) + "|" + strings.TrimSpace(postcode)
}
