// Package catalog lists the choices offered by the dashboard filters.
package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/placesearch/internal/domain"
	"github.com/kailas-cloud/placesearch/internal/domain/place"
	"github.com/kailas-cloud/placesearch/internal/domain/postcode"
)

// Options configures the catalogue.
type Options struct {
	IgnoreCategories []string
	MinTermLength    int
	MaxSuggestions   int
}

// Service derives category, region and postcode choices.
type Service struct {
	data      DatasetProvider
	suggester Suggester
	ignore    map[string]struct{}
	minTerm   int
	maxSugg   int
}

// New creates a catalogue service. suggester may be nil.
func New(data DatasetProvider, suggester Suggester, opts Options) *Service {
	ignore := make(map[string]struct{}, len(opts.IgnoreCategories))
	for _, c := range opts.IgnoreCategories {
		ignore[place.NormalizeTag(c)] = struct{}{}
	}
	return &Service{
		data:      data,
		suggester: suggester,
		ignore:    ignore,
		minTerm:   opts.MinTermLength,
		maxSugg:   opts.MaxSuggestions,
	}
}

// Categories returns the unique tags of places that have coordinates,
// sorted for display. Rows whose whole tag cell is a placeholder such as
// "TBC" contribute nothing. Tags differing only by case are listed once,
// in the casing first seen.
func (s *Service) Categories() ([]string, error) {
	ds, ok := s.data.Current()
	if !ok {
		return nil, domain.ErrDatasetNotLoaded
	}

	seen := make(map[string]struct{})
	out := []string{}
	ds.Each(func(p place.Place) bool {
		if !p.HasCoordinates() {
			return true
		}
		if _, skip := s.ignore[place.NormalizeTag(p.Categories())]; skip {
			return true
		}
		for _, tag := range place.SplitTags(p.Categories()) {
			k := place.NormalizeTag(tag)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, tag)
		}
		return true
	})
	sortForDisplay(out)
	return out, nil
}

// Regions returns the unique non-empty regions, sorted.
func (s *Service) Regions() ([]string, error) {
	ds, ok := s.data.Current()
	if !ok {
		return nil, domain.ErrDatasetNotLoaded
	}

	seen := make(map[string]struct{})
	out := []string{}
	ds.Each(func(p place.Place) bool {
		r := strings.TrimSpace(p.Region())
		if r == "" {
			return true
		}
		if _, dup := seen[r]; !dup {
			seen[r] = struct{}{}
			out = append(out, r)
		}
		return true
	})
	sortForDisplay(out)
	return out, nil
}

// Postcodes returns gazetteer entries matching a partial term.
func (s *Service) Postcodes(term string) []postcode.Entry {
	if s.suggester == nil {
		return []postcode.Entry{}
	}
	entries := s.suggester.Suggest(term, s.minTerm, s.maxSugg)
	if entries == nil {
		return []postcode.Entry{}
	}
	return entries
}

// sortForDisplay orders case-insensitively with a stable tiebreak on the raw value.
func sortForDisplay(items []string) {
	c := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(items, func(a, b string) int {
		if r := c.CompareString(a, b); r != 0 {
			return r
		}
		return strings.Compare(a, b)
	})
}
