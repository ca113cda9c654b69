package catalog

import (
	"github.com/kailas-cloud/placesearch/internal/domain/place"
	"github.com/kailas-cloud/placesearch/internal/domain/postcode"
)

// DatasetProvider exposes the dataset loaded for the session.
type DatasetProvider interface {
	Current() (*place.Dataset, bool)
}

// Suggester completes partial "Suburb, Postcode" terms.
type Suggester interface {
	Suggest(term string, minLen, limit int) []postcode.Entry
}
