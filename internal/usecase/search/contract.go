package search

import (
	"github.com/kailas-cloud/placesearch/internal/domain/place"
	"github.com/kailas-cloud/placesearch/internal/domain/postcode"
)

// DatasetProvider exposes the dataset loaded for the session.
type DatasetProvider interface {
	// Current returns the loaded dataset, or false before the first load completes.
	Current() (*place.Dataset, bool)
}

// Locator resolves "Suburb, Postcode" search terms to coordinates.
type Locator interface {
	Resolve(term string) (postcode.Entry, error)
}
