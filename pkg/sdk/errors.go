package placesearch

import "github.com/kailas-cloud/placesearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery      = domain.ErrInvalidQuery
	ErrDatasetNotLoaded  = domain.ErrDatasetNotLoaded
	ErrPlaceNotFound     = domain.ErrPlaceNotFound
	ErrUnknownLocation   = domain.ErrUnknownLocation
	ErrSourceUnavailable = domain.ErrSourceUnavailable
)
