package dataset

import (
	"context"

	"github.com/kailas-cloud/placesearch/internal/domain/place"
)

// Source fetches the raw place table.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (place.Table, error)
}
