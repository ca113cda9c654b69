package health

import (
	"context"

	"github.com/kailas-cloud/placesearch/internal/domain/place"
)

// DatasetProvider exposes the dataset loaded for the session.
type DatasetProvider interface {
	Current() (*place.Dataset, bool)
}

// SourcePinger checks availability of a source that holds a live connection.
type SourcePinger interface {
	Ping(ctx context.Context) error
}
