package dataset

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placesearch/internal/domain"
	"github.com/kailas-cloud/placesearch/internal/domain/place"
	"github.com/kailas-cloud/placesearch/internal/metrics"
)

// Service loads the place table once per session and serves the resulting
// immutable dataset to concurrent readers.
type Service struct {
	source    Source
	columns   place.Columns
	tableOpts []place.TableOption
	current   atomic.Pointer[place.Dataset]
	logger    *zap.Logger
}

// New creates a dataset service. opts are applied when mapping each fetched table.
func New(source Source, columns place.Columns, logger *zap.Logger, opts ...place.TableOption) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, columns: columns, tableOpts: opts, logger: logger}
}

// Current returns the loaded dataset, or false before the first successful load.
func (s *Service) Current() (*place.Dataset, bool) {
	ds := s.current.Load()
	return ds, ds != nil
}

// Load fetches the table and swaps in the new dataset. On failure the
// previous dataset, if any, stays in place.
func (s *Service) Load(ctx context.Context) (*place.Dataset, error) {
	driver := s.source.Name()
	start := time.Now()

	tbl, err := s.source.Fetch(ctx)
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues(driver, "error").Inc()
		s.logger.Error("Dataset fetch failed", zap.String("driver", driver), zap.Error(err))
		return nil, fmt.Errorf("fetch %s: %w", driver, err)
	}

	ds, missing, err := place.FromTable(tbl, s.columns, s.tableOpts...)
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues(driver, "error").Inc()
		s.logger.Error("Dataset rejected", zap.String("driver", driver), zap.Error(err))
		return nil, domain.NewSourceError(driver, err.Error())
	}

	s.current.Store(ds)

	metrics.DatasetLoadsTotal.WithLabelValues(driver, "ok").Inc()
	metrics.DatasetLoadDuration.WithLabelValues(driver).Observe(time.Since(start).Seconds())
	metrics.DatasetPlaces.Set(float64(ds.Len()))
	metrics.DatasetRowsSkipped.Add(float64(missing))

	s.logger.Info("Dataset loaded",
		zap.String("driver", driver),
		zap.Int("places", ds.Len()),
		zap.Int("without_coordinates", missing),
		zap.Duration("took", time.Since(start)),
	)
	return ds, nil
}
