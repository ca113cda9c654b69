package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placesearch/internal/domain"
	"github.com/kailas-cloud/placesearch/internal/domain/geo"
	"github.com/kailas-cloud/placesearch/internal/domain/place"
	"github.com/kailas-cloud/placesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/placesearch/internal/domain/search/result"
	"github.com/kailas-cloud/placesearch/internal/metrics"
)

// Query is the raw filter input of one search request.
// Origin takes precedence over Location; either selects proximity mode.
type Query struct {
	Category string
	Region   string
	Location string
	Origin   *geo.Point
}

// Service answers place searches over the session dataset.
type Service struct {
	data    DatasetProvider
	locator Locator
	engine  *Engine
	logger  *zap.Logger
}

// New creates a search service. locator may be nil, in which case location
// terms cannot be resolved and only explicit origins are accepted.
func New(data DatasetProvider, locator Locator, engine *Engine, logger *zap.Logger) *Service {
	if engine == nil {
		engine = NewEngine(DefaultNearestLimit)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{data: data, locator: locator, engine: engine, logger: logger}
}

// Search builds the filter state for q and applies it to the dataset.
// It returns the effective state alongside the result.
func (s *Service) Search(ctx context.Context, q Query) (result.Result, filter.State, error) {
	ds, ok := s.data.Current()
	if !ok {
		return result.Result{}, filter.State{}, domain.ErrDatasetNotLoaded
	}

	state, err := s.buildState(q)
	if err != nil {
		metrics.SearchQueriesTotal.WithLabelValues("unknown", "invalid").Inc()
		s.logger.Warn("Rejected search query",
			zap.String("category", q.Category),
			zap.String("region", q.Region),
			zap.String("location", q.Location),
			zap.Error(err),
		)
		return result.Result{}, filter.State{}, err
	}

	res, err := s.engine.Apply(ds, state)
	if err != nil {
		metrics.SearchQueriesTotal.WithLabelValues(state.Mode().String(), "invalid").Inc()
		return result.Result{}, filter.State{}, fmt.Errorf("apply filters: %w", err)
	}

	outcome := "ok"
	if res.Empty() {
		outcome = "empty"
	}
	metrics.SearchQueriesTotal.WithLabelValues(state.Mode().String(), outcome).Inc()
	metrics.SearchResultSize.WithLabelValues(state.Mode().String()).Observe(float64(res.Len()))

	s.logger.Debug("Search completed",
		zap.Stringer("state", state),
		zap.Int("results", res.Len()),
		zap.Int("dataset_size", ds.Len()),
	)

	return res, state, nil
}

// Get returns a single place by identifier.
func (s *Service) Get(_ context.Context, id int) (place.Place, error) {
	ds, ok := s.data.Current()
	if !ok {
		return place.Place{}, domain.ErrDatasetNotLoaded
	}
	p, ok := ds.At(id)
	if !ok {
		return place.Place{}, fmt.Errorf("%w: %d", domain.ErrPlaceNotFound, id)
	}
	return p, nil
}

func (s *Service) buildState(q Query) (filter.State, error) {
	state, err := filter.New(q.Category, q.Region, nil)
	if err != nil {
		return filter.State{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	switch {
	case q.Origin != nil:
		state, err = state.SearchLocation(*q.Origin)
		if err != nil {
			return filter.State{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
		}
	case strings.TrimSpace(q.Location) != "":
		if s.locator == nil {
			return filter.State{}, fmt.Errorf("%w: no gazetteer configured", domain.ErrUnknownLocation)
		}
		entry, err := s.locator.Resolve(q.Location)
		if err != nil {
			return filter.State{}, fmt.Errorf("resolve location: %w", err)
		}
		state, err = state.SearchLocation(entry.Point)
		if err != nil {
			return filter.State{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
		}
	}
	return state, nil
}
