package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placesearch/internal/config"
	"github.com/kailas-cloud/placesearch/internal/domain/place"
	"github.com/kailas-cloud/placesearch/internal/domain/postcode"
	logpkg "github.com/kailas-cloud/placesearch/internal/logger"
	"github.com/kailas-cloud/placesearch/internal/metrics"
	"github.com/kailas-cloud/placesearch/internal/repository/gazetteer"
	"github.com/kailas-cloud/placesearch/internal/repository/source"
	cataloguc "github.com/kailas-cloud/placesearch/internal/usecase/catalog"
	datasetuc "github.com/kailas-cloud/placesearch/internal/usecase/dataset"
	healthuc "github.com/kailas-cloud/placesearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/placesearch/internal/usecase/search"
)

// app is the composition root shared by every subcommand.
type app struct {
	env     string
	cfg     config.Config
	logger  *zap.Logger
	dataset *datasetuc.Service
	search  *searchuc.Service
	catalog *cataloguc.Service
	health  *healthuc.Service
	closers []func() error
}

func newApp(env string) (*app, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(logpkg.Options{Env: env, Level: cfg.Logging.Level})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	metrics.RegisterSearchMetrics()

	a := &app{env: env, cfg: cfg, logger: logger}

	src, pinger, err := a.newSource()
	if err != nil {
		return nil, err
	}

	a.dataset = datasetuc.New(src, place.Columns{
		Name:       cfg.Columns.Name,
		Latitude:   cfg.Columns.Latitude,
		Longitude:  cfg.Columns.Longitude,
		Categories: cfg.Columns.Categories,
		Region:     cfg.Columns.Region,
	}, logger)

	// Pass nil interfaces, not typed nil pointers, when no gazetteer is configured.
	var (
		locator   searchuc.Locator
		suggester cataloguc.Suggester
	)
	if cfg.Postcodes.Path != "" {
		gaz, err := gazetteer.LoadFile(cfg.Postcodes.Path)
		if err != nil {
			return nil, fmt.Errorf("load postcodes: %w", err)
		}
		logger.Info("Gazetteer loaded", zap.String("path", cfg.Postcodes.Path), zap.Int("entries", gaz.Len()))
		locator, suggester = gaz, gaz
	}

	a.search = searchuc.New(a.dataset, locator, searchuc.NewEngine(cfg.Search.NearestLimit), logger)
	a.catalog = cataloguc.New(a.dataset, suggester, cataloguc.Options{
		IgnoreCategories: cfg.Search.IgnoreCategories,
		MinTermLength:    cfg.Postcodes.MinTermLength,
		MaxSuggestions:   cfg.Postcodes.MaxSuggestions,
	})

	var healthPinger healthuc.SourcePinger
	if pinger != nil {
		healthPinger = pinger
	}
	a.health = healthuc.New(a.dataset, healthPinger)

	return a, nil
}

// newSource picks the configured source driver. The second return value is
// non-nil only for sources holding a live connection.
func (a *app) newSource() (datasetuc.Source, *source.Postgres, error) {
	sc := a.cfg.Source
	timeout := time.Duration(sc.TimeoutSec) * time.Second

	switch sc.Driver {
	case config.DriverGViz:
		return source.NewGViz(nil, sc.URL, sc.Key, timeout), nil, nil
	case config.DriverCSV:
		return source.NewCSV(sc.Path), nil, nil
	case config.DriverParquet:
		return source.NewParquet(sc.Path), nil, nil
	case config.DriverPostgres:
		pg, err := source.NewPostgres(sc.DSN, sc.Query)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres source: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		return pg, pg, nil
	default:
		return nil, nil, fmt.Errorf("unknown source driver %q", sc.Driver)
	}
}

// load fetches the dataset, bounded by the source timeout.
func (a *app) load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.Source.TimeoutSec)*time.Second)
	defer cancel()
	_, err := a.dataset.Load(ctx)
	return err
}

// header returns the column order of the loaded dataset.
func (a *app) header() []string {
	if ds, ok := a.dataset.Current(); ok {
		return ds.Header()
	}
	return nil
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("Close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

var _ searchuc.Locator = (*postcode.Gazetteer)(nil)
