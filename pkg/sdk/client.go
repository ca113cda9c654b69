package placesearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placesearch/internal/domain/geo"
	"github.com/kailas-cloud/placesearch/internal/domain/place"
	"github.com/kailas-cloud/placesearch/internal/domain/postcode"
	"github.com/kailas-cloud/placesearch/internal/domain/search/result"
	"github.com/kailas-cloud/placesearch/internal/repository/gazetteer"
	"github.com/kailas-cloud/placesearch/internal/repository/source"
	cataloguc "github.com/kailas-cloud/placesearch/internal/usecase/catalog"
	datasetuc "github.com/kailas-cloud/placesearch/internal/usecase/dataset"
	healthuc "github.com/kailas-cloud/placesearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/placesearch/internal/usecase/search"
)

const (
	defaultSpreadsheetURL = "https://spreadsheets.google.com/tq"
	defaultFetchTimeout   = 30 * time.Second
)

// Client is the placesearch entry point. It is safe for concurrent use.
type Client struct {
	dataset   *datasetuc.Service
	searchSvc *searchuc.Service
	catalog   *cataloguc.Service
	healthSvc *healthuc.Service
	closer    func() error
	obs       *observer
}

// New creates a Client and loads the dataset. The provided context bounds
// the initial load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		ignoreCategories: []string{"tbc", "please call", "please contact store"},
		minTermLength:    4,
		maxSuggestions:   10,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.driver == "" {
		return nil, errors.New("placesearch: data source required (use WithCSV, WithParquet, WithSpreadsheet, WithPostgres or WithRows)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c, err := wireClient(cfg, obs)
	if err != nil {
		return nil, err
	}
	if err := c.Reload(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func createSource(cfg *clientConfig) (datasetuc.Source, *source.Postgres, error) {
	switch cfg.driver {
	case "csv":
		return source.NewCSV(cfg.path), nil, nil
	case "parquet":
		return source.NewParquet(cfg.path), nil, nil
	case "gviz":
		return source.NewGViz(nil, defaultSpreadsheetURL, cfg.key, defaultFetchTimeout), nil, nil
	case "postgres":
		pg, err := source.NewPostgres(cfg.dsn, cfg.query)
		if err != nil {
			return nil, nil, fmt.Errorf("placesearch: %w", err)
		}
		return pg, pg, nil
	case "memory":
		return memorySource{tbl: place.Table{Header: cfg.header, Rows: cfg.rows}}, nil, nil
	default:
		return nil, nil, fmt.Errorf("placesearch: unknown driver %q", cfg.driver)
	}
}

func wireClient(cfg *clientConfig, obs *observer) (*Client, error) {
	src, pg, err := createSource(cfg)
	if err != nil {
		return nil, err
	}

	gaz, err := createGazetteer(cfg)
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	var tableOpts []place.TableOption
	if cfg.verbatim {
		tableOpts = append(tableOpts, place.Verbatim())
	}
	ds := datasetuc.New(src, columnsOrDefault(cfg.columns), logger, tableOpts...)

	// Nil interfaces, not typed nil pointers, when no gazetteer is configured.
	var (
		locator   searchuc.Locator
		suggester cataloguc.Suggester
	)
	if gaz != nil {
		locator, suggester = gaz, gaz
	}

	var pinger healthuc.SourcePinger
	var closer func() error
	if pg != nil {
		pinger, closer = pg, pg.Close
	}

	return &Client{
		dataset:   ds,
		searchSvc: searchuc.New(ds, locator, searchuc.NewEngine(cfg.nearestLimit), logger),
		catalog: cataloguc.New(ds, suggester, cataloguc.Options{
			IgnoreCategories: cfg.ignoreCategories,
			MinTermLength:    cfg.minTermLength,
			MaxSuggestions:   cfg.maxSuggestions,
		}),
		healthSvc: healthuc.New(ds, pinger),
		closer:    closer,
		obs:       obs,
	}, nil
}

func createGazetteer(cfg *clientConfig) (*postcode.Gazetteer, error) {
	switch {
	case cfg.gazetteerPath != "":
		g, err := gazetteer.LoadFile(cfg.gazetteerPath)
		if err != nil {
			return nil, fmt.Errorf("placesearch: %w", err)
		}
		return g, nil
	case len(cfg.postcodes) > 0:
		entries := make([]postcode.Entry, len(cfg.postcodes))
		for i, p := range cfg.postcodes {
			entries[i] = postcode.Entry{
				Suburb:   p.Suburb,
				Postcode: p.Postcode,
				Point:    geo.Point{Lat: p.Point.Lat, Lon: p.Point.Lon},
			}
		}
		return postcode.NewGazetteer(entries), nil
	default:
		return nil, nil
	}
}

func columnsOrDefault(c Columns) place.Columns {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return place.Columns{
		Name:       pick(c.Name, "Name"),
		Latitude:   pick(c.Latitude, "Lat"),
		Longitude:  pick(c.Longitude, "Lng"),
		Categories: pick(c.Categories, "Brands"),
		Region:     pick(c.Region, "State"),
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.closer != nil {
		_ = c.closer()
	}
}

// Reload fetches the dataset again. On failure the previous one stays served.
func (c *Client) Reload(ctx context.Context) error {
	start := time.Now()
	ds, err := c.dataset.Load(ctx)
	if err != nil {
		c.obs.load(0, start, err)
		return fmt.Errorf("reload: %w", err)
	}
	c.obs.load(ds.Len(), start, nil)
	return nil
}

// Search returns the places matching q.
func (c *Client) Search(ctx context.Context, q Query) (out Result, err error) {
	start := time.Now()
	defer func() { c.obs.search(q, out, start, err) }()

	query := searchuc.Query{Category: q.Category, Region: q.Region, Location: q.Location}
	if q.Origin != nil {
		query.Origin = &geo.Point{Lat: q.Origin.Lat, Lon: q.Origin.Lon}
	}

	res, state, err := c.searchSvc.Search(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}

	out = Result{
		Mode:     Mode(res.Mode()),
		Category: state.Category(),
		Region:   state.Region(),
		Places:   resultPlaces(res),
	}
	if origin, ok := state.Location(); ok {
		out.Origin = &Point{Lat: origin.Lat, Lon: origin.Lon}
	}
	return out, nil
}

// Place returns a single place by identifier.
func (c *Client) Place(ctx context.Context, id int) (_ Place, err error) {
	start := time.Now()
	defer func() { c.obs.lookup(id, start, err) }()

	p, err := c.searchSvc.Get(ctx, id)
	if err != nil {
		return Place{}, fmt.Errorf("place: %w", err)
	}
	return placeFromDomain(p, nil), nil
}

// Categories lists the category filter choices.
func (c *Client) Categories() ([]string, error) {
	return c.catalog.Categories()
}

// Regions lists the region filter choices.
func (c *Client) Regions() ([]string, error) {
	return c.catalog.Regions()
}

// Postcodes completes a partial "Suburb, Postcode" term.
func (c *Client) Postcodes(term string) []Postcode {
	entries := c.catalog.Postcodes(term)
	out := make([]Postcode, len(entries))
	for i, e := range entries {
		out[i] = Postcode{Suburb: e.Suburb, Postcode: e.Postcode, Point: Point{Lat: e.Point.Lat, Lon: e.Point.Lon}}
	}
	return out
}

// Health checks the dataset and, for database sources, the connection.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Places: report.Places,
		Checks: checks,
	}
}

func resultPlaces(res result.Result) []Place {
	out := make([]Place, res.Len())
	for i, p := range res.Places() {
		var dist *float64
		if d, ok := res.Distance(i); ok {
			dist = &d
		}
		out[i] = placeFromDomain(p, dist)
	}
	return out
}

func placeFromDomain(p place.Place, distanceKm *float64) Place {
	return Place{
		ID:         p.ID(),
		Name:       p.Name(),
		Latitude:   p.Latitude(),
		Longitude:  p.Longitude(),
		Categories: place.SplitTags(p.Categories()),
		Region:     p.Region(),
		Fields:     p.Fields(),
		DistanceKm: distanceKm,
	}
}

// memorySource serves a fixed table.
type memorySource struct {
	tbl place.Table
}

func (memorySource) Name() string { return "memory" }

func (m memorySource) Fetch(_ context.Context) (place.Table, error) { return m.tbl, nil }
