package placesearch

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // csv, parquet, gviz, postgres, memory
	path     string
	key      string
	dsn      string
	query    string
	header   []string
	rows     [][]string
	verbatim bool // keep blank rows and untrimmed cells
	columns  Columns

	gazetteerPath string
	postcodes     []Postcode

	nearestLimit     int
	ignoreCategories []string
	minTermLength    int
	maxSuggestions   int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCSV loads places from a CSV export whose first row is the header.
func WithCSV(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "csv"
		c.path = path
	})
}

// WithParquet loads places from a flat parquet file.
func WithParquet(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "parquet"
		c.path = path
	})
}

// WithSpreadsheet loads places from a published Google spreadsheet.
func WithSpreadsheet(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "gviz"
		c.key = key
	})
}

// WithPostgres loads places from the result set of query.
func WithPostgres(dsn, query string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "postgres"
		c.dsn = dsn
		c.query = query
	})
}

// WithRows uses an in-memory table.
func WithRows(header []string, rows [][]string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
		c.header = header
		c.rows = rows
	})
}

// WithColumns overrides the header names of the core fields.
func WithColumns(cols Columns) Option {
	return optionFunc(func(c *clientConfig) {
		c.columns = cols
	})
}

// WithGazetteer loads "Suburb, Postcode" locations from a JSON file of
// {sub, pc, lat, lng} records.
func WithGazetteer(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.gazetteerPath = path
	})
}

// WithPostcodes uses in-memory gazetteer entries.
func WithPostcodes(entries []Postcode) Option {
	return optionFunc(func(c *clientConfig) {
		c.postcodes = entries
	})
}

// WithNearestLimit sets how many places a proximity search returns.
// Default: 5.
func WithNearestLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.nearestLimit = n
	})
}

// WithIgnoreCategories replaces the placeholder tags left out of Categories.
// Default: "tbc", "please call", "please contact store".
func WithIgnoreCategories(tags ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.ignoreCategories = tags
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// WithSuggestions sets the minimum term length and result cap of Postcodes.
// Defaults: 4 and 10.
func WithSuggestions(minTermLength, limit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.minTermLength = minTermLength
		c.maxSuggestions = limit
	})
}

// withVerbatimRows keeps in-memory rows exactly as given, so place IDs match
// item positions.
func withVerbatimRows() Option {
	return optionFunc(func(c *clientConfig) { c.verbatim = true })
}
