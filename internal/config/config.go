package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source drivers.
const (
	DriverGViz     = "gviz"
	DriverCSV      = "csv"
	DriverParquet  = "parquet"
	DriverPostgres = "postgres"
)

// Config holds the placesearch configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Source    SourceConfig    `yaml:"source"`
	Columns   ColumnsConfig   `yaml:"columns"`
	Search    SearchConfig    `yaml:"search"`
	Postcodes PostcodesConfig `yaml:"postcodes"`
	Display   DisplayConfig   `yaml:"display"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SourceConfig selects where the place table is loaded from.
type SourceConfig struct {
	Driver     string `yaml:"driver"` // gviz, csv, parquet, postgres (default: gviz)
	URL        string `yaml:"url"`    // gviz endpoint
	Key        string `yaml:"key"`    // spreadsheet key
	Path       string `yaml:"path"`   // csv / parquet file
	DSN        string `yaml:"dsn"`
	Query      string `yaml:"query"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// ColumnsConfig maps table headers to the core place fields.
type ColumnsConfig struct {
	Name       string `yaml:"name"`
	Latitude   string `yaml:"latitude"`
	Longitude  string `yaml:"longitude"`
	Categories string `yaml:"categories"`
	Region     string `yaml:"region"`
}

// SearchConfig holds ranking settings.
type SearchConfig struct {
	NearestLimit     int      `yaml:"nearest_limit"`
	IgnoreCategories []string `yaml:"ignore_categories"` // placeholder tag values kept out of the category list
}

// PostcodesConfig holds the suburb/postcode gazetteer settings.
type PostcodesConfig struct {
	Path           string `yaml:"path"` // empty disables location terms
	MinTermLength  int    `yaml:"min_term_length"`
	MaxSuggestions int    `yaml:"max_suggestions"`
}

// DisplayConfig holds presentation settings.
type DisplayConfig struct {
	HideFields []string `yaml:"hide_fields"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML config bytes, expanding ${VAR} references first.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Source.Driver == "" {
		c.Source.Driver = DriverGViz
	}
	if c.Source.Driver == DriverGViz && c.Source.URL == "" {
		c.Source.URL = "https://spreadsheets.google.com/tq"
	}
	if c.Source.TimeoutSec <= 0 {
		c.Source.TimeoutSec = 30
	}
	if c.Columns.Name == "" {
		c.Columns.Name = "Name"
	}
	if c.Columns.Latitude == "" {
		c.Columns.Latitude = "Lat"
	}
	if c.Columns.Longitude == "" {
		c.Columns.Longitude = "Lng"
	}
	if c.Columns.Categories == "" {
		c.Columns.Categories = "Brands"
	}
	if c.Columns.Region == "" {
		c.Columns.Region = "State"
	}
	if c.Search.NearestLimit <= 0 {
		c.Search.NearestLimit = 5
	}
	if c.Search.IgnoreCategories == nil {
		c.Search.IgnoreCategories = []string{"tbc", "please call", "please contact store"}
	}
	if c.Postcodes.MinTermLength <= 0 {
		c.Postcodes.MinTermLength = 4
	}
	if c.Postcodes.MaxSuggestions <= 0 {
		c.Postcodes.MaxSuggestions = 10
	}
	if c.Display.HideFields == nil {
		c.Display.HideFields = []string{"Geocoded address", "Geocoding date", "Geocode result"}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Source.Driver {
	case DriverGViz:
		if c.Source.Key == "" {
			return fmt.Errorf("source.key is required for driver %q", c.Source.Driver)
		}
	case DriverCSV, DriverParquet:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for driver %q", c.Source.Driver)
		}
	case DriverPostgres:
		if c.Source.DSN == "" || c.Source.Query == "" {
			return fmt.Errorf("source.dsn and source.query are required for driver %q", c.Source.Driver)
		}
	default:
		return fmt.Errorf(
			"source.driver must be one of gviz, csv, parquet, postgres, got %q", c.Source.Driver,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
