package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("source:\n  key: abc123\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, DriverGViz, cfg.Source.Driver)
	assert.Equal(t, "https://spreadsheets.google.com/tq", cfg.Source.URL)
	assert.Equal(t, ColumnsConfig{
		Name: "Name", Latitude: "Lat", Longitude: "Lng", Categories: "Brands", Region: "State",
	}, cfg.Columns)
	assert.Equal(t, 5, cfg.Search.NearestLimit)
	assert.Equal(t, []string{"tbc", "please call", "please contact store"}, cfg.Search.IgnoreCategories)
	assert.Equal(t, 4, cfg.Postcodes.MinTermLength)
	assert.Equal(t, 10, cfg.Postcodes.MaxSuggestions)
	assert.Contains(t, cfg.Display.HideFields, "Geocode result")
}

func TestParse_ExplicitEmptyListsSurvive(t *testing.T) {
	cfg, err := Parse([]byte(`
source:
  key: abc
search:
  ignore_categories: []
display:
  hide_fields: []
`))
	require.NoError(t, err)
	assert.Empty(t, cfg.Search.IgnoreCategories)
	assert.Empty(t, cfg.Display.HideFields)
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("PLACES_DSN", "postgres://u:p@db/places")

	cfg, err := Parse([]byte(`
http:
  port: ${PLACES_PORT:-9090}
source:
  driver: postgres
  dsn: ${PLACES_DSN}
  query: SELECT * FROM places
`))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "postgres://u:p@db/places", cfg.Source.DSN)
}

func TestValidate_SourceRequirements(t *testing.T) {
	tests := []struct {
		name    string
		source  SourceConfig
		wantErr string
	}{
		{"gviz without key", SourceConfig{Driver: DriverGViz}, "source.key"},
		{"csv without path", SourceConfig{Driver: DriverCSV}, "source.path"},
		{"parquet without path", SourceConfig{Driver: DriverParquet}, "source.path"},
		{"postgres without query", SourceConfig{Driver: DriverPostgres, DSN: "x"}, "source.query"},
		{"unknown driver", SourceConfig{Driver: "excel"}, "source.driver"},
		{"csv ok", SourceConfig{Driver: DriverCSV, Path: "places.csv"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{HTTP: HTTPConfig{Port: 8080}, Source: tt.source}
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Port(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 70000}, Source: SourceConfig{Driver: DriverCSV, Path: "x"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "http.port"))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	assert.Equal(t, "local", GetEnv())
	t.Setenv("ENV", "prod")
	assert.Equal(t, "prod", GetEnv())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}
