package placesearch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var testHeader = []string{"Name", "Lat", "Lng", "Brands", "State", "Phone"}

var testRows = [][]string{
	{"Alpha Cafe", "-33.8700", "151.2100", "Coffee, Tea", "NSW", "111"},
	{"Beta Bakery", "-33.9000", "151.2000", "Bakery", "NSW", "222"},
	{"Gamma Grind", "-27.4700", "153.0300", "coffee", "QLD", "333"},
	{"Delta Depot", "", "", "Coffee", "VIC", "444"},
}

var testPostcodes = []Postcode{
	{Suburb: "SYDNEY", Postcode: "2000", Point: Point{Lat: -33.8688, Lon: 151.2093}},
	{Suburb: "SYDNEY SOUTH", Postcode: "2000", Point: Point{Lat: -33.8800, Lon: 151.2070}},
	{Suburb: "BRISBANE", Postcode: "4000", Point: Point{Lat: -27.4698, Lon: 153.0251}},
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	base := []Option{WithRows(testHeader, testRows), WithPostcodes(testPostcodes)}
	c, err := New(context.Background(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func placeNames(places []Place) []string {
	out := make([]string, len(places))
	for i, p := range places {
		out[i] = p.Name
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNew_NoSource(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no data source provided")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown"}
	if _, _, err := createSource(cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_MissingRequiredColumn(t *testing.T) {
	_, err := New(context.Background(), WithRows([]string{"Title", "Lat", "Lng"}, [][]string{{"x", "1", "2"}}))
	if err == nil {
		t.Fatal("expected error when the name column is missing")
	}
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestNew_CustomColumns(t *testing.T) {
	c, err := New(context.Background(),
		WithRows([]string{"Title", "Y", "X", "Tags", "Area"}, [][]string{{"Zeta", "-33.87", "151.21", "Tea", "NSW"}}),
		WithColumns(Columns{Name: "Title", Latitude: "Y", Longitude: "X", Categories: "Tags", Region: "Area"}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	res, err := c.Search(context.Background(), Query{Category: "Tea"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := placeNames(res.Places); !equalStrings(got, []string{"Zeta"}) {
		t.Errorf("places = %v, want [Zeta]", got)
	}
}

func TestNew_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.csv")
	data := "Name,Lat,Lng,Brands,State\nAlpha Cafe,-33.87,151.21,Coffee,NSW\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := New(context.Background(), WithCSV(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	regions, err := c.Regions()
	if err != nil {
		t.Fatalf("Regions: %v", err)
	}
	if !equalStrings(regions, []string{"NSW"}) {
		t.Errorf("regions = %v, want [NSW]", regions)
	}
}

func TestNew_CSVFileMissing(t *testing.T) {
	_, err := New(context.Background(), WithCSV(filepath.Join(t.TempDir(), "nope.csv")))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSearch_RegionCategory(t *testing.T) {
	c := newTestClient(t)

	res, err := c.Search(context.Background(), Query{Category: "Coffee", Region: "NSW"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Mode != ModeRegionCategory {
		t.Errorf("mode = %q, want %q", res.Mode, ModeRegionCategory)
	}
	if res.Origin != nil {
		t.Errorf("origin = %v, want nil", res.Origin)
	}
	if got := placeNames(res.Places); !equalStrings(got, []string{"Alpha Cafe"}) {
		t.Errorf("places = %v, want [Alpha Cafe]", got)
	}
	if res.Places[0].DistanceKm != nil {
		t.Error("distance should be unset outside proximity mode")
	}
	if res.Places[0].Fields["Phone"] != "111" {
		t.Errorf("Phone = %q, want 111", res.Places[0].Fields["Phone"])
	}
	if !equalStrings(res.Places[0].Categories, []string{"Coffee", "Tea"}) {
		t.Errorf("categories = %v", res.Places[0].Categories)
	}
}

func TestSearch_DefaultsKeepDatasetOrder(t *testing.T) {
	c := newTestClient(t)

	res, err := c.Search(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{"Alpha Cafe", "Beta Bakery", "Gamma Grind", "Delta Depot"}
	if got := placeNames(res.Places); !equalStrings(got, want) {
		t.Errorf("places = %v, want %v", got, want)
	}
	if res.Category != "All" || res.Region != "All" {
		t.Errorf("category/region = %q/%q, want All/All", res.Category, res.Region)
	}
}

func TestSearch_ProximityByOrigin(t *testing.T) {
	c := newTestClient(t)

	res, err := c.Search(context.Background(), Query{
		Category: "coffee",
		Region:   "QLD",
		Origin:   &Point{Lat: -33.8688, Lon: 151.2093},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Mode != ModeProximity {
		t.Fatalf("mode = %q, want %q", res.Mode, ModeProximity)
	}
	if res.Region != "All" {
		t.Errorf("region = %q, want All", res.Region)
	}
	// Delta Depot has no coordinates.
	want := []string{"Alpha Cafe", "Gamma Grind"}
	if got := placeNames(res.Places); !equalStrings(got, want) {
		t.Fatalf("places = %v, want %v", got, want)
	}
	for i, p := range res.Places {
		if p.DistanceKm == nil {
			t.Fatalf("place %d: distance unset", i)
		}
	}
	if *res.Places[0].DistanceKm > *res.Places[1].DistanceKm {
		t.Error("places not ordered by distance")
	}
	if *res.Places[0].DistanceKm > 1 {
		t.Errorf("nearest distance = %f km, want < 1", *res.Places[0].DistanceKm)
	}
}

func TestSearch_ProximityByLocation(t *testing.T) {
	c := newTestClient(t)

	res, err := c.Search(context.Background(), Query{Location: "brisbane, 4000"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Origin == nil || res.Origin.Lat != -27.4698 {
		t.Fatalf("origin = %v, want Brisbane", res.Origin)
	}
	if res.Places[0].Name != "Gamma Grind" {
		t.Errorf("nearest = %q, want Gamma Grind", res.Places[0].Name)
	}
}

func TestSearch_NearestLimit(t *testing.T) {
	c := newTestClient(t, WithNearestLimit(1))

	res, err := c.Search(context.Background(), Query{Origin: &Point{Lat: -33.8688, Lon: 151.2093}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Places) != 1 {
		t.Errorf("len = %d, want 1", len(res.Places))
	}
}

func TestSearch_Errors(t *testing.T) {
	c := newTestClient(t)

	tests := []struct {
		name  string
		query Query
		want  error
	}{
		{"unknown location", Query{Location: "Nowhere, 9999"}, ErrUnknownLocation},
		{"malformed location", Query{Location: "Sydney"}, ErrUnknownLocation},
		{"invalid origin", Query{Origin: &Point{Lat: 95, Lon: 0}}, ErrInvalidQuery},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Search(context.Background(), tc.query)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSearch_LocationWithoutGazetteer(t *testing.T) {
	c, err := New(context.Background(), WithRows(testHeader, testRows))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	_, err = c.Search(context.Background(), Query{Location: "SYDNEY, 2000"})
	if !errors.Is(err, ErrUnknownLocation) {
		t.Errorf("err = %v, want ErrUnknownLocation", err)
	}
	if got := c.Postcodes("SYDN"); got == nil || len(got) != 0 {
		t.Errorf("Postcodes = %v, want empty non-nil", got)
	}
}

func TestPlace(t *testing.T) {
	c := newTestClient(t)

	p, err := c.Place(context.Background(), 1)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if p.Name != "Beta Bakery" {
		t.Errorf("name = %q, want Beta Bakery", p.Name)
	}

	_, err = c.Place(context.Background(), 42)
	if !errors.Is(err, ErrPlaceNotFound) {
		t.Errorf("err = %v, want ErrPlaceNotFound", err)
	}
}

func TestCategories(t *testing.T) {
	c := newTestClient(t, WithIgnoreCategories("bakery"))

	got, err := c.Categories()
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	want := []string{"Coffee", "Tea"}
	if !equalStrings(got, want) {
		t.Errorf("categories = %v, want %v", got, want)
	}
}

func TestRegions(t *testing.T) {
	c := newTestClient(t)

	got, err := c.Regions()
	if err != nil {
		t.Fatalf("Regions: %v", err)
	}
	want := []string{"NSW", "QLD", "VIC"}
	if !equalStrings(got, want) {
		t.Errorf("regions = %v, want %v", got, want)
	}
}

func TestPostcodes(t *testing.T) {
	c := newTestClient(t, WithSuggestions(4, 1))

	if got := c.Postcodes("syd"); len(got) != 0 {
		t.Errorf("short term returned %v", got)
	}
	got := c.Postcodes("sydn")
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Label() != "SYDNEY, 2000" {
		t.Errorf("label = %q, want SYDNEY, 2000", got[0].Label())
	}
}

func TestHealth(t *testing.T) {
	c := newTestClient(t)

	h := c.Health(context.Background())
	if h.Status != "ok" {
		t.Errorf("status = %q, want ok", h.Status)
	}
	if h.Places != len(testRows) {
		t.Errorf("places = %d, want %d", h.Places, len(testRows))
	}
}

func TestReload(t *testing.T) {
	c := newTestClient(t)
	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
}

func TestObserver_SearchesByModeAndOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, WithPrometheus(reg), WithLogger(slog.New(slog.DiscardHandler)))
	ctx := context.Background()

	if _, err := c.Search(ctx, Query{}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, err := c.Search(ctx, Query{Category: "Florist"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, err := c.Search(ctx, Query{Category: "Coffee", Location: "SYDNEY, 2000"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	_, _ = c.Search(ctx, Query{Location: "Nowhere, 9999"})

	searches := c.obs.metrics.searches
	tests := []struct {
		mode, outcome string
		want          float64
	}{
		{"region_category", "ok", 1},
		{"region_category", "empty", 1},
		{"proximity", "ok", 1},
		{"proximity", "invalid", 1},
		{"proximity", "error", 0},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(searches.WithLabelValues(tt.mode, tt.outcome)); got != tt.want {
			t.Errorf("searches{%s,%s} = %f, want %f", tt.mode, tt.outcome, got, tt.want)
		}
	}

	// One result-size series per mode; rejected searches are not observed.
	if got := testutil.CollectAndCount(c.obs.metrics.resultSize); got != 2 {
		t.Errorf("result size series = %d, want 2", got)
	}
}

func TestObserver_RecordsLoads(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, WithPrometheus(reg))

	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := testutil.ToFloat64(c.obs.metrics.loads.WithLabelValues("ok")); got != 2 {
		t.Errorf("loads ok = %f, want 2", got)
	}
	if got := testutil.ToFloat64(c.obs.metrics.places); got != float64(len(testRows)) {
		t.Errorf("places = %f, want %d", got, len(testRows))
	}
}

func TestObserver_LogsResultCount(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := newTestClient(t, WithLogger(logger))

	if _, err := c.Search(context.Background(), Query{Category: "Coffee"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "search completed") || !strings.Contains(out, "places=3") {
		t.Errorf("log output missing result count:\n%s", out)
	}
	if !strings.Contains(out, "mode=region_category") {
		t.Errorf("log output missing mode:\n%s", out)
	}
}

func TestSearchOutcome(t *testing.T) {
	tests := []struct {
		name   string
		places int
		err    error
		want   string
	}{
		{"ok", 3, nil, "ok"},
		{"empty", 0, nil, "empty"},
		{"invalid query", 0, fmt.Errorf("search: %w", ErrInvalidQuery), "invalid"},
		{"unknown location", 0, ErrUnknownLocation, "invalid"},
		{"other", 0, errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := searchOutcome(tt.places, tt.err); got != tt.want {
				t.Errorf("searchOutcome = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObserver_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.searches != second.searches || first.places != second.places {
		t.Error("expected the registered collectors to be reused")
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var o *observer
	o.search(Query{}, Result{}, time.Now(), nil)
	o.load(0, time.Now(), nil)
	o.lookup(1, time.Now(), nil)
}
