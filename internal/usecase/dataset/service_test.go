package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/placesearch/internal/domain"
	"github.com/kailas-cloud/placesearch/internal/domain/place"
	"github.com/kailas-cloud/placesearch/internal/metrics"
)

// --- Mocks ---

type mockSource struct {
	tbl   place.Table
	err   error
	calls int
}

func (m *mockSource) Name() string { return "mock" }

func (m *mockSource) Fetch(_ context.Context) (place.Table, error) {
	m.calls++
	return m.tbl, m.err
}

var columns = place.Columns{Name: "Name", Latitude: "Lat", Longitude: "Lng", Categories: "Brands", Region: "State"}

func sampleTable() place.Table {
	return place.Table{
		Header: []string{"Name", "Lat", "Lng", "Brands", "State"},
		Rows: [][]string{
			{"A", "-27.5", "153.0", "Coffee", "QLD"},
			{"B", "", "", "Tea", "NSW"},
		},
	}
}

// --- Tests ---

func TestCurrent_BeforeLoad(t *testing.T) {
	svc := New(&mockSource{}, columns, nil)
	ds, ok := svc.Current()
	assert.False(t, ok)
	assert.Nil(t, ds)
}

func TestLoad(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := New(&mockSource{tbl: sampleTable()}, columns, zap.New(core))

	before := testutil.ToFloat64(metrics.DatasetLoadsTotal.WithLabelValues("mock", "ok"))
	ds, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())

	current, ok := svc.Current()
	require.True(t, ok)
	assert.Same(t, ds, current)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.DatasetLoadsTotal.WithLabelValues("mock", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.DatasetPlaces))

	entries := logs.FilterMessage("Dataset loaded").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["without_coordinates"])
}

func TestLoad_FetchErrorKeepsPrevious(t *testing.T) {
	src := &mockSource{tbl: sampleTable()}
	svc := New(src, columns, nil)
	first, err := svc.Load(context.Background())
	require.NoError(t, err)

	src.err = domain.NewSourceError("mock", "boom")
	_, err = svc.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))

	current, ok := svc.Current()
	require.True(t, ok)
	assert.Same(t, first, current)
}

func TestLoad_MissingColumn(t *testing.T) {
	src := &mockSource{tbl: place.Table{Header: []string{"Title"}}}
	svc := New(src, columns, nil)

	_, err := svc.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	_, ok := svc.Current()
	assert.False(t, ok)
}

func TestLoad_TableOptions(t *testing.T) {
	tbl := place.Table{
		Header: []string{"Name", "Lat", "Lng"},
		Rows:   [][]string{{"", "", ""}, {" Kiosk ", "-27.5", "153"}},
	}
	svc := New(&mockSource{tbl: tbl}, columns, nil, place.Verbatim())

	ds, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	p, ok := ds.At(1)
	require.True(t, ok)
	assert.Equal(t, " Kiosk ", p.Name())
}
