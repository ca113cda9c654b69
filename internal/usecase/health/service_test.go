package health

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/placesearch/internal/domain/place"
)

// --- Mocks ---

type mockData struct {
	ds *place.Dataset
}

func (m *mockData) Current() (*place.Dataset, bool) { return m.ds, m.ds != nil }

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func loaded() *mockData {
	return &mockData{ds: place.NewDataset([]place.Place{
		place.New(0, "A", -27.5, 153, "Coffee", "QLD", nil),
	})}
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	r := New(loaded(), &mockPinger{}).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["dataset"] != CheckOK {
		t.Errorf("expected dataset %q, got %q", CheckOK, r.Checks["dataset"])
	}
	if r.Checks["source"] != CheckOK {
		t.Errorf("expected source %q, got %q", CheckOK, r.Checks["source"])
	}
	if r.Places != 1 {
		t.Errorf("expected 1 place, got %d", r.Places)
	}
}

func TestCheck_NotLoaded(t *testing.T) {
	r := New(&mockData{}, nil).Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["dataset"] != CheckError {
		t.Errorf("expected dataset %q, got %q", CheckError, r.Checks["dataset"])
	}
	if _, ok := r.Checks["source"]; ok {
		t.Error("source check should be absent without a pinger")
	}
}

func TestCheck_SourceDown(t *testing.T) {
	r := New(loaded(), &mockPinger{err: errors.New("connection refused")}).Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["source"] != CheckError {
		t.Errorf("expected source %q, got %q", CheckError, r.Checks["source"])
	}
}

func TestCheck_NotLoadedAndSourceDown(t *testing.T) {
	r := New(&mockData{}, &mockPinger{err: errors.New("down")}).Check(context.Background())
	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}
