package result

import (
	"testing"

	"github.com/kailas-cloud/placesearch/internal/domain/place"
	"github.com/kailas-cloud/placesearch/internal/domain/search/mode"
)

func TestNewFiltered(t *testing.T) {
	r := NewFiltered([]place.Place{place.New(0, "A", 1, 2, "", "", nil)})
	if r.Mode() != mode.RegionCategory {
		t.Errorf("Mode() = %q", r.Mode())
	}
	if r.Len() != 1 || r.Empty() {
		t.Errorf("Len() = %d, Empty() = %v", r.Len(), r.Empty())
	}
	if r.Ranked() != nil {
		t.Error("Ranked() should be nil for a filtered result")
	}
	if _, ok := r.Distance(0); ok {
		t.Error("Distance() should be unavailable for a filtered result")
	}
}

func TestNewFiltered_NilIsEmptyNotNil(t *testing.T) {
	r := NewFiltered(nil)
	if !r.Empty() {
		t.Fatal("expected empty")
	}
	if r.Places() == nil {
		t.Error("Places() should be a non-nil empty slice")
	}
}

func TestNewRanked(t *testing.T) {
	r := NewRanked([]place.Ranked{
		{Place: place.New(3, "near", 0, 0, "", "", nil), DistanceKm: 1.5},
		{Place: place.New(1, "far", 0, 0, "", "", nil), DistanceKm: 9},
	})
	if r.Mode() != mode.Proximity {
		t.Errorf("Mode() = %q", r.Mode())
	}
	if r.Places()[0].Name() != "near" || r.Places()[1].Name() != "far" {
		t.Errorf("order not preserved: %v", r.Places())
	}
	d, ok := r.Distance(1)
	if !ok || d != 9 {
		t.Errorf("Distance(1) = %v, %v", d, ok)
	}
	if _, ok := r.Distance(2); ok {
		t.Error("Distance(2) should be out of range")
	}
}

func TestNewRanked_Empty(t *testing.T) {
	r := NewRanked(nil)
	if !r.Empty() || r.Mode() != mode.Proximity {
		t.Errorf("got mode=%q len=%d", r.Mode(), r.Len())
	}
	if r.Ranked() == nil {
		t.Error("Ranked() should be non-nil for an empty proximity result")
	}
}
