package place

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var defaultColumns = Columns{
	Name: "Name", Latitude: "Lat", Longitude: "Lng", Categories: "Brands", Region: "State",
}

func TestFromTable(t *testing.T) {
	tbl := Table{
		Header: []string{"Name", " Lat ", "Lng", "Brands", "State", "Phone"},
		Rows: [][]string{
			{"Corner Cafe", "-27.5", "153.0", "Coffee", "QLD", "07 1234"},
			{"", "", "", "", "", ""},
			{"No Geo", "", "abc", "Tea", "NSW"},
		},
	}

	ds, missing, err := FromTable(tbl, defaultColumns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (blank row dropped)", ds.Len())
	}
	if missing != 1 {
		t.Errorf("missing = %d, want 1", missing)
	}

	first, _ := ds.At(0)
	if first.Name() != "Corner Cafe" || first.Latitude() != -27.5 || first.Region() != "QLD" {
		t.Errorf("unexpected first place: %+v", first)
	}
	if v, _ := first.Field("Phone"); v != "07 1234" {
		t.Errorf("Phone = %q", v)
	}
	if v, _ := first.Field("Lat"); v != "-27.5" {
		t.Errorf("header should be trimmed, Lat field = %q", v)
	}

	second, _ := ds.At(1)
	if second.ID() != 1 || !math.IsNaN(second.Latitude()) || second.HasCoordinates() {
		t.Errorf("unexpected second place: id=%d lat=%v", second.ID(), second.Latitude())
	}
	if _, ok := second.Field("Phone"); ok {
		t.Error("short row should not carry a Phone field")
	}

	want := []string{"Name", "Lat", "Lng", "Brands", "State", "Phone"}
	if diff := cmp.Diff(want, ds.Header()); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestFromTable_OptionalColumns(t *testing.T) {
	tbl := Table{Header: []string{"Name", "Lat", "Lng"}, Rows: [][]string{{"X", "1", "2"}}}
	ds, _, err := FromTable(tbl, defaultColumns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := ds.At(0)
	if p.Categories() != "" || p.Region() != "" {
		t.Errorf("expected empty categories and region, got %q %q", p.Categories(), p.Region())
	}
}

func TestFromTable_MissingRequiredColumn(t *testing.T) {
	tbl := Table{Header: []string{"Name", "Lat"}}
	if _, _, err := FromTable(tbl, defaultColumns); err == nil {
		t.Fatal("expected error for missing Lng column")
	}
}

func TestFromTable_VerbatimKeepsPositionsAndWhitespace(t *testing.T) {
	tbl := Table{
		Header: []string{"Name", "Lat", "Lng"},
		Rows: [][]string{
			{"", "", ""},
			{"  Cafe  ", " -27.5 ", "153"},
		},
	}

	ds, missing, err := FromTable(tbl, defaultColumns, Verbatim())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (blank row kept)", ds.Len())
	}
	if missing != 1 {
		t.Errorf("missing = %d, want 1", missing)
	}

	p, ok := ds.At(1)
	if !ok {
		t.Fatal("place 1 not found")
	}
	if p.Name() != "  Cafe  " {
		t.Errorf("Name() = %q, want untrimmed", p.Name())
	}
	if p.Latitude() != -27.5 {
		t.Errorf("Latitude() = %v, want -27.5", p.Latitude())
	}
	if v, _ := p.Field("Lat"); v != " -27.5 " {
		t.Errorf("Lat field = %q, want untrimmed", v)
	}
}
