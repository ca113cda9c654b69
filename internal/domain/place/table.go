package place

import (
	"fmt"
	"strings"
)

// Table is a raw tabular export: a header row and string cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Columns names the headers that hold the core place fields.
type Columns struct {
	Name       string
	Latitude   string
	Longitude  string
	Categories string
	Region     string
}

// TableOption adjusts how FromTable maps rows.
type TableOption func(*tableOptions)

type tableOptions struct {
	verbatim bool
}

// Verbatim keeps every row, blank ones included, and leaves cell values
// untrimmed, so place IDs equal row positions.
func Verbatim() TableOption {
	return func(o *tableOptions) { o.verbatim = true }
}

// FromTable maps a Table onto a Dataset. Every cell is kept in the place's
// fields under its header. Fully blank rows are dropped and cells trimmed
// unless Verbatim is given. The second return value counts kept rows without
// usable coordinates.
//
// The name, latitude and longitude columns must exist; categories and
// region are optional and read as empty when absent.
func FromTable(t Table, cols Columns, opts ...TableOption) (*Dataset, int, error) {
	var o tableOptions
	for _, opt := range opts {
		opt(&o)
	}
	value := strings.TrimSpace
	if o.verbatim {
		value = func(s string) string { return s }
	}

	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		h = strings.TrimSpace(h)
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	for _, required := range []string{cols.Name, cols.Latitude, cols.Longitude} {
		if _, ok := idx[required]; !ok {
			return nil, 0, fmt.Errorf("missing column %q", required)
		}
	}

	cell := func(row []string, column string) string {
		i, ok := idx[column]
		if !ok || i >= len(row) {
			return ""
		}
		return value(row[i])
	}

	places := make([]Place, 0, len(t.Rows))
	missing := 0
	for _, row := range t.Rows {
		if !o.verbatim && blankRow(row) {
			continue
		}
		fields := make(map[string]string, len(t.Header))
		for i, h := range t.Header {
			if i < len(row) {
				fields[strings.TrimSpace(h)] = value(row[i])
			}
		}
		p := New(0,
			cell(row, cols.Name),
			ParseCoordinate(cell(row, cols.Latitude)),
			ParseCoordinate(cell(row, cols.Longitude)),
			cell(row, cols.Categories),
			cell(row, cols.Region),
			fields,
		)
		if !p.HasCoordinates() {
			missing++
		}
		places = append(places, p)
	}

	header := make([]string, len(t.Header))
	for i, h := range t.Header {
		header[i] = strings.TrimSpace(h)
	}
	return NewDataset(places).WithHeader(header), missing, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

