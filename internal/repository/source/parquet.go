package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/placesearch/internal/domain"
	"github.com/kailas-cloud/placesearch/internal/domain/place"
)

// Parquet reads a flat parquet file. Each top-level column becomes a header;
// repeated columns are joined with commas so list-typed tags read like a
// spreadsheet cell.
type Parquet struct {
	path string
}

// NewParquet creates a parquet file source.
func NewParquet(path string) *Parquet {
	return &Parquet{path: path}
}

// Name identifies the driver in logs and metrics.
func (p *Parquet) Name() string { return "parquet" }

// Fetch reads every row group of the file.
func (p *Parquet) Fetch(ctx context.Context) (place.Table, error) {
	f, err := os.Open(filepath.Clean(p.path))
	if err != nil {
		return place.Table{}, domain.NewSourceError(p.Name(), err.Error())
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return place.Table{}, domain.NewSourceError(p.Name(), fmt.Sprintf("stat: %v", err))
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return place.Table{}, domain.NewSourceError(p.Name(), fmt.Sprintf("open parquet: %v", err))
	}

	// Leaf column index -> header position.
	leaves := pf.Schema().Columns()
	leafToHeader := make([]int, len(leaves))
	var header []string
	pos := make(map[string]int)
	for i, path := range leaves {
		if len(path) == 0 {
			leafToHeader[i] = -1
			continue
		}
		name := path[0]
		if _, ok := pos[name]; !ok {
			pos[name] = len(header)
			header = append(header, name)
		}
		leafToHeader[i] = pos[name]
	}

	var rows [][]string
	for _, rg := range pf.RowGroups() {
		if err := ctx.Err(); err != nil {
			return place.Table{}, err
		}
		got, err := readRowGroup(rg, leafToHeader, len(header))
		if err != nil {
			return place.Table{}, domain.NewSourceError(p.Name(), err.Error())
		}
		rows = append(rows, got...)
	}
	return place.Table{Header: header, Rows: rows}, nil
}

func readRowGroup(rg parquet.RowGroup, leafToHeader []int, width int) ([][]string, error) {
	reader := parquet.NewRowGroupReader(rg)
	buf := make([]parquet.Row, 256)
	var out [][]string

	for {
		n, readErr := reader.ReadRows(buf)
		for i := 0; i < n; i++ {
			out = append(out, parquetRowToCells(buf[i], leafToHeader, width))
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("read rows: %w", readErr)
		}
	}
}

func parquetRowToCells(row parquet.Row, leafToHeader []int, width int) []string {
	parts := make([][]string, width)
	for _, v := range row {
		col := v.Column()
		if col < 0 || col >= len(leafToHeader) || leafToHeader[col] < 0 || v.IsNull() {
			continue
		}
		h := leafToHeader[col]
		parts[h] = append(parts[h], v.String())
	}
	cells := make([]string, width)
	for i, p := range parts {
		cells[i] = strings.Join(p, ",")
	}
	return cells
}
