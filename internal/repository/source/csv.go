package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/placesearch/internal/domain"
	"github.com/kailas-cloud/placesearch/internal/domain/place"
)

// CSV reads a spreadsheet export from disk. The first record is the header.
type CSV struct {
	path string
}

// NewCSV creates a CSV file source.
func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

// Name identifies the driver in logs and metrics.
func (c *CSV) Name() string { return "csv" }

// Fetch reads the whole file.
func (c *CSV) Fetch(ctx context.Context) (place.Table, error) {
	f, err := os.Open(filepath.Clean(c.path))
	if err != nil {
		return place.Table{}, domain.NewSourceError(c.Name(), err.Error())
	}
	defer func() { _ = f.Close() }()

	return readCSV(ctx, f)
}

func readCSV(ctx context.Context, r io.Reader) (place.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return place.Table{}, domain.NewSourceError("csv", "empty file")
		}
		return place.Table{}, domain.NewSourceError("csv", fmt.Sprintf("read header: %v", err))
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return place.Table{}, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return place.Table{}, domain.NewSourceError("csv", fmt.Sprintf("read row: %v", err))
		}
		rows = append(rows, rec)
	}
	return place.Table{Header: header, Rows: rows}, nil
}
