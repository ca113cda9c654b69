package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-isatty"

	"github.com/kailas-cloud/placesearch/internal/domain/place"
	"github.com/kailas-cloud/placesearch/internal/domain/search/result"
)

// printer renders command output as an aligned table on a terminal and as
// JSON otherwise, so piped output stays machine-readable.
type printer struct {
	w    io.Writer
	json bool
}

func newPrinter(w io.Writer, forceJSON bool) *printer {
	return &printer{w: w, json: forceJSON || !isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *printer) printJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) printPlaces(res result.Result) error {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	ranked := res.Ranked() != nil

	cols := []string{"ID", "NAME", "CATEGORIES", "REGION"}
	if ranked {
		cols = append(cols, "KM")
	}
	fmt.Fprintln(tw, strings.Join(cols, "\t"))

	for i, pl := range res.Places() {
		row := []string{strconv.Itoa(pl.ID()), pl.Name(), pl.Categories(), pl.Region()}
		if d, ok := res.Distance(i); ok {
			row = append(row, strconv.FormatFloat(d, 'f', 2, 64))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// placeRow is the JSON form of a place in CLI output.
type placeRow struct {
	ID         int               `json:"id"`
	Name       string            `json:"name"`
	Categories []string          `json:"categories"`
	Region     string            `json:"region,omitempty"`
	DistanceKm *float64          `json:"distance_km,omitempty"`
	Fields     map[string]string `json:"fields"`
}

func placesToRows(res result.Result, hide []string) []placeRow {
	hidden := make(map[string]struct{}, len(hide))
	for _, h := range hide {
		hidden[h] = struct{}{}
	}

	rows := make([]placeRow, res.Len())
	for i, pl := range res.Places() {
		rows[i] = placeRow{
			ID:         pl.ID(),
			Name:       pl.Name(),
			Categories: place.SplitTags(pl.Categories()),
			Region:     pl.Region(),
			Fields:     visible(pl, hidden),
		}
		if rows[i].Categories == nil {
			rows[i].Categories = []string{}
		}
		if d, ok := res.Distance(i); ok {
			rows[i].DistanceKm = &d
		}
	}
	return rows
}

func visible(pl place.Place, hidden map[string]struct{}) map[string]string {
	fields := pl.Fields()
	out := make(map[string]string, len(fields))
	for name, v := range fields {
		if _, skip := hidden[name]; skip || v == "" {
			continue
		}
		out[name] = v
	}
	return out
}
