// Package gazetteer loads the suburb/postcode lookup table.
package gazetteer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kailas-cloud/placesearch/internal/domain/geo"
	"github.com/kailas-cloud/placesearch/internal/domain/place"
	"github.com/kailas-cloud/placesearch/internal/domain/postcode"
)

// record is one gazetteer entry as published: postcodes and coordinates
// appear both as JSON numbers and as strings.
type record struct {
	Suburb   string    `json:"sub"`
	Postcode flexValue `json:"pc"`
	Lat      flexValue `json:"lat"`
	Lng      flexValue `json:"lng"`
}

type flexValue string

func (f *flexValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexValue(n.String())
	return nil
}

// LoadFile reads a JSON array of {sub, pc, lat, lng} records. Entries with
// unusable coordinates are skipped.
func LoadFile(path string) (*postcode.Gazetteer, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read gazetteer %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes gazetteer JSON.
func Parse(data []byte) (*postcode.Gazetteer, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode gazetteer: %w", err)
	}

	entries := make([]postcode.Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, postcode.Entry{
			Suburb:   strings.TrimSpace(r.Suburb),
			Postcode: padPostcode(strings.TrimSpace(string(r.Postcode))),
			Point: geo.Point{
				Lat: place.ParseCoordinate(string(r.Lat)),
				Lon: place.ParseCoordinate(string(r.Lng)),
			},
		})
	}
	return postcode.NewGazetteer(entries), nil
}

// padPostcode restores leading zeros lost when a four-digit postcode was
// exported as a number (800 -> 0800).
func padPostcode(pc string) string {
	if _, err := strconv.Atoi(pc); err == nil && len(pc) < 4 {
		return strings.Repeat("0", 4-len(pc)) + pc
	}
	return pc
}
