package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/placesearch/internal/domain"
	"github.com/kailas-cloud/placesearch/internal/domain/place"
)

// maxGVizBody caps the response size read from the spreadsheet endpoint.
const maxGVizBody = 64 << 20

// GViz fetches a published spreadsheet through the Google Visualization
// query endpoint.
type GViz struct {
	client  *http.Client
	baseURL string
	key     string
}

// NewGViz creates a spreadsheet source. A nil client gets a timeout-bound default.
func NewGViz(client *http.Client, baseURL, key string, timeout time.Duration) *GViz {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &GViz{client: client, baseURL: baseURL, key: key}
}

// Name identifies the driver in logs and metrics.
func (g *GViz) Name() string { return "gviz" }

// Fetch downloads the first sheet and returns it as a table.
func (g *GViz) Fetch(ctx context.Context) (place.Table, error) {
	u, err := url.Parse(g.baseURL)
	if err != nil {
		return place.Table{}, domain.NewSourceError(g.Name(), fmt.Sprintf("bad url: %v", err))
	}
	q := u.Query()
	q.Set("key", g.key)
	q.Set("tqx", "out:json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return place.Table{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return place.Table{}, domain.NewSourceError(g.Name(), err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return place.Table{}, domain.NewSourceError(g.Name(), fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGVizBody))
	if err != nil {
		return place.Table{}, domain.NewSourceError(g.Name(), fmt.Sprintf("read body: %v", err))
	}
	return parseGViz(body)
}

type gvizResponse struct {
	Status string `json:"status"`
	Errors []struct {
		Reason          string `json:"reason"`
		Message         string `json:"message"`
		DetailedMessage string `json:"detailed_message"`
	} `json:"errors"`
	Table struct {
		Cols []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
			Type  string `json:"type"`
		} `json:"cols"`
		Rows []struct {
			C []*gvizCell `json:"c"`
		} `json:"rows"`
	} `json:"table"`
}

type gvizCell struct {
	V any    `json:"v"`
	F string `json:"f"`
}

func parseGViz(body []byte) (place.Table, error) {
	var resp gvizResponse
	if err := json.Unmarshal(unwrapJSONP(body), &resp); err != nil {
		return place.Table{}, domain.NewSourceError("gviz", fmt.Sprintf("decode response: %v", err))
	}

	if resp.Status == "error" {
		reason := "query failed"
		if len(resp.Errors) > 0 {
			e := resp.Errors[0]
			reason = strings.TrimSpace(e.Message + " " + e.DetailedMessage)
			if reason == "" {
				reason = e.Reason
			}
		}
		return place.Table{}, domain.NewSourceError("gviz", reason)
	}

	cols := resp.Table.Cols
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Label
		if header[i] == "" {
			header[i] = c.ID
		}
	}

	rows := make([][]string, 0, len(resp.Table.Rows))
	for _, r := range resp.Table.Rows {
		row := make([]string, len(cols))
		for i := 0; i < len(cols) && i < len(r.C); i++ {
			row[i] = gvizCellString(r.C[i], cols[i].Type)
		}
		rows = append(rows, row)
	}
	return place.Table{Header: header, Rows: rows}, nil
}

// unwrapJSONP strips a "google.visualization.Query.setResponse(...);" envelope.
func unwrapJSONP(body []byte) []byte {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		return body
	}
	start := bytes.IndexByte(body, '(')
	end := bytes.LastIndexByte(body, ')')
	if start < 0 || end <= start {
		return body
	}
	return body[start+1 : end]
}

func gvizCellString(c *gvizCell, colType string) string {
	if c == nil || c.V == nil {
		return ""
	}
	switch colType {
	case "date", "datetime", "timeofday":
		if c.F != "" {
			return c.F
		}
	}
	switch v := c.V.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return c.F
	}
}
