package source

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/kailas-cloud/placesearch/internal/domain"
	"github.com/kailas-cloud/placesearch/internal/domain/place"
)

// Postgres runs a configured query and treats its result set as the table.
// Column names of the result become headers.
type Postgres struct {
	db    *sqlx.DB
	query string
}

// NewPostgres opens a lazily connecting pool; the first Fetch or Ping dials.
func NewPostgres(dsn, query string) (*Postgres, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxIdleTime(2 * time.Minute)
	return &Postgres{db: db, query: query}, nil
}

// Name identifies the driver in logs and metrics.
func (p *Postgres) Name() string { return "postgres" }

// Ping checks database availability.
func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return domain.NewSourceError(p.Name(), err.Error())
	}
	return nil
}

// Close releases the pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// Fetch runs the query.
func (p *Postgres) Fetch(ctx context.Context) (place.Table, error) {
	rows, err := p.db.QueryxContext(ctx, p.query)
	if err != nil {
		return place.Table{}, domain.NewSourceError(p.Name(), err.Error())
	}
	defer func() { _ = rows.Close() }()

	header, err := rows.Columns()
	if err != nil {
		return place.Table{}, domain.NewSourceError(p.Name(), fmt.Sprintf("columns: %v", err))
	}

	var out [][]string
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return place.Table{}, domain.NewSourceError(p.Name(), fmt.Sprintf("scan: %v", err))
		}
		cells := make([]string, len(vals))
		for i, v := range vals {
			cells[i] = sqlCellString(v)
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return place.Table{}, domain.NewSourceError(p.Name(), err.Error())
	}
	return place.Table{Header: header, Rows: out}, nil
}

func sqlCellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
