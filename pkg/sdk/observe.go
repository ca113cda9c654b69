package placesearch

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcome labels.
const (
	outcomeOK      = "ok"
	outcomeEmpty   = "empty"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

// sdkMetrics holds the client's prometheus collectors.
type sdkMetrics struct {
	searches   *prometheus.CounterVec   // mode, outcome
	resultSize *prometheus.HistogramVec // mode
	latency    *prometheus.HistogramVec // operation
	loads      *prometheus.CounterVec   // status
	places     prometheus.Gauge
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "placesearch",
			Subsystem: "sdk",
			Name:      "searches_total",
			Help:      "Searches by mode and outcome (ok, empty, invalid, error).",
		}, []string{"mode", "outcome"}),
		resultSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "placesearch",
			Subsystem: "sdk",
			Name:      "search_result_size",
			Help:      "Places returned per successful search.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"mode"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "placesearch",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "Client operation duration in seconds.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"operation"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "placesearch",
			Subsystem: "sdk",
			Name:      "dataset_loads_total",
			Help:      "Dataset loads by status.",
		}, []string{"status"}),
		places: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "placesearch",
			Subsystem: "sdk",
			Name:      "dataset_places",
			Help:      "Places in the dataset currently served.",
		}),
	}

	for _, err := range []error{
		registerOrReuse(reg, &m.searches),
		registerOrReuse(reg, &m.resultSize),
		registerOrReuse(reg, &m.latency),
		registerOrReuse(reg, &m.loads),
		registerOrReuse(reg, &m.places),
	} {
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// registerOrReuse registers a collector, or swaps in the one already
// registered under the same descriptor so two clients can share a registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("placesearch: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("placesearch: metric already registered as %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer records searches and loads. Both fields are optional.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// searchOutcome classifies a finished search for the outcome label.
func searchOutcome(places int, err error) string {
	switch {
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, ErrUnknownLocation):
		return outcomeInvalid
	case err != nil:
		return outcomeError
	case places == 0:
		return outcomeEmpty
	default:
		return outcomeOK
	}
}

// queryMode is the mode a query asks for; used when the search failed
// before producing a result.
func queryMode(q Query) Mode {
	if q.Origin != nil || q.Location != "" {
		return ModeProximity
	}
	return ModeRegionCategory
}

func (o *observer) search(q Query, res Result, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	mode := res.Mode
	if err != nil || mode == "" {
		mode = queryMode(q)
	}
	outcome := searchOutcome(len(res.Places), err)

	if o.metrics != nil {
		o.metrics.searches.WithLabelValues(string(mode), outcome).Inc()
		o.metrics.latency.WithLabelValues("search").Observe(dur.Seconds())
		if err == nil {
			o.metrics.resultSize.WithLabelValues(string(mode)).Observe(float64(len(res.Places)))
		}
	}

	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("search rejected",
			"mode", mode, "outcome", outcome,
			"category", q.Category, "region", q.Region, "location", q.Location,
			"error", err)
		return
	}
	o.logger.Debug("search completed",
		"mode", mode, "category", res.Category, "region", res.Region,
		"places", len(res.Places), "duration", dur)
}

func (o *observer) load(places int, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		o.metrics.latency.WithLabelValues("reload").Observe(dur.Seconds())
		if err != nil {
			o.metrics.loads.WithLabelValues(outcomeError).Inc()
		} else {
			o.metrics.loads.WithLabelValues(outcomeOK).Inc()
			o.metrics.places.Set(float64(places))
		}
	}

	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Error("dataset load failed, previous dataset kept", "duration", dur, "error", err)
		return
	}
	o.logger.Info("dataset loaded", "places", places, "duration", dur)
}

func (o *observer) lookup(id int, start time.Time, err error) {
	if o == nil {
		return
	}
	if o.metrics != nil {
		o.metrics.latency.WithLabelValues("place").Observe(time.Since(start).Seconds())
	}
	if o.logger != nil && err != nil {
		o.logger.Debug("place lookup failed", "id", id, "error", err)
	}
}
