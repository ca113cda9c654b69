package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search and dataset Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placesearch",
			Name:      "search_queries_total",
			Help:      "Total number of place searches",
		},
		[]string{"mode", "outcome"}, // outcome: ok / empty / invalid
	)

	SearchResultSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "placesearch",
			Name:      "search_result_size",
			Help:      "Number of places returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"mode"},
	)

	DatasetLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placesearch",
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by source driver and status",
		},
		[]string{"driver", "status"},
	)

	DatasetLoadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "placesearch",
			Name:      "dataset_load_duration_seconds",
			Help:      "Dataset load duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"driver"},
	)

	DatasetPlaces = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "placesearch",
			Name:      "dataset_places",
			Help:      "Number of places in the loaded dataset",
		},
	)

	DatasetRowsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "placesearch",
			Name:      "dataset_rows_without_coordinates_total",
			Help:      "Loaded rows whose coordinates could not be parsed",
		},
	)
)

var searchMetricsOnce sync.Once

// RegisterSearchMetrics registers search and dataset metrics with the default
// registry. Safe to call more than once, from any goroutine.
func RegisterSearchMetrics() {
	searchMetricsOnce.Do(func() {
		prometheus.MustRegister(SearchQueriesTotal)
		prometheus.MustRegister(SearchResultSize)
		prometheus.MustRegister(DatasetLoadsTotal)
		prometheus.MustRegister(DatasetLoadDuration)
		prometheus.MustRegister(DatasetPlaces)
		prometheus.MustRegister(DatasetRowsSkipped)
	})
}
