package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "davomat", Name: "http_requests_total", Help: "HTTP requests by route and status",
	}, []string{"route", "status"})
	AggregateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "davomat", Name: "aggregate_duration_seconds", Help: "Full student aggregation latency (fetch + compute)",
		Buckets: prometheus.DefBuckets,
	})
	StaleResultsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "davomat", Name: "stale_results_dropped_total", Help: "Aggregations superseded by a newer request",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "davomat", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, AggregateDuration, StaleResultsDropped, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

func ObserveAggregate(d time.Duration) { AggregateDuration.Observe(d.Seconds()) }
