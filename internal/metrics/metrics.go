package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "babytracker_http_requests_total",
		Help: "HTTP requests served, by method, route and status code",
	},
	[]string{"method", "route", "status"},
)

var EventsWritten = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "babytracker_events_written_total",
		Help: "Successful writes through the API, by event kind and operation",
	},
	[]string{"kind", "op"},
)

var BackfillRecords = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "babytracker_backfill_records_total",
		Help: "Backfill lines processed, by event kind and result",
	},
	[]string{"kind", "result"},
)

func init() {
	prometheus.MustRegister(HTTPRequests, EventsWritten, BackfillRecords)
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
