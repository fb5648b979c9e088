package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build independent instances.
type Metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	entryLogs      *prometheus.CounterVec
	journalUpdates prometheus.Counter
}

func New() *Metrics {
	metrics := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streaky_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "streaky_http_request_duration_seconds",
				Help:    "Request duration seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		entryLogs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streaky_entry_logs_total",
				Help: "Entries logged, split by whether a journal was supplied",
			},
			[]string{"journal"},
		),
		journalUpdates: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "streaky_journal_updates_total",
				Help: "Journal replacements on existing entries",
			},
		),
	}

	metrics.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.requests,
		metrics.duration,
		metrics.entryLogs,
		metrics.journalUpdates,
	)
	return metrics
}

func (metrics *Metrics) ObserveRequest(method string, path string, status int, elapsed time.Duration) {
	metrics.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	metrics.duration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (metrics *Metrics) EntryLogged(withJournal bool) {
	metrics.entryLogs.WithLabelValues(strconv.FormatBool(withJournal)).Inc()
}

func (metrics *Metrics) JournalUpdated() {
	metrics.journalUpdates.Inc()
}

func (metrics *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{})
}
