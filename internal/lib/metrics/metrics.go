// Package metrics exposes Prometheus collectors for the HTTP layer and
// forum activity.
package metrics

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "askmate"

// Metrics holds Prometheus metrics for the service.
//
// Every instance owns its registry, so several servers (or tests) can live
// in one process without duplicate registration panics.
type Metrics struct {
	Registry *prometheus.Registry

	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	QuestionsCreated prometheus.Counter
	AnswersCreated   prometheus.Counter
	CommentsCreated  prometheus.Counter
	VotesCast        *prometheus.CounterVec
	Registrations    prometheus.Counter
}

// NewMetrics creates a new metrics instance with Go and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		QuestionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forum",
			Name:      "questions_created_total",
			Help:      "Questions posted",
		}),
		AnswersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forum",
			Name:      "answers_created_total",
			Help:      "Answers posted",
		}),
		CommentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forum",
			Name:      "comments_created_total",
			Help:      "Comments posted on questions and answers",
		}),
		VotesCast: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "forum",
				Name:      "votes_total",
				Help:      "Votes cast",
			},
			[]string{"target", "direction"}, // target: question|answer
		),
		Registrations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forum",
			Name:      "registrations_total",
			Help:      "User accounts created",
		}),
	}
}

// RegisterPoolStats publishes pgx pool statistics, read at scrape time.
func (m *Metrics) RegisterPoolStats(pool *pgxpool.Pool) {
	stat := func(name, help string, read func(*pgxpool.Stat) float64) {
		m.Registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db_pool",
				Name:      name,
				Help:      help,
			},
			func() float64 { return read(pool.Stat()) },
		))
	}

	stat("total_conns", "Connections currently open", func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) })
	stat("acquired_conns", "Connections currently in use", func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) })
	stat("idle_conns", "Idle connections", func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) })
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
