package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	Applied   = "applied"
	Ignored   = "ignored"
	Completed = "completed"
)

var (
	SessionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "yahtzee_sessions_created_total",
			Help: "Game sessions started",
		},
	)
	LiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "yahtzee_live_sessions",
			Help: "Game sessions currently held in the registry",
		},
	)
	Rolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yahtzee_rolls_total",
			Help: "Roll requests by outcome",
		},
		[]string{"outcome"},
	)
	Marks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yahtzee_marks_total",
			Help: "Mark requests by outcome",
		},
		[]string{"outcome"},
	)
	FinalScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yahtzee_final_score",
			Help:    "Total of each archived scorecard",
			Buckets: prometheus.LinearBuckets(50, 50, 12),
		},
	)
	ArchiveErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yahtzee_archive_errors_total",
			Help: "Archive backend failures by operation",
		},
		[]string{"op"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route pattern, method and status",
		},
		[]string{"route", "method", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(SessionsCreated)
	prometheus.MustRegister(LiveSessions)
	prometheus.MustRegister(Rolls)
	prometheus.MustRegister(Marks)
	prometheus.MustRegister(FinalScores)
	prometheus.MustRegister(ArchiveErrors)
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPDuration)
}
