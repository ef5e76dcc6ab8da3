// Package metrics declares the Prometheus collectors exported by practiz.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "practiz"

var (
	// AnswersTotal counts accepted answer submissions.
	// Labels: correct (true, false)
	AnswersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "answers_total",
		Help:      "Accepted answer submissions by correctness",
	}, []string{"correct"})

	// SessionsTotal counts session lifecycle transitions.
	// Labels: action (start, resume, end, reap)
	SessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_total",
		Help:      "Session lifecycle transitions by action",
	}, []string{"action"})

	// SelectionDuration measures one next-item selection.
	SelectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "selection_duration_seconds",
		Help:      "Time spent ranking candidate items",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	})

	// SubmitDuration measures a full answer submission including the commit.
	SubmitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "submit_duration_seconds",
		Help:      "Answer submission latency including persistence",
		Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	// PersistenceFailures counts failed units of work.
	// Labels: op (start, submit, end, goal, reset, reap)
	PersistenceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persistence_failures_total",
		Help:      "Failed transactional units of work by operation",
	}, []string{"op"})

	// EmptyPoolTotal counts selections that found no item in scope.
	EmptyPoolTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "empty_pool_total",
		Help:      "Selections where no item matched the requested scope",
	})
)

// RecordAnswer counts one accepted answer.
func RecordAnswer(correct bool) {
	AnswersTotal.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

// RecordSession counts one lifecycle transition.
func RecordSession(action string) {
	SessionsTotal.WithLabelValues(action).Inc()
}

// ObserveSince records the seconds elapsed since start on h.
func ObserveSince(h prometheus.Observer, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
