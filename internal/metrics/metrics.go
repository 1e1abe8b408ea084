package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedRoute labels requests no route pattern matched, such as static
// files and 404s, so arbitrary paths never become label values.
const unmatchedRoute = "unmatched"

// Metrics holds the HTTP collectors registered for one server.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	exercisesAdded  prometheus.Counter
	usersCreated    prometheus.Counter
}

// New registers the collectors on a fresh registry, so several servers
// (as in tests) never collide on the global one.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of response latency (seconds) for HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		exercisesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exercise_tracker_exercises_added_total",
			Help: "Total number of exercise entries logged",
		}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exercise_tracker_users_created_total",
			Help: "Total number of users created",
		}),
	}
	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.exercisesAdded,
		m.usersCreated,
		collectors.NewGoCollector(),
	)
	return m
}

// Middleware records request counts and durations by route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// UserCreated counts a newly created user.
func (m *Metrics) UserCreated() {
	m.usersCreated.Inc()
}

// ExerciseAdded counts a newly logged exercise.
func (m *Metrics) ExerciseAdded() {
	m.exercisesAdded.Inc()
}
