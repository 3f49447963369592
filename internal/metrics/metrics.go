package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "najdeno_http_requests_total",
		Help: "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "najdeno_http_request_duration_seconds",
		Help:    "HTTP request duration by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "najdeno_status_transitions_total",
		Help: "Applied lifecycle transitions by entity and edge.",
	}, []string{"entity", "from", "to"})

	notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "najdeno_notifications_total",
		Help: "Outgoing notification attempts by outcome.",
	}, []string{"outcome"})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordTransition counts a successfully applied status transition.
func RecordTransition(entity, from, to string) {
	transitions.WithLabelValues(entity, from, to).Inc()
}

// RecordNotification counts a notification attempt.
func RecordNotification(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	notifications.WithLabelValues(outcome).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware observes request counts and durations. The route label uses the
// matched mux pattern to keep cardinality bounded; unmatched requests fall
// back to a constant.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
