package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "food_orders"

const (
	ResultOK           = "ok"
	ResultFailed       = "failed"
	ResultDeleteFailed = "delete_failed"
)

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer, service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests.",
		ConstLabels: prometheus.Labels{"service": service},
	}, []string{"route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Name:        "http_request_duration_ms",
		Help:        "HTTP request latency in milliseconds.",
		ConstLabels: prometheus.Labels{"service": service},
		Buckets:     []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

// Middleware records one observation per request, labelled by chi route pattern.
func (m *ServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	})
}

// ListenerMetrics counts payment listener outcomes. A nil *ListenerMetrics
// records nothing.
type ListenerMetrics struct {
	messages       *prometheus.CounterVec
	receiveFailure prometheus.Counter
}

func NewListenerMetrics(reg prometheus.Registerer) *ListenerMetrics {
	messages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "payment_listener",
		Name:      "messages_total",
		Help:      "Payment messages handled, by result.",
	}, []string{"result"})
	receiveFailure := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "payment_listener",
		Name:      "receive_failures_total",
		Help:      "Failed receive calls against the payment queue.",
	})
	reg.MustRegister(messages, receiveFailure)
	return &ListenerMetrics{messages: messages, receiveFailure: receiveFailure}
}

func (m *ListenerMetrics) Handled(result string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(result).Inc()
}

func (m *ListenerMetrics) ReceiveFailed() {
	if m == nil {
		return
	}
	m.receiveFailure.Inc()
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *ListenerMetrics) Messages() *prometheus.CounterVec { return m.messages }

func (m *ListenerMetrics) ReceiveFailures() prometheus.Counter { return m.receiveFailure }
