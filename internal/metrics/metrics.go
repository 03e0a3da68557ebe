// Package metrics содержит метрики Prometheus: HTTP и решения по предложениям.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Общие HTTP-метрики
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Доменные метрики
var (
	bidDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenders_bid_decisions_total",
			Help: "Bid approve evaluations by outcome.",
		},
		[]string{"outcome"},
	)

	tenderClosures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenders_tender_closures_total",
			Help: "Tender closures by cause.",
		},
		[]string{"cause"},
	)
)

// Причины закрытия тендера
const (
	CauseManual   = "manual"
	CauseApproval = "approval"
)

// Register регистрирует все метрики в реестре.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		httpInFlight, httpRequestsTotal, httpRequestDuration, bidDecisions, tenderClosures,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler отдаёт метрики из реестра.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// BidDecision учитывает итог оценки кворума.
func BidDecision(outcome string) {
	bidDecisions.WithLabelValues(outcome).Inc()
}

// TenderClosed учитывает закрытие тендера.
func TenderClosed(cause string) {
	tenderClosures.WithLabelValues(cause).Inc()
}

// Instrument меряет RPS, latency и запросы в полёте. Метка route - шаблон маршрута chi.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := strconv.Itoa(sw.code)
		httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
