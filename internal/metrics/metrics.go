// Package metrics owns the Prometheus collectors of the pet shop.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors. It is separate from the
	// default registry so tests can scrape it in isolation.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "petshop",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petshop",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "petshop",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "route"},
	)

	purchases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petshop",
			Subsystem: "shop",
			Name:      "purchases_total",
			Help:      "Purchase attempts by outcome.",
		},
		[]string{"outcome"},
	)

	coinsSpent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "petshop",
			Subsystem: "shop",
			Name:      "coins_spent_total",
			Help:      "Coins debited by completed purchases.",
		},
	)

	itemUses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petshop",
			Subsystem: "pets",
			Name:      "item_uses_total",
			Help:      "Items applied to pets by item kind.",
		},
		[]string{"kind"},
	)

	feeds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petshop",
			Subsystem: "pets",
			Name:      "feeds_total",
			Help:      "Feeding attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		purchases,
		coinsSpent,
		itemUses,
		feeds,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler records request counts and latency labelled by the chi
// route pattern, so path parameters do not explode the label space.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func RecordPurchase(outcome string, coins int) {
	purchases.WithLabelValues(outcome).Inc()
	if coins > 0 {
		coinsSpent.Add(float64(coins))
	}
}

func RecordItemUse(kind string) {
	itemUses.WithLabelValues(kind).Inc()
}

func RecordFeed(outcome string) {
	feeds.WithLabelValues(outcome).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
