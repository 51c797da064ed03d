package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "disasterai_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "disasterai_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"route"})
	AnalysesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "disasterai_analyses_total",
		Help: "Total document analyses started",
	})
	AnalysisFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "disasterai_analysis_fallbacks_total",
		Help: "Total analyses that returned the fallback result",
	})
	AnalysisDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "disasterai_analysis_duration_ms",
		Help:    "Document analysis duration in milliseconds",
		Buckets: []float64{100, 500, 1000, 2000, 5000, 10000, 30000, 60000},
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "disasterai_cache_hits_total",
		Help: "Total analysis cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "disasterai_cache_misses_total",
		Help: "Total analysis cache misses",
	})
	EventsDetectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "disasterai_events_detected_total",
		Help: "Total disaster events detected by source",
	}, []string{"source"})
	AlertsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "disasterai_alerts_sent_total",
		Help: "Total alerts sent by alert level",
	}, []string{"level"})
	FeedFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "disasterai_feed_fetch_total",
		Help: "External feed fetches by source and outcome",
	}, []string{"source", "outcome"})
	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "disasterai_websocket_clients",
		Help: "Currently connected websocket clients",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(AnalysisFallbacksTotal)
	prometheus.MustRegister(AnalysisDurationMs)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(EventsDetectedTotal)
	prometheus.MustRegister(AlertsSentTotal)
	prometheus.MustRegister(FeedFetchTotal)
	prometheus.MustRegister(WebsocketClients)
}

// Handler exposes every registered metric for Prometheus scrapes.
func Handler() http.Handler { return promhttp.Handler() }
