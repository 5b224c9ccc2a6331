package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OldStager01/f1-predictor/internal/logger"
)

var latencyBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}

type Metrics struct {
	registry *prometheus.Registry

	// Prediction path
	predictionsTotal  prometheus.Counter
	predictionRows    prometheus.Counter
	predictionErrors  *prometheus.CounterVec
	predictionLatency prometheus.Histogram

	// Model lifecycle
	modelLoaded  prometheus.Gauge
	modelReloads *prometheus.CounterVec

	// Collection pipeline
	collectionsTotal  *prometheus.CounterVec
	collectionLatency prometheus.Histogram

	// Preprocessing quality
	transformWarnings *prometheus.CounterVec

	// Transport
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	wsClients    prometheus.Gauge

	circuitBreakerState *prometheus.GaugeVec
}

var (
	instance *Metrics
	once     sync.Once
)

func Get() *Metrics {
	once.Do(func() {
		registry := prometheus.NewRegistry()
		auto := promauto.With(registry)

		instance = &Metrics{
			registry: registry,

			predictionsTotal: auto.NewCounter(prometheus.CounterOpts{
				Namespace: "predictor",
				Name:      "predictions_total",
				Help:      "Total number of prediction requests served successfully",
			}),
			predictionRows: auto.NewCounter(prometheus.CounterOpts{
				Namespace: "predictor",
				Name:      "prediction_rows_total",
				Help:      "Total number of rows scored across all prediction requests",
			}),
			predictionErrors: auto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "predictor",
				Name:      "prediction_errors_total",
				Help:      "Total number of rejected prediction requests by error kind",
			}, []string{"kind"}),
			predictionLatency: auto.NewHistogram(prometheus.HistogramOpts{
				Namespace: "predictor",
				Name:      "prediction_latency_ms",
				Help:      "End-to-end prediction latency in milliseconds",
				Buckets:   latencyBuckets,
			}),

			modelLoaded: auto.NewGauge(prometheus.GaugeOpts{
				Namespace: "predictor",
				Name:      "model_loaded",
				Help:      "1 when a model artifact is loaded and serving, 0 otherwise",
			}),
			modelReloads: auto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "predictor",
				Name:      "model_reloads_total",
				Help:      "Total number of model reload attempts by outcome",
			}, []string{"outcome"}),

			collectionsTotal: auto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "predictor",
				Name:      "collections_total",
				Help:      "Total number of session collection runs by outcome",
			}, []string{"outcome"}),
			collectionLatency: auto.NewHistogram(prometheus.HistogramOpts{
				Namespace: "predictor",
				Name:      "collection_latency_ms",
				Help:      "Session collection latency in milliseconds",
				Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
			}),

			transformWarnings: auto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "predictor",
				Name:      "transform_warnings_total",
				Help:      "Total number of preprocessing warnings by code",
			}, []string{"code"}),

			httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "predictor",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by path, method and status",
			}, []string{"path", "method", "status"}),
			httpLatency: auto.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "predictor",
				Name:      "http_request_duration_ms",
				Help:      "HTTP request duration in milliseconds",
				Buckets:   latencyBuckets,
			}, []string{"path", "method"}),
			wsClients: auto.NewGauge(prometheus.GaugeOpts{
				Namespace: "predictor",
				Name:      "ws_clients",
				Help:      "Current number of connected websocket clients",
			}),

			circuitBreakerState: auto.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "predictor",
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state: 0=closed, 1=open, 2=half-open",
			}, []string{"name"}),
		}
	})
	return instance
}

func (m *Metrics) IncPredictions() {
	m.predictionsTotal.Inc()
}

func (m *Metrics) AddPredictionRows(n int) {
	m.predictionRows.Add(float64(n))
}

func (m *Metrics) IncPredictionError(kind string) {
	m.predictionErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObservePredictionLatency(d time.Duration) {
	m.predictionLatency.Observe(float64(d.Microseconds()) / 1000.0)
}

func (m *Metrics) SetModelLoaded(loaded bool) {
	if loaded {
		m.modelLoaded.Set(1)
	} else {
		m.modelLoaded.Set(0)
	}
}

func (m *Metrics) IncModelReload(outcome string) {
	m.modelReloads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncCollection(outcome string) {
	m.collectionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCollectionLatency(d time.Duration) {
	m.collectionLatency.Observe(float64(d.Microseconds()) / 1000.0)
}

func (m *Metrics) IncTransformWarning(code string) {
	m.transformWarnings.WithLabelValues(code).Inc()
}

func (m *Metrics) IncHTTPRequest(path, method string, status int) {
	m.httpRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObserveHTTPLatency(path, method string, d time.Duration) {
	m.httpLatency.WithLabelValues(path, method).Observe(float64(d.Microseconds()) / 1000.0)
}

func (m *Metrics) SetWSClients(count int) {
	m.wsClients.Set(float64(count))
}

func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.circuitBreakerState.WithLabelValues(name).Set(float64(state))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func StartServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Get().Handler())

	addr := ":" + strconv.Itoa(port)
	logger.WithComponent("metrics").Infof("Prometheus server listening on %s", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.WithComponent("metrics").Errorf("Prometheus server error: %v", err)
		}
	}()
}
