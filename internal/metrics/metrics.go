// Package metrics holds the prometheus collectors of the language server.
// All recording methods are safe on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "esql"

// Refresh outcomes reported in the result label.
const (
	RefreshOK    = "ok"
	RefreshError = "error"
)

// Metrics is a set of collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	validations        prometheus.Counter
	syntaxErrors       prometheus.Counter
	recognizerFailures prometheus.Counter
	completions        prometheus.Counter
	schemaRefreshes    *prometheus.CounterVec
	schemaIndices      prometheus.Gauge
}

// New registers the collectors on reg. A nil reg gets a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		validations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Total query regions validated",
		}),
		syntaxErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "syntax_errors_total",
			Help:      "Total syntax errors reported",
		}),
		recognizerFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recognizer_failures_total",
			Help:      "Total validations aborted by a recognizer failure",
		}),
		completions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Total completion requests served",
		}),
		schemaRefreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_refresh_total",
			Help:      "Schema refresh cycles by result",
		}, []string{"result"}),
		schemaIndices: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schema_indices",
			Help:      "Indices known to the schema cache",
		}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveValidation() {
	if m == nil {
		return
	}
	m.validations.Inc()
}

func (m *Metrics) ObserveSyntaxErrors(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.syntaxErrors.Add(float64(n))
}

func (m *Metrics) ObserveRecognizerFailure() {
	if m == nil {
		return
	}
	m.recognizerFailures.Inc()
}

func (m *Metrics) ObserveCompletion() {
	if m == nil {
		return
	}
	m.completions.Inc()
}

// ObserveSchemaRefresh records one refresh cycle and, on success, the number
// of indices it produced.
func (m *Metrics) ObserveSchemaRefresh(result string, indices int) {
	if m == nil {
		return
	}
	m.schemaRefreshes.WithLabelValues(result).Inc()
	if result == RefreshOK {
		m.schemaIndices.Set(float64(indices))
	}
}
