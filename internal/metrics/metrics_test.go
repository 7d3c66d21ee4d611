package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gathered returns every sample value keyed by metric name plus its label
// values.
func gathered(t *testing.T, m *Metrics) map[string]float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)

	out := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			key := f.GetName()
			for _, l := range metric.GetLabel() {
				key += "/" + l.GetValue()
			}
			switch {
			case metric.GetCounter() != nil:
				out[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				out[key] = metric.GetGauge().GetValue()
			}
		}
	}
	return out
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveValidation()
		m.ObserveSyntaxErrors(3)
		m.ObserveRecognizerFailure()
		m.ObserveCompletion()
		m.ObserveSchemaRefresh(RefreshOK, 2)
	})
	assert.Nil(t, m.Registry())
}

func TestCounters(t *testing.T) {
	m := New(nil)

	m.ObserveValidation()
	m.ObserveValidation()
	m.ObserveSyntaxErrors(2)
	m.ObserveSyntaxErrors(0)
	m.ObserveSchemaRefresh(RefreshOK, 4)
	m.ObserveSchemaRefresh(RefreshError, 0)

	got := gathered(t, m)
	assert.Equal(t, 2.0, got["esql_validations_total"])
	assert.Equal(t, 2.0, got["esql_syntax_errors_total"])
	assert.Equal(t, 1.0, got["esql_schema_refresh_total/ok"])
	assert.Equal(t, 1.0, got["esql_schema_refresh_total/error"])
	assert.Equal(t, 4.0, got["esql_schema_indices"])
}

func TestHandler(t *testing.T) {
	m := New(nil)
	m.ObserveCompletion()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "esql_completions_total 1"))
}
