package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestCounters(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		ResultsSharedTotal.Inc()
		ShareRejectionsTotal.Inc()
		ListQueriesTotal.Inc()
	})
}

func TestUpdateStoredResults(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name  string
		count float64
	}{
		{
			name:  "empty store",
			count: 0,
		},
		{
			name:  "populated store",
			count: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateStoredResults(tt.count)
			})
		})
	}
}

func TestRecordArchiveSweep(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordArchiveExport()
		RecordArchiveSweep(3)
	})
}

func TestDurationHistograms(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		ShareDuration.Observe(0.02)
		ListDuration.Observe(0.5)
	})
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}

func BenchmarkResultsShared(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		ResultsSharedTotal.Inc()
	}
}
