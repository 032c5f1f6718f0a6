package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/research-notebook/pkg/types"
)

func TestObserve(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveDispatch(types.SourceWeb, OutcomeOK, 20*time.Millisecond)
	m.ObserveDispatch(types.SourceWeb, OutcomeOK, 30*time.Millisecond)
	m.ObserveDispatch(types.SourceRAG, OutcomeFailure, time.Second)
	m.ObserveAppend(types.SourcePaperIndex, 3)
	m.Submitted()
	m.Submitted()
	m.Settled()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.dispatches.WithLabelValues("web", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("retrieval-augmented", OutcomeFailure)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.appended.WithLabelValues("paper-index")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inFlight))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDispatch(types.SourceWeb, OutcomeOK, time.Second)
		m.ObserveAppend(types.SourceWeb, 1)
		m.Submitted()
		m.Settled()
	})
}
