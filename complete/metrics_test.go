package complete

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/proposal"
	"github.com/teranos/rankd/ranking"
)

func counterValue(t *testing.T, c prometheus.Metric) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestMetrics_Register(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))
	assert.Error(t, m.Register(reg), "double registration fails")

	m.observeRequest(StatusComplete, 3, 0)
	m.ProviderFailed("p", ranking.ReasonPanic)
	m.itemFailed(1)

	families, err := reg.Gather()
	require.NoError(t, err)
	found := make(map[string]bool)
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{
		MetricRequestsTotal, MetricRequestDuration, MetricCandidates,
		MetricItemFailuresTotal, MetricProviderFailuresTotal,
	} {
		assert.True(t, found[name], "missing %s", name)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeRequest(StatusComplete, 1, 0)
		m.ProviderFailed("p", ranking.ReasonError)
		m.itemFailed(2)
	})
}

func TestMetrics_RecordedByEngine(t *testing.T) {
	m := NewMetrics()
	failing := ranking.ProviderFunc{
		ProviderName: "broken",
		Fn: func(context.Context, []proposal.Candidate, proposal.Context) ([]*ranking.Result, error) {
			return nil, errors.New("offline")
		},
	}
	cache, err := NewResponseCache(4)
	require.NoError(t, err)
	e, err := NewEngine(Settings{MaxResults: 1}, Collaborators{}, ranking.NewRegistry(failing), cache, m, nil)
	require.NoError(t, err)

	runCompletion(t, e, Request{}, keyword("a", 1), keyword("b", 2))
	runCompletion(t, e, Request{}, keyword("a", 1))

	assert.Equal(t, 1.0, counterValue(t, m.requests.WithLabelValues(StatusIncomplete)))
	assert.Equal(t, 1.0, counterValue(t, m.requests.WithLabelValues(StatusComplete)))
	assert.Equal(t, 2.0, counterValue(t, m.providerFailures.WithLabelValues("broken", ranking.ReasonError)))
}
