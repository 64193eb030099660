package complete

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricRequestsTotal         = "rankd_completion_requests_total"
	MetricRequestDuration       = "rankd_completion_duration_seconds"
	MetricCandidates            = "rankd_completion_candidates"
	MetricItemFailuresTotal     = "rankd_completion_item_failures_total"
	MetricProviderFailuresTotal = "rankd_ranking_provider_failures_total"
)

// Request outcomes.
const (
	StatusComplete   = "complete"
	StatusIncomplete = "incomplete"
	StatusCanceled   = "canceled"
)

// Metrics holds the completion pipeline collectors. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	requests         *prometheus.CounterVec
	duration         prometheus.Histogram
	candidates       prometheus.Histogram
	itemFailures     prometheus.Counter
	providerFailures *prometheus.CounterVec
}

// NewMetrics creates unregistered collectors; call Register to expose them.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRequestsTotal,
				Help: "Completion requests by outcome",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRequestDuration,
			Help:    "Time from ranking to an assembled completion list",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricCandidates,
			Help:    "Accepted candidates per completion request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		itemFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricItemFailuresTotal,
			Help: "Completion items skipped because they failed to assemble",
		}),
		providerFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricProviderFailuresTotal,
				Help: "Ranking provider results discarded by provider and reason",
			},
			[]string{"provider", "reason"},
		),
	}
}

// Register registers all collectors with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.requests,
		m.duration,
		m.candidates,
		m.itemFailures,
		m.providerFailures,
	}
}

// ProviderFailed satisfies ranking.FailureObserver.
func (m *Metrics) ProviderFailed(provider, reason string) {
	if m == nil {
		return
	}
	m.providerFailures.WithLabelValues(provider, reason).Inc()
}

func (m *Metrics) observeRequest(status string, candidates int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(status).Inc()
	m.candidates.Observe(float64(candidates))
	if status != StatusCanceled {
		m.duration.Observe(elapsed.Seconds())
	}
}

func (m *Metrics) itemFailed(n int) {
	if m == nil || n == 0 {
		return
	}
	m.itemFailures.Add(float64(n))
}
