package transfer

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/adamwoolhether/dlverify/integrity"
)

const namespace = "dlverify"

// Metrics holds the transfer collectors. A nil *Metrics records nothing.
type Metrics struct {
	transfers     *prometheus.CounterVec
	verifications *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	bytes         prometheus.Counter
	attempts      prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transfers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfers_total",
				Help:      "Transfer attempts by fetch strategy and result.",
			},
			[]string{"strategy", "status"},
		),
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verifications_total",
				Help:      "Integrity checks by outcome.",
			},
			[]string{"outcome"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Wall-clock time spent fetching the body.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_total",
			Help:      "Body bytes written to disk.",
		}),
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Transfer attempts started, retries included.",
		}),
	}

	for _, c := range []prometheus.Collector{m.transfers, m.verifications, m.fetchDuration, m.bytes, m.attempts} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering transfer metrics: %w", err)
		}
	}

	return m, nil
}

func (m *Metrics) attempt() {
	if m == nil {
		return
	}
	m.attempts.Inc()
}

func (m *Metrics) fetched(res *Result) {
	if m == nil {
		return
	}
	m.fetchDuration.WithLabelValues(res.Strategy.String()).Observe(res.Elapsed.Seconds())
	m.bytes.Add(float64(res.Written))
}

func (m *Metrics) verified(o integrity.Outcome) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(o.Status.String()).Inc()
}

// finished counts the attempt. strategy is "none" when the probe failed
// before one was chosen.
func (m *Metrics) finished(strategy string, err error) {
	if m == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "failed"
	}
	m.transfers.WithLabelValues(strategy, status).Inc()
}
