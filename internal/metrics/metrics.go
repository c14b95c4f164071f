package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the on-ramp core. All methods are
// nil-receiver safe so tests can pass a nil *Metrics.
type Metrics struct {
	DepositsCreated prometheus.Counter
	AutoAdvances    prometheus.Counter
	GatePollTicks   *prometheus.CounterVec
	KYCTransitions  *prometheus.CounterVec
}

// New registers the on-ramp metrics on the default registry. Call once per
// process.
func New() *Metrics {
	return &Metrics{
		DepositsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onramp_deposits_created_total",
			Help: "Total deposit intents created",
		}),

		AutoAdvances: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onramp_deposit_auto_advances_total",
			Help: "Total lazy pending/confirming to confirmed transitions",
		}),

		GatePollTicks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onramp_gate_poll_ticks_total",
			Help: "Mint gate poll ticks by outcome",
		}, []string{"poller", "outcome"}), // poller: "deposit", "kyc"; outcome: "fetched", "skipped", "stopped", "error"

		KYCTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onramp_kyc_transitions_total",
			Help: "Explicit KYC status writes by resulting status",
		}, []string{"status"}),
	}
}

// IncDepositsCreated records a new deposit intent.
func (m *Metrics) IncDepositsCreated() {
	if m != nil {
		m.DepositsCreated.Inc()
	}
}

// IncAutoAdvances records a read-triggered confirmation.
func (m *Metrics) IncAutoAdvances() {
	if m != nil {
		m.AutoAdvances.Inc()
	}
}

// IncGatePollTick records a mint gate poll tick outcome.
func (m *Metrics) IncGatePollTick(poller, outcome string) {
	if m != nil {
		m.GatePollTicks.WithLabelValues(poller, outcome).Inc()
	}
}

// IncKYCTransition records an explicit KYC status write.
func (m *Metrics) IncKYCTransition(status string) {
	if m != nil {
		m.KYCTransitions.WithLabelValues(status).Inc()
	}
}
