package observability

import (
	"math/big"

	"github.com/debank-vn/debank-contract/contracts/vndt/vndtconst"
	"github.com/debank-vn/debank-contract/internal/events"
	"github.com/debank-vn/debank-contract/rpc/debank"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "debank"

// Metrics holds Prometheus metrics of the ledger services. It also
// implements events.Observer counting ledger activity.
type Metrics struct {
	events.NopObserver

	// Registry owns the metrics, the /metrics endpoint serves it.
	Registry *prometheus.Registry

	eventsTotal  *prometheus.CounterVec
	volume       *prometheus.CounterVec
	fees         prometheus.Counter
	paused       prometheus.Gauge
	rpcErrors    *prometheus.CounterVec
	rpcDurations *prometheus.HistogramVec
}

// NewMetrics registers all metrics in a new private registry so that it can
// be called more than once.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Contract events observed by type.",
		}, []string{"event"}),
		volume: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "volume_vndt_total",
			Help:      "VNDT moved through the ledger by operation.",
		}, []string{"operation"}),
		fees: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fees_vndt_total",
			Help:      "Transfer fees collected in VNDT.",
		}),
		paused: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "paused",
			Help:      "1 if the ledger is paused.",
		}),
		rpcErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_errors_total",
			Help:      "Failed RPC calls by method.",
		}, []string{"method"}),
		rpcDurations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Duration of RPC calls by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// IncrRPCError increments failed RPC calls counter.
func (m *Metrics) IncrRPCError(method string) {
	m.rpcErrors.WithLabelValues(method).Inc()
}

// ObserveRPC records duration of the RPC call in seconds.
func (m *Metrics) ObserveRPC(method string, seconds float64) {
	m.rpcDurations.WithLabelValues(method).Observe(seconds)
}

// tokens converts integer amount into whole VNDT.
func tokens(amount *big.Int) float64 {
	if amount == nil {
		return 0
	}

	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(amount),
		new(big.Float).SetInt64(vndtconst.DecimalsFactor),
	).Float64()

	return f
}

func (m *Metrics) AccountOpened(*debank.AccountOpenedEvent) {
	m.eventsTotal.WithLabelValues("AccountOpened").Inc()
}

func (m *Metrics) Deposited(e *debank.DepositedEvent) {
	m.eventsTotal.WithLabelValues("Deposited").Inc()
	m.volume.WithLabelValues("deposit").Add(tokens(e.Amount))
}

func (m *Metrics) Withdrawn(e *debank.WithdrawnEvent) {
	m.eventsTotal.WithLabelValues("Withdrawn").Inc()
	m.volume.WithLabelValues("withdraw").Add(tokens(e.Amount))
}

func (m *Metrics) Transferred(e *debank.TransferredEvent) {
	m.eventsTotal.WithLabelValues("Transferred").Inc()
	m.volume.WithLabelValues("transfer").Add(tokens(e.Amount))
	m.fees.Add(tokens(e.Fee))
}

func (m *Metrics) SavingsDeposited(e *debank.SavingsDepositedEvent) {
	m.eventsTotal.WithLabelValues("SavingsDeposited").Inc()
	m.volume.WithLabelValues("savings").Add(tokens(e.Amount))
}

func (m *Metrics) Paused(*debank.PausedEvent) {
	m.eventsTotal.WithLabelValues("Paused").Inc()
	m.paused.Set(1)
}

func (m *Metrics) Unpaused(*debank.UnpausedEvent) {
	m.eventsTotal.WithLabelValues("Unpaused").Inc()
	m.paused.Set(0)
}

func (m *Metrics) VNDTRecovered(e *debank.VNDTRecoveredEvent) {
	m.eventsTotal.WithLabelValues("VNDTRecovered").Inc()
	m.volume.WithLabelValues("recover").Add(tokens(e.Amount))
}
