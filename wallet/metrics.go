package wallet

import (
	"github.com/kasparovwallet/kasparov/utxoset"
	"github.com/kasparovwallet/kasparov/walletevents"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus gauges SPEC_FULL.md's domain-stack wiring
// assigns to the wallet package: balance, blue-score, and confirmed-UTXO
// counts, updated from the same balance-update/blue-score-changed events a
// UI would subscribe to.
type Metrics struct {
	confirmedBalance prometheus.Gauge
	pendingBalance   prometheus.Gauge
	confirmedUtxos   prometheus.Gauge
	blueScore        prometheus.Gauge
}

// NewMetrics constructs and registers the wallet's gauges against reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		confirmedBalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kasparov",
			Subsystem: "wallet",
			Name:      "confirmed_balance_sompi",
			Help:      "Confirmed wallet balance in sompi.",
		}),
		pendingBalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kasparov",
			Subsystem: "wallet",
			Name:      "pending_balance_sompi",
			Help:      "Pending (immature) wallet balance in sompi.",
		}),
		confirmedUtxos: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kasparov",
			Subsystem: "wallet",
			Name:      "confirmed_utxos",
			Help:      "Number of confirmed, spendable UTXOs.",
		}),
		blueScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kasparov",
			Subsystem: "wallet",
			Name:      "blue_score",
			Help:      "Last observed virtual selected parent blue score.",
		}),
	}

	for _, c := range []prometheus.Collector{m.confirmedBalance, m.pendingBalance, m.confirmedUtxos, m.blueScore} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Attach subscribes the gauges to the wallet's event bus so they track
// balance-update and blue-score-changed emissions for the lifetime of bus.
func (m *Metrics) Attach(bus *walletevents.Bus) {
	bus.Subscribe(walletevents.BalanceUpdate, func(ev walletevents.Event) {
		payload, ok := ev.Payload.(utxoset.BalancePayload)
		if !ok {
			return
		}
		m.confirmedBalance.Set(float64(payload.ConfirmedTotal))
		m.pendingBalance.Set(float64(payload.PendingTotal))
		m.confirmedUtxos.Set(float64(payload.ConfirmedUtxosCount))
	})
	bus.Subscribe(walletevents.BlueScoreChanged, func(ev walletevents.Event) {
		score, ok := ev.Payload.(uint64)
		if !ok {
			return
		}
		m.blueScore.Set(float64(score))
	})
}
