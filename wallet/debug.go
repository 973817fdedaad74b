package wallet

import (
	"context"
	"time"

	"github.com/kasparovwallet/kasparov/walletevents"
)

// DebugSnapshot is the payload carried by walletevents.DebugInfo: spec.md
// §6 lists debug-info among the emitted events but leaves its contents
// unspecified. This wallet emits a small structured snapshot of sync state,
// blue score, and UTXO balance counts on a timer, the supplemented feature
// SPEC_FULL.md describes, rather than leaving the event a no-op.
type DebugSnapshot struct {
	State            State
	BlueScore        uint64
	ConfirmedCount   int
	ConfirmedBalance uint64
	PendingBalance   uint64
}

// RunDebugSnapshots emits a DebugSnapshot on the bus every interval until
// ctx is canceled. It is a best-effort background loop, not part of the
// core sync lifecycle.
func (w *Wallet) RunDebugSnapshots(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.bus.Emit(walletevents.DebugInfo, w.snapshot())
		}
	}
}

func (w *Wallet) snapshot() DebugSnapshot {
	w.mu.Lock()
	state := w.state
	blueScore := w.blueScore
	w.mu.Unlock()

	balance := w.utxoSet.Balance()
	return DebugSnapshot{
		State:            state,
		BlueScore:        blueScore,
		ConfirmedCount:   balance.ConfirmedUtxosCount,
		ConfirmedBalance: balance.ConfirmedTotal,
		PendingBalance:   balance.PendingTotal,
	}
}
