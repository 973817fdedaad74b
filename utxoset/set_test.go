package utxoset

import (
	"testing"

	"github.com/kasparovwallet/kasparov/chainparams"
	"github.com/kasparovwallet/kasparov/walletevents"
	"github.com/stretchr/testify/require"
)

func utxo(txid string, index uint32, satoshis, blueScore uint64, coinbase bool) *Utxo {
	return &Utxo{
		Outpoint:       Outpoint{TxID: txid, Index: index},
		Address:        "addr1",
		Satoshis:       satoshis,
		BlockBlueScore: blueScore,
		IsCoinbase:     coinbase,
	}
}

// TestAddClassifiesByMaturityAndKeepsCollectionsDisjoint covers property 1:
// confirmed, pending, and used never share an outpoint.
func TestAddClassifiesByMaturityAndKeepsCollectionsDisjoint(t *testing.T) {
	set := New(&chainparams.TestnetParams, walletevents.NewBus())

	mature := utxo("aaaa", 0, 1000, 0, false)
	immature := utxo("bbbb", 0, 2000, 100, false)
	set.Add([]*Utxo{mature, immature})
	set.UpdateUtxoBalance(100)

	require.Equal(t, uint64(1000), set.ConfirmedBalance())
	require.Equal(t, uint64(2000), set.PendingBalance())
	require.Equal(t, 1, set.ConfirmedCount())

	_, inConfirmed := set.confirmed[immature.Outpoint.String()]
	_, inPending := set.pending[immature.Outpoint.String()]
	require.False(t, inConfirmed)
	require.True(t, inPending)
}

// TestUpdateUtxoBalanceMigratesOnMaturityThreshold covers the blue-score
// driven reclassification: a coinbase output stays pending until the
// chain's blue score reaches its block blue score plus the coinbase
// maturity, then moves to confirmed.
func TestUpdateUtxoBalanceMigratesOnMaturityThreshold(t *testing.T) {
	set := New(&chainparams.TestnetParams, walletevents.NewBus())

	coinbaseOut := utxo("cccc", 0, 5000, 50, true)
	set.Add([]*Utxo{coinbaseOut})
	set.UpdateUtxoBalance(50)
	require.Equal(t, uint64(0), set.ConfirmedBalance())
	require.Equal(t, uint64(5000), set.PendingBalance())

	set.UpdateUtxoBalance(50 + chainparams.TestnetParams.CoinbaseMaturity)
	require.Equal(t, uint64(5000), set.ConfirmedBalance())
	require.Equal(t, uint64(0), set.PendingBalance())
}

// TestAddIsIdempotentAndPreservesUsedMembership covers property 2: re-adding
// an already-known outpoint updates its fields without duplicating it or
// evicting it from `used` if it has already been spent.
func TestAddIsIdempotentAndPreservesUsedMembership(t *testing.T) {
	set := New(&chainparams.TestnetParams, walletevents.NewBus())

	u := utxo("dddd", 0, 1000, 0, false)
	set.Add([]*Utxo{u})
	set.UpdateUsed([]*Utxo{u})
	require.Equal(t, uint64(0), set.ConfirmedBalance())

	// Re-adding the same outpoint (e.g. a duplicate notification) must not
	// resurrect it into confirmed/pending.
	set.Add([]*Utxo{u})
	require.Equal(t, uint64(0), set.ConfirmedBalance())
	require.Equal(t, uint64(0), set.PendingBalance())
	_, stillUsed := set.used[u.Outpoint.String()]
	require.True(t, stillUsed)
}

// TestSelectUtxosInsufficientFunds covers spec.md §8 scenario 2 / property 6:
// selection fails with the exact requested/available figures when the
// confirmed set can't reach the target.
func TestSelectUtxosInsufficientFunds(t *testing.T) {
	set := New(&chainparams.TestnetParams, walletevents.NewBus())
	set.Add([]*Utxo{utxo("eeee", 0, 500, 0, false)})
	set.UpdateUtxoBalance(chainparams.TestnetParams.TxMaturity)

	_, err := set.SelectUtxos(1000)
	require.Error(t, err)

	var insufficient *ErrInsufficientFunds
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, uint64(1000), insufficient.Requested)
	require.Equal(t, uint64(500), insufficient.Available)
}

// TestCollectUtxosRespectsMaxCount covers scenario 7 (compounding): CollectUtxos
// never returns more than maxCount outpoints, largest first.
func TestCollectUtxosRespectsMaxCount(t *testing.T) {
	set := New(&chainparams.TestnetParams, walletevents.NewBus())
	set.Add([]*Utxo{
		utxo("f1", 0, 300, 0, false),
		utxo("f2", 0, 500, 0, false),
		utxo("f3", 0, 100, 0, false),
	})
	set.UpdateUtxoBalance(chainparams.TestnetParams.TxMaturity)

	sel, err := set.CollectUtxos(2)
	require.NoError(t, err)
	require.Len(t, sel.Utxos, 2)
	require.Equal(t, uint64(800), sel.TotalSelected)
	require.Equal(t, uint64(500), sel.Utxos[0].Satoshis)
	require.Equal(t, uint64(300), sel.Utxos[1].Satoshis)
}

// TestAddThenRemoveEmitsOnlyNetBalance covers spec.md §8 scenario 6: an add
// immediately followed by a remove of the same outpoint must not leave the
// balance changed, and, batched under Disable/EnableNotifications, must
// not fire an intermediate balance-update for the transient state; the
// only emission is EnableNotifications' single one, carrying the net zero
// balance.
func TestAddThenRemoveEmitsOnlyNetBalance(t *testing.T) {
	bus := walletevents.NewBus()
	set := New(&chainparams.TestnetParams, bus)

	var updates []BalancePayload
	bus.Subscribe(walletevents.BalanceUpdate, func(ev walletevents.Event) {
		updates = append(updates, ev.Payload.(BalancePayload))
	})

	u := utxo("gggg", 0, 750, 0, false)

	set.DisableNotifications()
	set.Add([]*Utxo{u})
	set.Remove([]Outpoint{u.Outpoint})
	set.EnableNotifications()

	require.Len(t, updates, 1)
	require.Equal(t, uint64(0), updates[0].Total)
	require.Equal(t, uint64(0), set.ConfirmedBalance())
	require.Equal(t, uint64(0), set.PendingBalance())
}

// TestMaybeEmitBalanceDeduplicatesUnchangedTotals covers the dedup guard in
// emitBalanceLocked: two operations that leave the aggregate unchanged only
// produce one emission.
func TestMaybeEmitBalanceDeduplicatesUnchangedTotals(t *testing.T) {
	bus := walletevents.NewBus()
	set := New(&chainparams.TestnetParams, bus)

	var count int
	bus.Subscribe(walletevents.BalanceUpdate, func(walletevents.Event) { count++ })

	u := utxo("hhhh", 0, 900, 0, false)
	set.Add([]*Utxo{u})
	require.Equal(t, 1, count)

	// Re-adding the same outpoint with identical totals must not re-emit.
	set.Add([]*Utxo{u})
	require.Equal(t, 1, count)
}
