package addrmgr

import (
	"testing"

	"github.com/kasparovwallet/kasparov/chainparams"
	"github.com/kasparovwallet/kasparov/internal/addrcodec"
	"github.com/kasparovwallet/kasparov/keychain"
	"github.com/kasparovwallet/kasparov/walletevents"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *walletevents.Bus) {
	t.Helper()

	root, err := keychain.NewRoot([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	codec := addrcodec.New(&chainparams.TestnetParams)
	bus := walletevents.NewBus()
	return New(root, codec, bus), bus
}

// TestNextAdvancesCounterAndCursorTogether covers the cursor<=counter
// contiguity invariant: a plain reservation moves both in lockstep.
func TestNextAdvancesCounterAndCursorTogether(t *testing.T) {
	mgr, _ := newTestManager(t)

	counter, cursor := mgr.Counters(keychain.ReceiveChain)
	require.Equal(t, uint32(0), counter)
	require.Equal(t, uint32(0), cursor)

	addr, err := mgr.Next(keychain.ReceiveChain)
	require.NoError(t, err)
	require.Equal(t, uint32(0), addr.Index)

	counter, cursor = mgr.Counters(keychain.ReceiveChain)
	require.Equal(t, uint32(1), counter)
	require.Equal(t, uint32(1), cursor)
	require.LessOrEqual(t, cursor, counter)
}

// TestAdvanceSkipsAlreadyPastCounter covers Advance's idempotence: advancing
// to an index at or behind the current counter is a no-op, and advancing
// past it only derives (and emits) the newly-reached addresses.
func TestAdvanceSkipsAlreadyPastCounter(t *testing.T) {
	mgr, bus := newTestManager(t)

	var emitted []NewAddressPayload
	bus.Subscribe(walletevents.NewAddress, func(ev walletevents.Event) {
		emitted = append(emitted, ev.Payload.(NewAddressPayload))
	})

	require.NoError(t, mgr.Advance(keychain.ReceiveChain, 3))
	require.Len(t, emitted, 3)

	// Advancing to something at or behind the counter must not re-derive or
	// re-emit anything already reached.
	require.NoError(t, mgr.Advance(keychain.ReceiveChain, 2))
	require.Len(t, emitted, 3)

	counter, cursor := mgr.Counters(keychain.ReceiveChain)
	require.Equal(t, uint32(3), counter)
	require.Equal(t, uint32(3), cursor)

	require.NoError(t, mgr.Advance(keychain.ReceiveChain, 5))
	require.Len(t, emitted, 5)
}

// TestGapLimitDiscoveryLandsOneAfterHighestActive mirrors spec.md's worked
// gap-limit discovery example (scenario 1): scanning a window of candidate
// addresses and finding the highest active index, the chain's counter should
// land one past it, not at the window size.
func TestGapLimitDiscoveryLandsOneAfterHighestActive(t *testing.T) {
	mgr, _ := newTestManager(t)

	const threshold = 20
	const highestActiveIndex = 3

	addrs, err := mgr.GetAddresses(keychain.ReceiveChain, threshold, 0)
	require.NoError(t, err)
	require.Len(t, addrs, threshold)

	// GetAddresses is read-only: it must not move the counter/cursor.
	counter, cursor := mgr.Counters(keychain.ReceiveChain)
	require.Equal(t, uint32(0), counter)
	require.Equal(t, uint32(0), cursor)

	require.NoError(t, mgr.Advance(keychain.ReceiveChain, highestActiveIndex+1))

	counter, cursor = mgr.Counters(keychain.ReceiveChain)
	require.Equal(t, uint32(highestActiveIndex+1), counter)
	require.Equal(t, uint32(highestActiveIndex+1), cursor)
}

// TestReverseRollsBackChangeReservation covers the change-address rollback
// path a failed transaction build relies on.
func TestReverseRollsBackChangeReservation(t *testing.T) {
	mgr, _ := newTestManager(t)

	first, err := mgr.Next(keychain.ChangeChain)
	require.NoError(t, err)

	mgr.Reverse(keychain.ChangeChain)

	counter, cursor := mgr.Counters(keychain.ChangeChain)
	require.Equal(t, uint32(0), counter)
	require.Equal(t, uint32(0), cursor)

	second, err := mgr.Next(keychain.ChangeChain)
	require.NoError(t, err)
	require.Equal(t, first.AddressStr, second.AddressStr)
}

// TestIsOurAndChainsAreDisjoint covers that an address derived on one chain
// is never mistaken for the other.
func TestIsOurAndChainsAreDisjoint(t *testing.T) {
	mgr, _ := newTestManager(t)

	receiveAddr, err := mgr.Next(keychain.ReceiveChain)
	require.NoError(t, err)
	changeAddr, err := mgr.Next(keychain.ChangeChain)
	require.NoError(t, err)

	require.True(t, mgr.IsOur(receiveAddr.AddressStr))
	require.True(t, mgr.IsOur(changeAddr.AddressStr))
	require.NotEqual(t, receiveAddr.AddressStr, changeAddr.AddressStr)
	require.False(t, mgr.IsOur("not-a-derived-address"))
}
