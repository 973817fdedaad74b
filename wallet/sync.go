package wallet

import (
	"context"

	"github.com/kasparovwallet/kasparov/addrmgr"
	"github.com/kasparovwallet/kasparov/keychain"
	"github.com/kasparovwallet/kasparov/rpcclient"
	"github.com/kasparovwallet/kasparov/utxoset"
	"github.com/kasparovwallet/kasparov/walletevents"
)

// Connect establishes the RPC transport and waits for the connect signal,
// the suspension point every other sync step depends on.
func (w *Wallet) Connect(ctx context.Context) error {
	if err := w.rpc.Connect(ctx); err != nil {
		return err
	}
	return w.awaitConnect(ctx)
}

func (w *Wallet) awaitConnect(ctx context.Context) error {
	w.mu.Lock()
	latch := w.connectLatch
	w.mu.Unlock()

	select {
	case <-latch.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sync drives the lifecycle of spec.md §4.4: await connect, guard against a
// concurrent continuous sync, sync the blue-score, run address discovery,
// subscribe to UTXO changes, and finally emit the steady-state event
// sequence. It does not subscribe to new-address events: addresses derived
// after Sync returns are not scanned for UTXOs or added to the UTXO
// subscription.
//
// syncOnce requests a single pass with no ongoing subscriptions (used for
// one-shot balance checks); otherwise this establishes the long-running
// blue-score and UTXO subscriptions spec.md describes.
func (w *Wallet) Sync(ctx context.Context, syncOnce bool) error {
	if err := w.awaitConnect(ctx); err != nil {
		return err
	}

	w.mu.Lock()
	if w.continuousSyncActive && syncOnce {
		w.mu.Unlock()
		return newErrSyncInProgress()
	}
	if !syncOnce {
		w.continuousSyncActive = true
	}
	w.state = StateSyncing
	w.mu.Unlock()

	w.bus.Emit(walletevents.SyncStart, nil)

	if err := w.initBlueScoreSync(ctx, syncOnce); err != nil {
		walletLog.Errorf("blue-score sync failed, continuing with partial state: %v", err)
	}

	if err := w.addressDiscovery(ctx); err != nil {
		walletLog.Errorf("address discovery failed, continuing with partial state: %v", err)
	}

	if !syncOnce {
		if err := w.subscribeUtxoChanges(ctx); err != nil {
			walletLog.Errorf("utxo subscription failed: %v", err)
		}
	}

	w.mu.Lock()
	w.state = StateSteady
	w.mu.Unlock()

	w.bus.Emit(walletevents.SyncFinish, nil)
	w.emitReady()
	w.emitStoredTxs()

	return nil
}

// initBlueScoreSync fetches the current tip blue-score and, for a
// continuous sync, subscribes to further changes (spec.md §4.4 step 4).
func (w *Wallet) initBlueScoreSync(ctx context.Context, syncOnce bool) error {
	score, err := w.rpc.GetVirtualSelectedParentBlueScore(ctx)
	if err != nil {
		return err
	}
	w.applyBlueScore(score)

	if syncOnce {
		return nil
	}

	sub, err := w.rpc.SubscribeVirtualSelectedParentBlueScoreChanged(func(n rpcclient.BlueScoreChangedNotification) {
		w.applyBlueScore(n.VirtualSelectedParentBlueScore)
		w.bus.Emit(walletevents.BlueScoreChanged, n.VirtualSelectedParentBlueScore)
	})
	if err != nil {
		return err
	}
	if err := sub.Wait(ctx); err != nil {
		return err
	}

	w.mu.Lock()
	w.blueScoreSubUID = sub.UID
	w.mu.Unlock()
	return nil
}

func (w *Wallet) applyBlueScore(score uint64) {
	w.mu.Lock()
	w.blueScore = score
	w.mu.Unlock()

	w.utxoSet.UpdateUtxoBalance(score)
}

// addressDiscovery implements the gap-limit scan of spec.md §4.4: for each
// chain, probe a window of `threshold` fresh indices; if any had UTXOs,
// advance past the highest active index in the window and keep scanning; a
// fully inactive window ends the scan, and the chain's counter advances to
// one past its highest active index.
func (w *Wallet) addressDiscovery(ctx context.Context) error {
	for _, chain := range []keychain.Chain{keychain.ReceiveChain, keychain.ChangeChain} {
		highest, err := w.discoverChain(ctx, chain)
		if err != nil {
			return err
		}
		if err := w.addrMgr.Advance(chain, highest+1); err != nil {
			return err
		}
	}
	return nil
}

// discoverChain returns the highest active index found on the chain, or
// ^uint32(0) (so highest+1 == 0) if no address has ever been active.
func (w *Wallet) discoverChain(ctx context.Context, chain keychain.Chain) (uint32, error) {
	var offset uint32
	var highestActive uint32
	haveActive := false

	for {
		addrs, err := w.addrMgr.GetAddresses(chain, w.gapLimit, offset)
		if err != nil {
			return 0, err
		}

		strs := make([]string, len(addrs))
		byAddr := make(map[string]*addrmgr.Address, len(addrs))
		for i, a := range addrs {
			strs[i] = a.AddressStr
			byAddr[a.AddressStr] = a
		}

		found, err := w.rpc.GetUtxosByAddresses(ctx, strs)
		if err != nil {
			return 0, err
		}

		windowHasActivity := false
		for addrStr, utxos := range found {
			if len(utxos) == 0 {
				continue
			}
			a, ok := byAddr[addrStr]
			if !ok {
				continue
			}
			windowHasActivity = true
			if !haveActive || a.Index > highestActive {
				highestActive = a.Index
			}
			haveActive = true
			w.utxoSet.Add(utxos)
		}

		if !windowHasActivity {
			break
		}
		offset = highestActive + 1
	}

	if !haveActive {
		return ^uint32(0), nil
	}
	return highestActive, nil
}

// subscribeUtxoChanges asks the UTXO set to stream added/removed sets for
// every known address (spec.md §4.2 utxoSubscribe).
func (w *Wallet) subscribeUtxoChanges(ctx context.Context) error {
	var addrs []string
	for _, a := range w.addrMgr.All(keychain.ReceiveChain) {
		addrs = append(addrs, a.AddressStr)
	}
	for _, a := range w.addrMgr.All(keychain.ChangeChain) {
		addrs = append(addrs, a.AddressStr)
	}

	_, err := w.utxoSet.Subscribe(ctx, utxoSubscriberAdapter{w.rpc}, addrs)
	return err
}

// utxoSubscriberAdapter adapts rpcclient.RpcClient to utxoset.Subscriber.
// RpcClient's SubscribeUtxosChanged already returns the channel contract
// utxoset.Subscribe expects, so the call is forwarded unchanged.
type utxoSubscriberAdapter struct {
	rpc rpcclient.RpcClient
}

func (a utxoSubscriberAdapter) SubscribeUtxosChanged(ctx context.Context, addresses []string) (<-chan utxoset.ChangeNotification, func(), error) {
	return a.rpc.SubscribeUtxosChanged(ctx, addresses)
}

// emitReady publishes the steady-state snapshot spec.md §4.4 names
// ("ready{available,pending,total,confirmedUtxosCount}"), followed by a
// balance-update, per spec.md §4.4 step 7. UtxoSet.Balance and
// UtxoSet.Add/UpdateUtxoBalance already own the dedup/aggregation logic
// (utxoset.Set.emitBalanceLocked); the wallet layer only needs to read the
// current snapshot, not re-derive it. new-address is not replayed here:
// addressDiscovery's call to Manager.Advance already emits it exactly once,
// at the moment each address is first derived, so a reconnect resync never
// re-announces addresses a subscriber has already seen.
func (w *Wallet) emitReady() {
	payload := w.utxoSet.Balance()
	w.bus.Emit(walletevents.Ready, payload)
	w.bus.Emit(walletevents.BalanceUpdate, payload)
}

func (w *Wallet) emitStoredTxs() {
	for _, e := range w.store.All() {
		w.bus.Emit(walletevents.StateUpdate, e)
	}
}
