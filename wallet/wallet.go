// Package wallet implements the Wallet orchestrator of spec.md §4.4: it
// owns the address manager, UTXO set, transaction builder, and transaction
// store, drives the connect -> sync -> subscribe -> steady lifecycle, and
// bridges RPC events into UTXO/balance updates. Grounded on the teacher's
// own top-level wiring in log.go (one struct threading every subsystem's
// logger together) and on rpctest/memwallet.go's sync-then-serve shape
// (_examples/Abirdcfly-dcrd/rpctest/memwallet.go), generalized from a
// single-pass wallet sync into the spec's resumable, event-driven state
// machine.
package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/decred/slog"
	"github.com/kasparovwallet/kasparov/addrmgr"
	"github.com/kasparovwallet/kasparov/chainparams"
	"github.com/kasparovwallet/kasparov/internal/addrcodec"
	"github.com/kasparovwallet/kasparov/keychain"
	"github.com/kasparovwallet/kasparov/rpcclient"
	"github.com/kasparovwallet/kasparov/txbuilder"
	"github.com/kasparovwallet/kasparov/txstore"
	"github.com/kasparovwallet/kasparov/utxoset"
	"github.com/kasparovwallet/kasparov/walletevents"
)

// State is one phase of the lifecycle spec.md §4.4 names: "Disconnected ->
// Connected -> Syncing -> Steady".
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateSyncing
	StateSteady
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateSyncing:
		return "syncing"
	case StateSteady:
		return "steady"
	default:
		return "unknown"
	}
}

// DefaultGapLimit is the address-discovery gap limit of spec.md §4.4
// ("gap-limit threshold (default 64)").
const DefaultGapLimit = 64

// Config bundles every construction-time dependency of Wallet.
type Config struct {
	Params   *chainparams.Params
	Rpc      rpcclient.RpcClient
	Seed     []byte
	Store    txstore.Adapter
	GapLimit uint32

	// DefaultFeePerByte feeds txbuilder.Config.DefaultFeePerByte.
	DefaultFeePerByte uint64

	// root, when set by Import, takes precedence over deriving one
	// from Seed. Used by the walletexport import path, which recovers a
	// Root from a decrypted serialized private key rather than the
	// original BIP39 seed.
	root *keychain.Root
}

// Wallet is the orchestrator described by spec.md §4.4. It is not safe for
// concurrent use from multiple goroutines calling mutating methods at once;
// spec.md §5 assumes a single logical executor and this implementation
// mirrors that by holding mu for the whole of Send, Compound and
// EstimateSend. Sync takes mu only around its state updates.
type Wallet struct {
	mu sync.Mutex

	params *chainparams.Params
	rpc    rpcclient.RpcClient
	bus    *walletevents.Bus

	root    *keychain.Root
	codec   addrcodec.Codec
	addrMgr *addrmgr.Manager
	utxoSet *utxoset.Set
	builder *txbuilder.Builder
	store   *txstore.Store

	gapLimit uint32

	state         State
	connectLatch  *walletevents.Latch
	blueScore     uint64
	blueScoreSubUID string
	utxoSubUID      string

	continuousSyncActive bool
}

// New constructs a Wallet over the given seed and RPC client, and schedules
// a deferred TxStore.restore() (spec.md §4.4: "On construction, schedule a
// deferred TxStore.restore()").
func New(cfg Config) (*Wallet, error) {
	if cfg.Params == nil {
		return nil, newErrConfiguration("missing network parameters")
	}
	if cfg.Rpc == nil {
		return nil, newErrConfiguration("missing RPC client")
	}
	root := cfg.root
	if root == nil {
		derived, err := keychain.NewRoot(cfg.Seed)
		if err != nil {
			return nil, newErrConfiguration(fmt.Sprintf("derive HD root: %v", err))
		}
		root = derived
	}

	gapLimit := cfg.GapLimit
	if gapLimit == 0 {
		gapLimit = DefaultGapLimit
	}

	bus := walletevents.NewBus()
	codec := addrcodec.New(cfg.Params)
	addrMgr := addrmgr.New(root, codec, bus)
	utxoSet := utxoset.New(cfg.Params, bus)

	adapter := cfg.Store
	if adapter == nil {
		adapter = txstore.NewFileAdapter("")
	}
	store := txstore.New(adapter, bus)

	builder := txbuilder.New(txbuilder.Config{
		UtxoSet:           utxoSet,
		AddrMgr:           addrMgr,
		Codec:             codec,
		Store:             store,
		Rpc:               cfg.Rpc,
		Params:            cfg.Params,
		DefaultFeePerByte: cfg.DefaultFeePerByte,
	})

	w := &Wallet{
		params:       cfg.Params,
		rpc:          cfg.Rpc,
		bus:          bus,
		root:         root,
		codec:        codec,
		addrMgr:      addrMgr,
		utxoSet:      utxoSet,
		builder:      builder,
		store:        store,
		gapLimit:     gapLimit,
		state:        StateDisconnected,
		connectLatch: walletevents.NewLatch(),
	}

	w.rpc.OnConnect(w.handleConnect)
	w.rpc.OnDisconnect(w.handleDisconnect)

	go func() {
		if err := w.store.Restore(); err != nil {
			walletLog.Errorf("failed to restore transaction store: %v", err)
		}
	}()

	return w, nil
}

// Events returns the shared event bus, for consumers to Subscribe to
// spec.md §6's enumerated event set.
func (w *Wallet) Events() *walletevents.Bus { return w.bus }

// AddressManager exposes the address manager for direct chain-scoped
// access (e.g. receive address generation from a CLI command).
func (w *Wallet) AddressManager() *addrmgr.Manager { return w.addrMgr }

// UtxoSet exposes the UTXO set for read-only queries.
func (w *Wallet) UtxoSet() *utxoset.Set { return w.utxoSet }

// TxStore exposes the transaction history store.
func (w *Wallet) TxStore() *txstore.Store { return w.store }

// State reports the wallet's current lifecycle phase.
func (w *Wallet) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// BlueScore reports the last observed tip blue-score.
func (w *Wallet) BlueScore() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.blueScore
}

// UID returns the wallet's stable identifier (spec.md §3).
func (w *Wallet) UID() (string, error) {
	return w.root.UID()
}

// Root exposes the derivation root to callers outside this package. Export
// and Import in this package use the root directly, not through Root.
func (w *Wallet) Root() *keychain.Root { return w.root }

func (w *Wallet) handleConnect() {
	w.mu.Lock()
	w.connectLatch.Settle()
	wasSteady := w.state == StateSteady
	w.state = StateConnected
	w.mu.Unlock()

	w.bus.Emit(walletevents.APIConnect, nil)

	if wasSteady {
		// spec.md §4.4: "if a previous sync completed, restart sync
		// automatically."
		go func() {
			if err := w.Sync(context.Background(), false); err != nil {
				walletLog.Errorf("automatic resync after reconnect failed: %v", err)
			}
		}()
	}
}

func (w *Wallet) handleDisconnect() {
	w.mu.Lock()
	w.connectLatch = walletevents.NewLatch()
	w.state = StateDisconnected
	w.mu.Unlock()

	w.bus.Emit(walletevents.APIDisconnect, nil)
}

var walletLog = slog.Disabled

// UseLogger sets the package-wide logger used by Wallet.
func UseLogger(logger slog.Logger) {
	walletLog = logger
}
