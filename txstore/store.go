// Package txstore implements the append-only transaction log of spec.md
// §4.5: locally originated and observed transactions, keyed by txid,
// persisted through an opaque storage adapter and replayed on restore.
package txstore

import (
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/kasparovwallet/kasparov/walletevents"
)

// Direction distinguishes a transaction's effect on this wallet's balance.
type Direction string

const (
	// DirectionIn is a transaction that credits the wallet.
	DirectionIn Direction = "in"
	// DirectionOut is a transaction the wallet itself originated.
	DirectionOut Direction = "out"
)

// WireTx is the RPC wire-shape transaction stored alongside each entry, kept
// as an opaque blob here (the shape is owned by the txbuilder/rpcclient
// packages).
type WireTx = interface{}

// Entry is one record in the store (spec.md §4.5).
type Entry struct {
	Direction           Direction
	Timestamp           time.Time
	TxID                string
	Amount              uint64
	CounterpartyAddress string
	Note                string
	BlueScore           uint64
	Tx                  WireTx
	SelfTransfer        bool
}

// Adapter is the opaque persistence hook described in spec.md §6: the store
// itself has no opinion on what backs it (file, KV store, in-memory).
type Adapter interface {
	// Save persists the full set of entries known to the store.
	Save(entries []*Entry) error
	// Load returns the persisted entries, or an empty slice if nothing
	// has been saved yet.
	Load() ([]*Entry, error)
}

// Store is the in-memory, txid-keyed transaction log.
type Store struct {
	mu sync.RWMutex

	adapter Adapter
	bus     *walletevents.Bus

	byTxID map[string]*Entry
	order  []string
}

// New constructs a Store backed by the given adapter and event bus.
func New(adapter Adapter, bus *walletevents.Bus) *Store {
	return &Store{
		adapter: adapter,
		bus:     bus,
		byTxID:  make(map[string]*Entry),
	}
}

// Append records a new entry, overwriting any existing entry with the same
// txid, and persists the updated log.
func (s *Store) Append(e *Entry) error {
	s.mu.Lock()
	if _, exists := s.byTxID[e.TxID]; !exists {
		s.order = append(s.order, e.TxID)
	}
	s.byTxID[e.TxID] = e
	entries := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.adapter.Save(entries); err != nil {
		txstoreLog.Errorf("failed to persist tx store: %v", err)
		return err
	}

	if s.bus != nil {
		s.bus.Emit(walletevents.StateUpdate, e)
	}
	return nil
}

// Get returns the entry for txid, if any.
func (s *Store) Get(txid string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byTxID[txid]
	return e, ok
}

// All returns every entry in insertion order.
func (s *Store) All() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []*Entry {
	out := make([]*Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byTxID[id])
	}
	return out
}

// Prune removes the entry for txid. Per spec.md §3, entries are otherwise
// never removed except by this explicit user action.
func (s *Store) Prune(txid string) error {
	s.mu.Lock()
	delete(s.byTxID, txid)
	for i, id := range s.order {
		if id == txid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	entries := s.snapshotLocked()
	s.mu.Unlock()

	return s.adapter.Save(entries)
}

// Restore loads persisted entries from the adapter and re-emits each via
// the event bus (spec.md §4.5: "entries are loaded and re-emitted via
// emitTxs").
func (s *Store) Restore() error {
	entries, err := s.adapter.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	for _, e := range entries {
		if _, exists := s.byTxID[e.TxID]; !exists {
			s.order = append(s.order, e.TxID)
		}
		s.byTxID[e.TxID] = e
	}
	s.mu.Unlock()

	if s.bus != nil {
		for _, e := range entries {
			s.bus.Emit(walletevents.StateUpdate, e)
		}
	}

	txstoreLog.Infof("restored %d transaction(s) from persisted store", len(entries))
	return nil
}

var txstoreLog = slog.Disabled

// UseLogger sets the package-wide logger used by Store.
func UseLogger(logger slog.Logger) {
	txstoreLog = logger
}
