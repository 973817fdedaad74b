// Package walletevents implements the typed publish-subscribe bus described
// in spec.md §9: "the source uses a runtime-typed emitter with symbol-keyed
// balance slots. Reimplement as a typed publish-subscribe with an
// enumerated event set and explicit listener handles for unregistration."
package walletevents

import (
	"sort"
	"sync"
)

// Kind enumerates every event the wallet orchestrator emits (spec.md §6).
type Kind string

const (
	APIConnect       Kind = "api-connect"
	APIDisconnect    Kind = "api-disconnect"
	SyncStart        Kind = "sync-start"
	SyncFinish       Kind = "sync-finish"
	Ready            Kind = "ready"
	BalanceUpdate    Kind = "balance-update"
	BlueScoreChanged Kind = "blue-score-changed"
	NewAddress       Kind = "new-address"
	StateUpdate      Kind = "state-update"
	DebugInfo        Kind = "debug-info"
)

// allKinds lists every Kind above, for consumers (WSBridge) that need to
// subscribe to the whole event set rather than one kind at a time.
var allKinds = []Kind{
	APIConnect, APIDisconnect, SyncStart, SyncFinish, Ready,
	BalanceUpdate, BlueScoreChanged, NewAddress, StateUpdate, DebugInfo,
}

// Event is one emission: a kind plus whatever payload that kind carries
// (e.g. a utxoset.BalancePayload for both Ready and BalanceUpdate).
type Event struct {
	Kind    Kind
	Payload interface{}
}

// Handle identifies a registered listener so it can be individually
// unsubscribed without tearing down the whole bus, mirroring the SubPromise
// uid the spec's RPC layer uses for the same purpose (spec.md §6).
type Handle struct {
	kind Kind
	id   uint64
}

// Bus is a minimal in-process event bus: one goroutine's worth of listeners
// per Kind, invoked synchronously and in registration order on Emit. The
// wallet orchestrator is itself single-executor (spec.md §5), so Emit is not
// expected to be called concurrently with itself, but Subscribe/Unsubscribe
// are safe to call from anywhere.
type Bus struct {
	mu        sync.Mutex
	listeners map[Kind]map[uint64]func(Event)
	nextID    uint64
}

// NewBus constructs an empty event bus.
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[Kind]map[uint64]func(Event)),
	}
}

// Subscribe registers fn to be called for every event of the given kind,
// returning a Handle that Unsubscribe accepts.
func (b *Bus) Subscribe(kind Kind, fn func(Event)) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID

	if b.listeners[kind] == nil {
		b.listeners[kind] = make(map[uint64]func(Event))
	}
	b.listeners[kind][id] = fn

	return Handle{kind: kind, id: id}
}

// Unsubscribe removes a previously registered listener. It is a no-op if
// the handle was already unsubscribed.
func (b *Bus) Unsubscribe(h Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.listeners[h.kind], h.id)
}

// Emit synchronously invokes every listener registered for kind, in
// registration order, with the given payload.
func (b *Bus) Emit(kind Kind, payload interface{}) {
	b.mu.Lock()
	ids := make([]uint64, 0, len(b.listeners[kind]))
	for id := range b.listeners[kind] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.listeners[kind][id])
	}
	b.mu.Unlock()

	ev := Event{Kind: kind, Payload: payload}
	for _, fn := range fns {
		fn(ev)
	}
}
