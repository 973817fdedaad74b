package utxoset

import (
	"sort"
	"sync"

	"github.com/decred/slog"
	"github.com/kasparovwallet/kasparov/chainparams"
	"github.com/kasparovwallet/kasparov/walletevents"
)

// Set is the wallet's view of its spendable coins: the three pairwise
// disjoint keyed collections of spec.md §3, an address index consistent
// with their union, and the in-use reservation list.
type Set struct {
	mu sync.Mutex

	params *chainparams.Params
	bus    *walletevents.Bus

	confirmed map[string]*Utxo
	pending   map[string]*Utxo
	used      map[string]*Utxo

	byAddress map[string]map[string]struct{}
	inUse     []string

	currentBlueScore uint64

	notificationsDisabled bool
	lastConfirmedTotal    uint64
	lastPendingTotal      uint64
	haveLastTotals        bool
}

// New constructs an empty UtxoSet for the given network and event bus.
func New(params *chainparams.Params, bus *walletevents.Bus) *Set {
	return &Set{
		params:    params,
		bus:       bus,
		confirmed: make(map[string]*Utxo),
		pending:   make(map[string]*Utxo),
		used:      make(map[string]*Utxo),
		byAddress: make(map[string]map[string]struct{}),
	}
}

// BalancePayload is the payload carried by walletevents.BalanceUpdate and
// walletevents.Ready alike: spec.md §4.4 describes the wallet orchestrator
// as maintaining "three numbers ... confirmedBalance, pendingBalance,
// total" plus a ready-event confirmedUtxosCount, all derived from this same
// set, so both events share one payload shape rather than duplicating the
// bookkeeping at the wallet layer.
type BalancePayload struct {
	ConfirmedTotal      uint64
	PendingTotal        uint64
	Total               uint64
	ConfirmedUtxosCount int
}

func (s *Set) indexAddress(address, key string) {
	set := s.byAddress[address]
	if set == nil {
		set = make(map[string]struct{})
		s.byAddress[address] = set
	}
	set[key] = struct{}{}
}

func (s *Set) unindexAddress(address, key string) {
	set := s.byAddress[address]
	if set == nil {
		return
	}
	delete(set, key)
	if len(set) == 0 {
		delete(s.byAddress, address)
	}
}

// Add classifies each utxo by maturity and inserts it into confirmed or
// pending, indexed under each utxo's own Address. Re-adding an outpoint already
// known updates its fields but preserves any existing inUse membership
// (spec.md §4.2).
func (s *Set) Add(utxos []*Utxo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(utxos)
	s.maybeEmitBalance()
}

func (s *Set) addLocked(utxos []*Utxo) {
	for _, u := range utxos {
		key := u.Outpoint.String()

		// Preserve used/inUse membership across a re-add: if the
		// outpoint is already in `used`, leave it there.
		if _, ok := s.used[key]; ok {
			s.used[key] = u
			s.indexAddress(u.Address, key)
			continue
		}

		mature := u.isMatureAt(s.currentBlueScore, s.params.Maturity(u.IsCoinbase))
		if mature {
			delete(s.pending, key)
			s.confirmed[key] = u
		} else {
			delete(s.confirmed, key)
			s.pending[key] = u
		}
		s.indexAddress(u.Address, key)

		utxoLog.Debugf("added utxo %s (%d satoshis, mature=%v)", key, u.Satoshis, mature)
	}
}

// Remove deletes the given outpoints from every collection, the address
// index, and the in-use list.
func (s *Set) Remove(outpoints []Outpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(outpoints)
	s.maybeEmitBalance()
}

func (s *Set) removeLocked(outpoints []Outpoint) {
	for _, op := range outpoints {
		key := op.String()

		var addr string
		if u, ok := s.confirmed[key]; ok {
			addr = u.Address
		} else if u, ok := s.pending[key]; ok {
			addr = u.Address
		} else if u, ok := s.used[key]; ok {
			addr = u.Address
		}

		delete(s.confirmed, key)
		delete(s.pending, key)
		delete(s.used, key)
		if addr != "" {
			s.unindexAddress(addr, key)
		}
		s.removeInUse(key)

		utxoLog.Debugf("removed utxo %s", key)
	}
}

func (s *Set) removeInUse(key string) {
	for i, k := range s.inUse {
		if k == key {
			s.inUse = append(s.inUse[:i], s.inUse[i+1:]...)
			return
		}
	}
}

// UpdateUtxoBalance is called on blue-score change: it migrates outpoints
// between confirmed and pending according to the new maturity threshold and
// emits balance-update if the aggregate changed.
func (s *Set) UpdateUtxoBalance(currentBlueScore uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentBlueScore = currentBlueScore

	for key, u := range s.pending {
		if u.isMatureAt(currentBlueScore, s.params.Maturity(u.IsCoinbase)) {
			delete(s.pending, key)
			s.confirmed[key] = u
		}
	}
	for key, u := range s.confirmed {
		if !u.isMatureAt(currentBlueScore, s.params.Maturity(u.IsCoinbase)) {
			delete(s.confirmed, key)
			s.pending[key] = u
		}
	}

	s.maybeEmitBalance()
}

// UpdateUsed moves each utxo from confirmed/pending into used and reserves
// its outpoint in inUse.
func (s *Set) UpdateUsed(utxos []*Utxo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range utxos {
		key := u.Outpoint.String()
		delete(s.confirmed, key)
		delete(s.pending, key)
		s.used[key] = u
		s.inUse = append(s.inUse, key)
	}
	s.maybeEmitBalance()
}

// ClearUsed empties the used collection and the inUse list.
func (s *Set) ClearUsed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, u := range s.used {
		s.unindexAddress(u.Address, key)
	}
	s.used = make(map[string]*Utxo)
	s.inUse = nil
}

// ClearMissing drops confirmed/pending entries whose outpoint is absent
// from the authoritative keep-set, used after a full resync.
func (s *Set) ClearMissing(keep map[Outpoint]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var drop []Outpoint
	for key, u := range s.confirmed {
		if _, ok := keep[u.Outpoint]; !ok {
			drop = append(drop, u.Outpoint)
		}
		_ = key
	}
	for key, u := range s.pending {
		if _, ok := keep[u.Outpoint]; !ok {
			drop = append(drop, u.Outpoint)
		}
		_ = key
	}
	s.removeLocked(drop)
	s.maybeEmitBalance()
}

// DisableNotifications suspends balance-update emission until
// EnableNotifications is called, letting a caller run a batch of
// add/remove calls and emit once at the end (spec.md §4.4).
func (s *Set) DisableNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notificationsDisabled = true
}

// EnableNotifications re-enables emission and immediately emits the
// current balance once.
func (s *Set) EnableNotifications() {
	s.mu.Lock()
	s.notificationsDisabled = false
	s.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitBalanceLocked(true)
}

// maybeEmitBalance emits balance-update unless suppressed, deduplicating
// against the last emitted totals.
func (s *Set) maybeEmitBalance() {
	if s.notificationsDisabled {
		return
	}
	s.emitBalanceLocked(false)
}

func (s *Set) emitBalanceLocked(force bool) {
	confirmed := s.sumLocked(s.confirmed)
	pending := s.sumLocked(s.pending)

	if !force && s.haveLastTotals && confirmed == s.lastConfirmedTotal && pending == s.lastPendingTotal {
		return
	}
	s.lastConfirmedTotal = confirmed
	s.lastPendingTotal = pending
	s.haveLastTotals = true

	if s.bus != nil {
		s.bus.Emit(walletevents.BalanceUpdate, BalancePayload{
			ConfirmedTotal:      confirmed,
			PendingTotal:        pending,
			Total:               confirmed + pending,
			ConfirmedUtxosCount: len(s.confirmed),
		})
	}
}

// Balance returns a point-in-time snapshot of the same totals emitBalance
// would publish, for callers (e.g. the wallet orchestrator's ready event)
// that need the numbers without waiting for a change notification.
func (s *Set) Balance() BalancePayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	confirmed := s.sumLocked(s.confirmed)
	pending := s.sumLocked(s.pending)
	return BalancePayload{
		ConfirmedTotal:      confirmed,
		PendingTotal:        pending,
		Total:               confirmed + pending,
		ConfirmedUtxosCount: len(s.confirmed),
	}
}

func (s *Set) sumLocked(m map[string]*Utxo) uint64 {
	var total uint64
	for _, u := range m {
		total += u.Satoshis
	}
	return total
}

// ConfirmedBalance returns the sum of all confirmed outputs.
func (s *Set) ConfirmedBalance() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumLocked(s.confirmed)
}

// PendingBalance returns the sum of all pending outputs.
func (s *Set) PendingBalance() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumLocked(s.pending)
}

// ConfirmedCount returns the number of confirmed outputs.
func (s *Set) ConfirmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.confirmed)
}

// sortedBySatoshisDesc returns utxos sorted largest-first, with outpoint
// string as a deterministic tiebreak (spec.md §4.2: "Ordering").
func sortedBySatoshisDesc(m map[string]*Utxo) []*Utxo {
	out := make([]*Utxo, 0, len(m))
	for _, u := range m {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Satoshis != out[j].Satoshis {
			return out[i].Satoshis > out[j].Satoshis
		}
		return out[i].Outpoint.String() < out[j].Outpoint.String()
	})
	return out
}

var utxoLog = slog.Disabled

// UseLogger sets the package-wide logger used by Set.
func UseLogger(logger slog.Logger) {
	utxoLog = logger
}
