package utxoset

import "fmt"

// ErrInsufficientFunds is returned by SelectUtxos when the confirmed set
// cannot reach the requested amount (spec.md §7).
type ErrInsufficientFunds struct {
	Requested uint64
	Available uint64
}

func (e *ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds: requested %d, only %d confirmed available",
		e.Requested, e.Available)
}

// Selection is the result of a coin-selection pass.
type Selection struct {
	Utxos          []*Utxo
	OutpointIDs    []Outpoint
	TotalSelected  uint64
}

// SelectUtxos greedily selects confirmed utxos largest-first until their sum
// reaches targetAmount (spec.md §4.2 / §8 scenario 2).
func (s *Set) SelectUtxos(targetAmount uint64) (*Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := sortedBySatoshisDesc(s.confirmed)

	var total uint64
	var chosen []*Utxo
	for _, u := range candidates {
		if s.isReservedLocked(u.Outpoint.String()) {
			continue
		}
		chosen = append(chosen, u)
		total += u.Satoshis
		if total >= targetAmount {
			return selectionFrom(chosen, total), nil
		}
	}

	return nil, &ErrInsufficientFunds{Requested: targetAmount, Available: total}
}

// CollectUtxos takes up to maxCount confirmed outpoints, largest-first, for
// compounding (spec.md §4.2 / §8 scenario 7).
func (s *Set) CollectUtxos(maxCount int) (*Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := sortedBySatoshisDesc(s.confirmed)

	var total uint64
	var chosen []*Utxo
	for _, u := range candidates {
		if len(chosen) >= maxCount {
			break
		}
		if s.isReservedLocked(u.Outpoint.String()) {
			continue
		}
		chosen = append(chosen, u)
		total += u.Satoshis
	}

	if len(chosen) == 0 {
		return nil, &ErrInsufficientFunds{Requested: 0, Available: 0}
	}

	return selectionFrom(chosen, total), nil
}

func (s *Set) isReservedLocked(key string) bool {
	for _, k := range s.inUse {
		if k == key {
			return true
		}
	}
	return false
}

func selectionFrom(utxos []*Utxo, total uint64) *Selection {
	ids := make([]Outpoint, len(utxos))
	for i, u := range utxos {
		ids[i] = u.Outpoint
	}
	return &Selection{Utxos: utxos, OutpointIDs: ids, TotalSelected: total}
}
