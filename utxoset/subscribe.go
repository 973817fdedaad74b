package utxoset

import "context"

// ChangeNotification is one `added`/`removed` batch as delivered by the RPC
// layer's UtxosChanged stream (spec.md §6).
type ChangeNotification struct {
	Added   []*Utxo
	Removed []Outpoint
}

// Subscriber is the narrow slice of the RPC client this package needs,
// kept local to utxoset so it has no dependency on the concrete rpcclient
// package (which, in turn, doesn't need to know about Utxo at all).
type Subscriber interface {
	SubscribeUtxosChanged(ctx context.Context, addresses []string) (<-chan ChangeNotification, func(), error)
}

// Subscribe asks the RPC layer to stream added/removed sets for the given
// addresses and applies each notification atomically: additions first,
// then removals, so that an add+remove of the same outpoint within one
// notification nets out to a removal (spec.md §5 ordering guarantee, §8
// scenario 6). It returns an unsubscribe function.
func (s *Set) Subscribe(ctx context.Context, sub Subscriber, addresses []string) (func(), error) {
	notifications, unsubscribe, err := sub.SubscribeUtxosChanged(ctx, addresses)
	if err != nil {
		return nil, err
	}

	go func() {
		for n := range notifications {
			s.applyNotification(n)
		}
	}()

	return unsubscribe, nil
}

func (s *Set) applyNotification(n ChangeNotification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(n.Added)
	s.removeLocked(n.Removed)
	s.maybeEmitBalance()
}
