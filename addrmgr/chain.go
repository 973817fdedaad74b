package addrmgr

import (
	"fmt"
	"sync"

	"github.com/kasparovwallet/kasparov/internal/addrcodec"
	"github.com/kasparovwallet/kasparov/keychain"
)

// addressChain maintains one advancing counter/cursor pair and the
// contiguous run of addresses derived so far, per spec.md §3
// ("AddressChain"). counter is kept as the count of addresses ever
// reserved (equivalently, the next free index); spec.md's own worked
// example in scenario 1 (gap-limit discovery landing on counter==4 after
// the highest active index is 3) only holds under this reading, so it's
// taken as authoritative over the prose's inclusive-looking "[0..counter]"
// phrasing.
type addressChain struct {
	mu sync.RWMutex

	root  *keychain.Root
	codec addrcodec.Codec
	chain keychain.Chain

	counter uint32
	cursor  uint32
	derived []*Address

	byAddress map[string]*Address
}

func newAddressChain(root *keychain.Root, codec addrcodec.Codec, chain keychain.Chain) *addressChain {
	return &addressChain{
		root:      root,
		codec:     codec,
		chain:     chain,
		byAddress: make(map[string]*Address),
	}
}

// ensureDerived derives and caches any addresses in [0, upTo) not yet
// present, without touching counter/cursor.
func (c *addressChain) ensureDerived(upTo uint32) error {
	for uint32(len(c.derived)) < upTo {
		index := uint32(len(c.derived))
		addr, err := deriveAddress(c.root, c.codec, c.chain, index)
		if err != nil {
			return fmt.Errorf("addrmgr: derive index %d: %w", index, err)
		}
		c.derived = append(c.derived, addr)
		c.byAddress[addr.AddressStr] = addr
	}
	return nil
}

// getAddresses returns n addresses starting at offset, deriving any not yet
// cached. It does not move counter or cursor.
func (c *addressChain) getAddresses(n, offset uint32) ([]*Address, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureDerived(offset + n); err != nil {
		return nil, err
	}
	out := make([]*Address, n)
	copy(out, c.derived[offset:offset+n])
	return out, nil
}

// next derives (if needed) and returns the address at the current counter,
// then advances counter and cursor past it.
func (c *addressChain) next() (*Address, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := c.counter
	if err := c.ensureDerived(index + 1); err != nil {
		return nil, err
	}
	addr := c.derived[index]

	c.counter = index + 1
	c.cursor = c.counter

	return addr, nil
}

// advance sets the counter forward unconditionally to n, deriving any
// addresses in between, and moves the cursor to match.
func (c *addressChain) advance(n uint32) ([]*Address, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n <= c.counter {
		return nil, nil
	}

	start := c.counter
	if err := c.ensureDerived(n); err != nil {
		return nil, err
	}

	fresh := make([]*Address, n-start)
	copy(fresh, c.derived[start:n])

	c.counter = n
	c.cursor = n

	return fresh, nil
}

// reverse decrements both the cursor and the counter by one, used to roll
// back a change address reservation after a failed build (spec.md §4.1), so
// the next call to next hands out the same index again.
func (c *addressChain) reverse() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cursor > 0 {
		c.cursor--
	}
	if c.counter > 0 {
		c.counter--
	}
}

// isOur reports whether address was derived on this chain.
func (c *addressChain) isOur(address string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.byAddress[address]
	return ok
}

// counterCursor returns the current (counter, cursor) pair.
func (c *addressChain) counterCursor() (uint32, uint32) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counter, c.cursor
}

// all returns every address derived so far, in index order.
func (c *addressChain) all() []*Address {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Address, len(c.derived))
	copy(out, c.derived)
	return out
}
