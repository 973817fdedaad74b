// Package addrcodec provides the default concrete implementation of the
// spec's "cashaddr" address-encoding collaborator (spec.md §1, out of scope
// for the core but required by every component that needs to turn a pubkey
// hash into a human-readable address string). It is built on
// github.com/decred/dcrd/bech32, the teacher's own bech32 dependency,
// network-scoped by chainparams.Params.AddressHRP.
//
// A production Kaspa wallet would swap this for the network's exact cashaddr
// variant; nothing above this package depends on the encoding details, only
// on the Codec interface.
package addrcodec

import (
	"fmt"

	"github.com/decred/dcrd/bech32"
	"github.com/kasparovwallet/kasparov/chainparams"
)

// Kind distinguishes the payload an address commits to.
type Kind byte

const (
	// PubKeyHash addresses commit to the hash of a single public key.
	PubKeyHash Kind = iota
	// ScriptHash addresses commit to the hash of a redeem script.
	ScriptHash
)

// Codec is the external collaborator spec.md §1 calls out: address encoding
// is not this wallet's concern beyond this narrow contract.
type Codec interface {
	Encode(kind Kind, payload []byte) (string, error)
	Decode(address string) (Kind, []byte, error)
}

// bech32Codec is the default Codec, scoped to one network's HRP.
type bech32Codec struct {
	hrp string
}

// New returns the default Codec for the given network.
func New(params *chainparams.Params) Codec {
	return &bech32Codec{hrp: params.AddressHRP}
}

func (c *bech32Codec) Encode(kind Kind, payload []byte) (string, error) {
	data := make([]byte, 0, len(payload)+1)
	data = append(data, byte(kind))
	data = append(data, payload...)

	converted, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("addrcodec: convert bits: %w", err)
	}
	return bech32.Encode(c.hrp, converted)
}

func (c *bech32Codec) Decode(address string) (Kind, []byte, error) {
	hrp, data, err := bech32.Decode(address)
	if err != nil {
		return 0, nil, fmt.Errorf("addrcodec: decode: %w", err)
	}
	if hrp != c.hrp {
		return 0, nil, fmt.Errorf("addrcodec: address is for network "+
			"%q, wallet is configured for %q", hrp, c.hrp)
	}

	converted, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return 0, nil, fmt.Errorf("addrcodec: convert bits: %w", err)
	}
	if len(converted) < 1 {
		return 0, nil, fmt.Errorf("addrcodec: empty address payload")
	}

	return Kind(converted[0]), converted[1:], nil
}
