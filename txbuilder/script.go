package txbuilder

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/v3"
	"github.com/decred/dcrd/txscript/v4/stdaddr"
	"github.com/kasparovwallet/kasparov/internal/addrcodec"
)

// netParams mirrors addrmgr's choice: only script-construction mechanics are
// borrowed from dcrd here, the human-readable form is produced by the
// injected addrcodec.Codec (see DESIGN.md).
var netParams = chaincfg.MainNetParams()

// scriptPubKeyFor decodes a cashaddr-style address string via codec and
// builds the corresponding P2PKH scriptPubKey, for use as a transaction
// output destination.
func scriptPubKeyFor(codec addrcodec.Codec, address string) ([]byte, error) {
	kind, payload, err := codec.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("txbuilder: decode destination address: %w", err)
	}
	if kind != addrcodec.PubKeyHash {
		return nil, fmt.Errorf("txbuilder: unsupported destination address kind %v", kind)
	}
	if len(payload) != 20 {
		return nil, fmt.Errorf("txbuilder: malformed pubkey hash payload (%d bytes)", len(payload))
	}

	var hash160 [20]byte
	copy(hash160[:], payload)

	addr, err := stdaddr.NewAddressPubKeyHashEcdsaSecp256k1V0(hash160[:], netParams)
	if err != nil {
		return nil, fmt.Errorf("txbuilder: build destination script: %w", err)
	}
	_, script := addr.PaymentScript()
	return script, nil
}
