package addrmgr

import (
	"github.com/decred/dcrd/chaincfg/v3"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/txscript/v4/stdaddr"
	"github.com/kasparovwallet/kasparov/internal/addrcodec"
	"github.com/kasparovwallet/kasparov/keychain"
)

// netParams fixes the parameter set used to build the underlying p2pkh
// scriptPubKey. Only the script-construction mechanics are borrowed from
// dcrd's txscript/stdaddr package here; the human-readable address string is
// produced by addrcodec, not by stdaddr's own String() method, so this
// choice has no bearing on which Kaspa network the wallet is actually
// talking to (see DESIGN.md).
var netParams = chaincfg.MainNetParams()

// Address is one derived, immutable wallet address (spec.md §3): a fixed HD
// index on a fixed chain, its encoded string form, and the scriptPubKey that
// pays to it.
type Address struct {
	Index        uint32
	Chain        keychain.Chain
	AddressStr   string
	ScriptPubKey []byte
	PubKeyHash   [20]byte

	key *keychain.Key
}

// PrivateKey returns the private key backing this address. The key is
// derived once, when the address is derived, and kept in memory on the
// Address; it is not re-derived on each call.
func (a *Address) PrivateKey() *secp256k1.PrivateKey {
	return a.key.PrivateKey
}

// deriveAddress derives the key at (chain, index), builds its p2pkh
// scriptPubKey, and encodes the address string via the supplied codec. This
// mirrors memwallet.go's keyToAddr, generalized across the two wallet chains
// and the injected address codec.
func deriveAddress(root *keychain.Root, codec addrcodec.Codec, chain keychain.Chain, index uint32) (*Address, error) {
	key, err := root.Derive(chain, index)
	if err != nil {
		return nil, err
	}

	serializedPubKey := key.PublicKey.SerializeCompressed()
	pubKeyAddr, err := stdaddr.NewAddressPubKeyEcdsaSecp256k1V0Raw(serializedPubKey, netParams)
	if err != nil {
		return nil, err
	}
	p2pkh := pubKeyAddr.AddressPubKeyHash()

	hash160 := p2pkh.(stdaddr.Hash160er).Hash160()
	_, script := p2pkh.PaymentScript()

	addrStr, err := codec.Encode(addrcodec.PubKeyHash, hash160[:])
	if err != nil {
		return nil, err
	}

	return &Address{
		Index:        index,
		Chain:        chain,
		AddressStr:   addrStr,
		ScriptPubKey: script,
		PubKeyHash:   hash160,
		key:          key,
	}, nil
}
