// Package keychain implements the HD derivation described by spec.md §4.1:
// a fixed BIP44-style path, rooted once per wallet, handing out per-index
// private keys and public keys on demand. It is grounded on the same
// github.com/decred/dcrd/hdkeychain tree-walk the teacher's test harness
// uses in rpctest/memwallet.go (hdRoot.Child(index).SerializedPrivKey()),
// generalized from a single flat index space into the two-chain,
// purpose/coin/account-scoped path the spec requires.
package keychain

import (
	"github.com/decred/dcrd/chaincfg/v3"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/hdkeychain/v3"
)

// Chain distinguishes the receive and change derivation branches.
type Chain uint32

const (
	// ReceiveChain is used for externally-visible deposit addresses.
	ReceiveChain Chain = 0
	// ChangeChain is used for wallet-internal change outputs.
	ChangeChain Chain = 1
)

const (
	// purpose is the BIP43 purpose field for this wallet's path scheme.
	purpose = 44

	// coinType is the registered coin type used in the derivation path.
	coinType = 972

	// account is the single supported HD account; spec.md explicitly
	// excludes multi-account wallets.
	account = 0

	// uidChain/uidIndex fix the auxiliary path used solely to derive the
	// wallet UID (spec.md §4.1: "m/44'/972'/0'/1'/0'").
	uidChain = 1
	uidIndex = 0
)

// hardened mirrors hdkeychain.HardenedKeyStart's offset without requiring
// callers outside this package to know about it.
func hardened(index uint32) uint32 {
	return hdkeychain.HardenedKeyStart + index
}

// Root is a derivation root: one master extended key plus the cached
// account-level key m/44'/972'/0'. Per-chain and per-index keys are not
// cached; they are derived from the account key on every call.
type Root struct {
	master *hdkeychain.ExtendedKey

	// accountKey is cached so repeated derivation along receive/change
	// doesn't re-walk the hardened purpose/coin/account prefix every
	// time.
	accountKey *hdkeychain.ExtendedKey
}

// NewRoot derives the wallet's HD root from a BIP39 seed. The seed itself
// (and its mnemonic encoding) is produced by an external collaborator per
// spec.md §1; this package only consumes the resulting entropy.
//
// hdkeychain requires a NetworkParams implementation for the key-version
// bytes it stamps into serialized extended keys; Kaspa has no such
// registration of its own in this dependency, so mainnet Decred parameters
// are used as a fixed, documented stand-in (see DESIGN.md).
func NewRoot(seed []byte) (*Root, error) {
	master, err := hdkeychain.NewMaster(seed, chaincfg.MainNetParams())
	if err != nil {
		return nil, err
	}
	return rootFromMaster(master)
}

// RootFromSerializedPrivKey reconstructs a Root from the base58 string
// SerializedPrivKey produces, the walletexport import path's counterpart to
// NewRoot: it recovers the same master key without needing the original
// BIP39 seed bytes, since that encoder is an external collaborator this
// package never holds onto (spec.md §1).
func RootFromSerializedPrivKey(serialized string) (*Root, error) {
	master, err := hdkeychain.NewKeyFromString(serialized, chaincfg.MainNetParams())
	if err != nil {
		return nil, err
	}
	return rootFromMaster(master)
}

func rootFromMaster(master *hdkeychain.ExtendedKey) (*Root, error) {
	purposeKey, err := master.Child(hardened(purpose))
	if err != nil {
		return nil, err
	}
	coinKey, err := purposeKey.Child(hardened(coinType))
	if err != nil {
		return nil, err
	}
	accountKey, err := coinKey.Child(hardened(account))
	if err != nil {
		return nil, err
	}

	return &Root{master: master, accountKey: accountKey}, nil
}

// chainKey derives the hardened per-chain extended key, m/44'/972'/0'/<chain>'.
func (r *Root) chainKey(chain Chain) (*hdkeychain.ExtendedKey, error) {
	return r.accountKey.Child(hardened(uint32(chain)))
}

// Key is a single derived child: its index, its chain, and the private key
// material it contains.
type Key struct {
	Chain      Chain
	Index      uint32
	PrivateKey *secp256k1.PrivateKey
	PublicKey  *secp256k1.PublicKey
}

// Derive returns the key at m/44'/972'/0'/<chain>'/<index>.
func (r *Root) Derive(chain Chain, index uint32) (*Key, error) {
	chainKey, err := r.chainKey(chain)
	if err != nil {
		return nil, err
	}
	childKey, err := chainKey.Child(index)
	if err != nil {
		return nil, err
	}
	return keyFromExtended(chain, index, childKey)
}

func keyFromExtended(chain Chain, index uint32, ext *hdkeychain.ExtendedKey) (*Key, error) {
	privBytes, err := ext.SerializedPrivKey()
	if err != nil {
		return nil, err
	}
	priv := secp256k1.PrivKeyFromBytes(privBytes)
	return &Key{
		Chain:      chain,
		Index:      index,
		PrivateKey: priv,
		PublicKey:  priv.PubKey(),
	}, nil
}

// UIDKey derives the fixed auxiliary key (m/44'/972'/0'/1'/0') used only to
// compute the wallet's stable UID. Note the trailing hardened index, unlike
// Derive's unhardened m/44'/972'/0'/<chain>'/<index>: a plain Derive(1, 0)
// would land on ChangeChain's first address, a real spendable key, so the
// UID path hardens its final component to keep it out of the address space
// entirely.
func (r *Root) UIDKey() (*Key, error) {
	chainKey, err := r.chainKey(uidChain)
	if err != nil {
		return nil, err
	}
	childKey, err := chainKey.Child(hardened(uidIndex))
	if err != nil {
		return nil, err
	}
	return keyFromExtended(uidChain, uidIndex, childKey)
}

// SerializedPrivKey returns the master extended private key in its standard
// base58-with-checksum encoding, the hdPrivateKey field of spec.md §3's
// DerivationRoot. It is the secret walletexport seals under a password.
func (r *Root) SerializedPrivKey() string {
	return r.master.String()
}
