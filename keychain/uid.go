package keychain

import (
	"encoding/hex"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// UID computes the wallet's stable identifier from the fixed auxiliary key:
// the chainhash digest of the serialized compressed public key, hex encoded.
// It is stable across restarts (same seed -> same UID). The digest is taken
// over the public key itself, not over an encoded address string, so it
// carries no network prefix and does not depend on the address codec.
func (r *Root) UID() (string, error) {
	key, err := r.UIDKey()
	if err != nil {
		return "", err
	}

	digest := chainhash.HashB(key.PublicKey.SerializeCompressed())
	return hex.EncodeToString(digest[:]), nil
}
