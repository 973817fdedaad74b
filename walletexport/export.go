// Package walletexport implements the persisted-state round-trip of
// spec.md §6: "{privKey, seedPhrase} encrypted with a user-supplied
// password (symmetric, authenticated). The ciphertext is the only durable
// secret." Grounded on the Klingon wallet service's
// EncryptMnemonic/DecryptMnemonic/SaveEncryptedSeed split
// (_examples/other_examples/12adc8bf_Klingon-tech-klingdex__internal-wallet-service.go.go),
// generalized from a bare mnemonic blob into the {privKey, seedPhrase} pair
// spec.md names, and concretized onto golang.org/x/crypto's nacl/secretbox
// and argon2 packages (SPEC_FULL.md's domain-stack wiring for this
// concern).
package walletexport

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	goerrors "github.com/go-errors/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	// Argon2id tuning. These mirror the RFC 9106 "moderate" recommendation:
	// enough work to make offline brute-force of a seed password
	// expensive without stalling a CLI invocation.
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// Payload is the plaintext secret spec.md §6 names: the HD private key
// (serialized) and the BIP39 seed phrase it was derived from.
type Payload struct {
	PrivKey    string `json:"privKey"`
	SeedPhrase string `json:"seedPhrase"`
}

// Encrypted is the on-disk format: an authenticated ciphertext plus the
// salt and nonce needed to reproduce the derived key.
type Encrypted struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Encrypt seals payload under a key derived from password via Argon2id,
// returning the structure that's written to disk (spec.md §6).
func Encrypt(payload Payload, password string) (*Encrypted, error) {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("walletexport: marshal payload: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("walletexport: generate salt: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("walletexport: generate nonce: %w", err)
	}

	key := deriveKey(password, salt)
	sealed := secretbox.Seal(nil, plaintext, &nonce, &key)

	return &Encrypted{
		Salt:       salt,
		Nonce:      nonce[:],
		Ciphertext: sealed,
	}, nil
}

// Decrypt reverses Encrypt, returning ErrWrongPassword (spec.md §7:
// "Decryption: wrong password on import") when authentication fails.
func Decrypt(enc *Encrypted, password string) (*Payload, error) {
	if len(enc.Nonce) != nonceSize {
		return nil, fmt.Errorf("walletexport: malformed nonce (%d bytes)", len(enc.Nonce))
	}
	var nonce [nonceSize]byte
	copy(nonce[:], enc.Nonce)

	key := deriveKey(password, enc.Salt)
	plaintext, ok := secretbox.Open(nil, enc.Ciphertext, &nonce, &key)
	if !ok {
		return nil, &ErrWrongPassword{Error: goerrors.New("walletexport: wrong password")}
	}

	var payload Payload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, fmt.Errorf("walletexport: unmarshal payload: %w", err)
	}
	return &payload, nil
}

func deriveKey(password string, salt []byte) [keySize]byte {
	derived := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, keySize)
	var key [keySize]byte
	copy(key[:], derived)
	return key
}

// ErrWrongPassword is returned by Decrypt when the ciphertext fails
// authentication under the supplied password. Embeds *goerrors.Error so the
// stack at the point of the failed secretbox.Open survives for logging,
// matching the teacher's go-errors/errors usage in routing/ann_validation.go.
type ErrWrongPassword struct {
	*goerrors.Error
}
