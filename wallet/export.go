package wallet

import (
	"github.com/kasparovwallet/kasparov/keychain"
	"github.com/kasparovwallet/kasparov/walletexport"
)

// Export seals this wallet's {privKey, seedPhrase} pair (spec.md §6's
// "persisted state") under password, for the caller to persist via
// walletexport.SaveEncryptedSeed. seedPhrase is supplied by the caller
// rather than stored on Wallet: the BIP39 mnemonic encoder is an external
// collaborator this package never holds a copy of (spec.md §1), so the
// mnemonic the caller used to derive Config.Seed is the only place it
// lives in plaintext.
func (w *Wallet) Export(password, seedPhrase string) (*walletexport.Encrypted, error) {
	payload := walletexport.Payload{
		PrivKey:    w.root.SerializedPrivKey(),
		SeedPhrase: seedPhrase,
	}
	return walletexport.Encrypt(payload, password)
}

// ImportConfig bundles Import's inputs: the same construction-time
// dependencies as New, minus Seed, which is replaced by the encrypted
// export.
type ImportConfig struct {
	Config
	Encrypted *walletexport.Encrypted
	Password  string
}

// Import reconstructs a Wallet and recovers its original seed phrase from
// an Encrypted export, completing the round-trip Testable Property 5
// requires: export(pwd) -> import(pwd) -> export(pwd) recovers an
// identical seed phrase, private key, and UID.
func Import(cfg ImportConfig) (*Wallet, string, error) {
	payload, err := walletexport.Decrypt(cfg.Encrypted, cfg.Password)
	if err != nil {
		return nil, "", err
	}

	root, err := keychain.RootFromSerializedPrivKey(payload.PrivKey)
	if err != nil {
		return nil, "", err
	}

	walletCfg := cfg.Config
	walletCfg.root = root
	w, err := New(walletCfg)
	if err != nil {
		return nil, "", err
	}
	return w, payload.SeedPhrase, nil
}
