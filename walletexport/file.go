package walletexport

import (
	"encoding/json"
	"fmt"
	"os"
)

const seedFilePermissions = 0o600

// SaveEncryptedSeed writes enc to path as JSON, mirroring the Klingon
// wallet service's SaveEncryptedSeed step of its CreateWallet flow.
func SaveEncryptedSeed(enc *Encrypted, path string) error {
	data, err := json.MarshalIndent(enc, "", "  ")
	if err != nil {
		return fmt.Errorf("walletexport: marshal encrypted seed: %w", err)
	}
	if err := os.WriteFile(path, data, seedFilePermissions); err != nil {
		return fmt.Errorf("walletexport: write %s: %w", path, err)
	}
	return nil
}

// LoadEncryptedSeed reverses SaveEncryptedSeed, the first step of the
// Klingon wallet service's LoadWallet flow.
func LoadEncryptedSeed(path string) (*Encrypted, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("walletexport: read %s: %w", path, err)
	}
	var enc Encrypted
	if err := json.Unmarshal(data, &enc); err != nil {
		return nil, fmt.Errorf("walletexport: unmarshal %s: %w", path, err)
	}
	return &enc, nil
}
