package walletexport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	payload := Payload{
		PrivKey:    "xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPTfNLPEcwYjLG2KufN4kbFDb2qDL2W1mxq3jYzW4K",
		SeedPhrase: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
	}

	enc, err := Encrypt(payload, "correct horse battery staple")
	require.NoError(t, err)
	require.Len(t, enc.Salt, saltSize)
	require.Len(t, enc.Nonce, nonceSize)

	got, err := Decrypt(enc, "correct horse battery staple")
	require.NoError(t, err)
	require.Equal(t, payload, *got)
}

func TestDecryptWrongPassword(t *testing.T) {
	payload := Payload{PrivKey: "xprv...", SeedPhrase: "abandon abandon abandon"}

	enc, err := Encrypt(payload, "right password")
	require.NoError(t, err)

	_, err = Decrypt(enc, "wrong password")
	require.Error(t, err)
	require.IsType(t, &ErrWrongPassword{}, err)
}

func TestEncryptIsNondeterministic(t *testing.T) {
	payload := Payload{PrivKey: "xprv...", SeedPhrase: "abandon abandon abandon"}

	first, err := Encrypt(payload, "pw")
	require.NoError(t, err)
	second, err := Encrypt(payload, "pw")
	require.NoError(t, err)

	require.NotEqual(t, first.Salt, second.Salt)
	require.NotEqual(t, first.Nonce, second.Nonce)
	require.NotEqual(t, first.Ciphertext, second.Ciphertext)
}

func TestSaveLoadEncryptedSeedFile(t *testing.T) {
	payload := Payload{PrivKey: "xprv...", SeedPhrase: "abandon abandon abandon"}
	enc, err := Encrypt(payload, "pw")
	require.NoError(t, err)

	path := t.TempDir() + "/seed.json"
	require.NoError(t, SaveEncryptedSeed(enc, path))

	loaded, err := LoadEncryptedSeed(path)
	require.NoError(t, err)
	require.Equal(t, enc, loaded)

	got, err := Decrypt(loaded, "pw")
	require.NoError(t, err)
	require.Equal(t, payload, *got)
}
