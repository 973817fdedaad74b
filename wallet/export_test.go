package wallet

import (
	"context"
	"testing"

	"github.com/kasparovwallet/kasparov/chainparams"
	"github.com/kasparovwallet/kasparov/rpcclient"
	"github.com/kasparovwallet/kasparov/txbuilder"
	"github.com/kasparovwallet/kasparov/txstore"
	"github.com/kasparovwallet/kasparov/utxoset"
	"github.com/kasparovwallet/kasparov/walletexport"
	"github.com/stretchr/testify/require"
)

// nopRpcClient is a rpcclient.RpcClient that does nothing; Export/Import
// round-tripping never touches the transport, so the only methods these
// tests reach are OnConnect/OnDisconnect, called by New to register its
// callbacks.
type nopRpcClient struct{}

func (nopRpcClient) Connect(context.Context) error { return nil }
func (nopRpcClient) Disconnect() error              { return nil }
func (nopRpcClient) OnConnect(func())                {}
func (nopRpcClient) OnDisconnect(func())             {}
func (nopRpcClient) GetBlock(context.Context, string) (*rpcclient.Block, error) {
	return nil, nil
}
func (nopRpcClient) GetUtxosByAddresses(context.Context, []string) (map[string][]*utxoset.Utxo, error) {
	return nil, nil
}
func (nopRpcClient) GetVirtualSelectedParentBlueScore(context.Context) (uint64, error) { return 0, nil }
func (nopRpcClient) SubscribeBlockAdded(func(rpcclient.BlockAddedNotification)) (*rpcclient.SubPromise, error) {
	return nil, nil
}
func (nopRpcClient) SubscribeVirtualSelectedParentBlueScoreChanged(func(rpcclient.BlueScoreChangedNotification)) (*rpcclient.SubPromise, error) {
	return nil, nil
}
func (nopRpcClient) SubscribeChainChanged(func(rpcclient.ChainChangedNotification)) (*rpcclient.SubPromise, error) {
	return nil, nil
}
func (nopRpcClient) SubscribeUtxosChanged(context.Context, []string) (<-chan utxoset.ChangeNotification, func(), error) {
	return nil, nil, nil
}
func (nopRpcClient) UnSubscribe(string) error             { return nil }
func (nopRpcClient) UnSubscribeUtxosChanged(string) error { return nil }
func (nopRpcClient) SubmitTransaction(context.Context, *txbuilder.WireTransaction) (string, error) {
	return "", nil
}

func newTestWallet(t *testing.T) *Wallet {
	t.Helper()
	w, err := New(Config{
		Params: &chainparams.TestnetParams,
		Rpc:    nopRpcClient{},
		Seed:   []byte("0123456789abcdef0123456789abcdef"),
		Store:  nopStoreAdapter{},
	})
	require.NoError(t, err)
	return w
}

type nopStoreAdapter struct{}

func (nopStoreAdapter) Save([]*txstore.Entry) error     { return nil }
func (nopStoreAdapter) Load() ([]*txstore.Entry, error) { return nil, nil }

func TestExportImportRoundTrip(t *testing.T) {
	w := newTestWallet(t)
	uid, err := w.UID()
	require.NoError(t, err)

	seedPhrase := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	enc, err := w.Export("hunter2", seedPhrase)
	require.NoError(t, err)

	imported, recoveredSeedPhrase, err := Import(ImportConfig{
		Config: Config{
			Params: &chainparams.TestnetParams,
			Rpc:    nopRpcClient{},
			Store:  nopStoreAdapter{},
		},
		Encrypted: enc,
		Password:  "hunter2",
	})
	require.NoError(t, err)
	require.Equal(t, seedPhrase, recoveredSeedPhrase)

	importedUID, err := imported.UID()
	require.NoError(t, err)
	require.Equal(t, uid, importedUID)

	reExported, err := imported.Export("hunter2", recoveredSeedPhrase)
	require.NoError(t, err)

	original, err := walletexport.Decrypt(enc, "hunter2")
	require.NoError(t, err)
	roundTripped, err := walletexport.Decrypt(reExported, "hunter2")
	require.NoError(t, err)
	require.Equal(t, original, roundTripped)
}
