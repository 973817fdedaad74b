package main

import (
	"context"

	"github.com/kasparovwallet/kasparov/rpcclient"
	"github.com/kasparovwallet/kasparov/txbuilder"
	"github.com/kasparovwallet/kasparov/utxoset"
	"github.com/kasparovwallet/kasparov/walletexport"
)

// nopRpcClient satisfies rpcclient.RpcClient for commands that construct a
// wallet.Wallet purely to exercise its derivation/export logic (export,
// import) without ever dialing a node.
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

func walletexportSave(enc *walletexport.Encrypted, path string) error {
	return walletexport.SaveEncryptedSeed(enc, path)
}
