package txbuilder

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/kasparovwallet/kasparov/addrmgr"
	"github.com/kasparovwallet/kasparov/chainparams"
	"github.com/kasparovwallet/kasparov/internal/addrcodec"
	"github.com/kasparovwallet/kasparov/keychain"
	"github.com/kasparovwallet/kasparov/txstore"
	"github.com/kasparovwallet/kasparov/utxoset"
	"github.com/kasparovwallet/kasparov/walletevents"
	"github.com/stretchr/testify/require"
)

// nopAdapter is a txstore.Adapter that discards everything, for tests that
// only care about in-memory behavior.
type nopAdapter struct{}

func (nopAdapter) Save([]*txstore.Entry) error       { return nil }
func (nopAdapter) Load() ([]*txstore.Entry, error)   { return nil, nil }

func newTestBuilder(t *testing.T) (*Builder, *utxoset.Set, *addrmgr.Manager) {
	t.Helper()

	root, err := keychain.NewRoot([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	params := &chainparams.TestnetParams
	bus := walletevents.NewBus()
	codec := addrcodec.New(params)

	mgr := addrmgr.New(root, codec, bus)
	set := utxoset.New(params, bus)
	store := txstore.New(nopAdapter{}, bus)

	b := New(Config{
		UtxoSet:           set,
		AddrMgr:           mgr,
		Codec:             codec,
		Store:             store,
		Params:            params,
		DefaultFeePerByte: 1,
	})
	return b, set, mgr
}

func seedUtxo(set *utxoset.Set, addr string, outpointTxID string, index uint32, satoshis uint64) {
	set.Add([]*utxoset.Utxo{{
		Outpoint:       utxoset.Outpoint{TxID: outpointTxID, Index: index},
		Address:        addr,
		Satoshis:       satoshis,
		BlockBlueScore: 0,
		IsCoinbase:     false,
	}})
	set.UpdateUtxoBalance(1000)
}

func TestComposeTxSimpleSend(t *testing.T) {
	b, set, mgr := newTestBuilder(t)

	receiveAddr, err := mgr.Next(keychain.ReceiveChain)
	require.NoError(t, err)
	recipient, err := mgr.Next(keychain.ReceiveChain)
	require.NoError(t, err)

	seedUtxo(set, receiveAddr.AddressStr, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", 0, 10000)
	seedUtxo(set, receiveAddr.AddressStr, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", 0, 5000)

	params := ComposeParams{
		ToAddress:           recipient.AddressStr,
		Amount:              7000,
		PriorityFee:         500,
		CalculateNetworkFee: true,
	}

	estimate, err := b.EstimateTransaction(params)
	require.NoError(t, err)
	require.Len(t, estimate.Tx.Inputs, 1)
	require.Equal(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", estimate.Tx.Inputs[0].Utxo.Outpoint.TxID)
	require.Equal(t, uint64(7000), estimate.Tx.ToOutput.Amount)
	require.GreaterOrEqual(t, estimate.Fee, estimate.DataFee+params.PriorityFee)

	expectedChange := uint64(10000) - 7000 - estimate.Fee
	require.Equal(t, expectedChange, estimate.Tx.ChangeOutput.Amount)
}

func TestComposeTxInsufficientFunds(t *testing.T) {
	b, set, mgr := newTestBuilder(t)

	receiveAddr, err := mgr.Next(keychain.ReceiveChain)
	require.NoError(t, err)
	recipient, err := mgr.Next(keychain.ReceiveChain)
	require.NoError(t, err)

	seedUtxo(set, receiveAddr.AddressStr, "cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc", 0, 1000)

	params := ComposeParams{
		ToAddress:           recipient.AddressStr,
		Amount:              2000,
		CalculateNetworkFee: true,
	}

	_, err = b.EstimateTransaction(params)
	require.Error(t, err)
	var insufficient *utxoset.ErrInsufficientFunds
	require.ErrorAs(t, err, &insufficient)
}

func TestComposeTxDeterministic(t *testing.T) {
	b, set, mgr := newTestBuilder(t)

	receiveAddr, err := mgr.Next(keychain.ReceiveChain)
	require.NoError(t, err)
	recipient, err := mgr.Next(keychain.ReceiveChain)
	require.NoError(t, err)
	changeOverride, err := mgr.Next(keychain.ChangeChain)
	require.NoError(t, err)

	seedUtxo(set, receiveAddr.AddressStr, "dddddddddddddddddddddddddddddddddddddddddddddddddddddddddddddd", 0, 20000)

	params := ComposeParams{
		ToAddress:             recipient.AddressStr,
		Amount:                5000,
		ChangeAddressOverride: changeOverride.AddressStr,
		SkipSign:              true,
	}

	tx1, err := b.ComposeTx(params, 1000)
	require.NoError(t, err)
	tx2, err := b.ComposeTx(params, 1000)
	require.NoError(t, err)

	if tx1.Fee != tx2.Fee {
		t.Fatalf("non-deterministic compose:\ntx1=%s\ntx2=%s", spew.Sdump(tx1), spew.Sdump(tx2))
	}
	require.Equal(t, tx1.ToOutput.Amount, tx2.ToOutput.Amount)
	require.Equal(t, tx1.ChangeOutput.Amount, tx2.ChangeOutput.Amount)
	require.Equal(t, tx1.Fee, tx2.Fee)
}

func TestBuildTransactionProducesWireShape(t *testing.T) {
	b, set, mgr := newTestBuilder(t)

	receiveAddr, err := mgr.Next(keychain.ReceiveChain)
	require.NoError(t, err)
	recipient, err := mgr.Next(keychain.ReceiveChain)
	require.NoError(t, err)

	seedUtxo(set, receiveAddr.AddressStr, "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee", 0, 20000)

	params := ComposeParams{
		ToAddress:           recipient.AddressStr,
		Amount:              5000,
		PriorityFee:         500,
		CalculateNetworkFee: true,
	}

	wireTx, candidate, err := b.BuildTransaction(params)
	require.NoError(t, err)
	require.True(t, candidate.Signed)
	require.Equal(t, zeroSubnetworkID, wireTx.SubnetworkID)
	require.Equal(t, zeroPayloadHash, wireTx.PayloadHash)
	require.Len(t, wireTx.Inputs, 1)
	require.NotEmpty(t, wireTx.Inputs[0].SignatureScript)
}

func TestCompoundUtxos(t *testing.T) {
	b, set, mgr := newTestBuilder(t)

	receiveAddr, err := mgr.Next(keychain.ReceiveChain)
	require.NoError(t, err)

	for i := 0; i < 150; i++ {
		txid := make([]byte, 64)
		for j := range txid {
			txid[j] = byte('0' + (i % 10))
		}
		seedUtxo(set, receiveAddr.AddressStr, string(txid), uint32(i), 1000)
	}

	params := ComposeParams{
		IsCompound:          true,
		MaxUtxoCount:        100,
		CalculateNetworkFee: true,
	}

	estimate, err := b.EstimateTransaction(params)
	require.NoError(t, err)
	require.Len(t, estimate.Tx.Inputs, 100)
	require.NotNil(t, estimate.Tx.ToOutput)
}
