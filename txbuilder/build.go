package txbuilder

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/kasparovwallet/kasparov/txstore"
	"github.com/kasparovwallet/kasparov/utxoset"
)

// BuildTransaction signs the converged estimate, enforces the mass limit,
// and converts the result to the exact RPC wire shape (spec.md §4.3).
func (b *Builder) BuildTransaction(params ComposeParams) (*WireTransaction, *ComposedTx, error) {
	params.SkipSign = false
	estimate, err := b.EstimateTransaction(params)
	if err != nil {
		return nil, nil, err
	}

	candidate := estimate.Tx
	if !candidate.Signed {
		if err := signTx(candidate); err != nil {
			b.addrMgr.ChangeAddress().Reverse()
			return nil, nil, err
		}
	}

	mass, err := skeletonSize(candidate)
	if err != nil {
		return nil, nil, err
	}
	if uint64(mass) > MaxMassAcceptedByBlock {
		b.addrMgr.ChangeAddress().Reverse()
		return nil, nil, &ErrMassLimitExceeded{Mass: uint64(mass), Max: MaxMassAcceptedByBlock}
	}

	wireTx := &WireTransaction{
		Version:      0,
		LockTime:     0,
		SubnetworkID: zeroSubnetworkID,
		PayloadHash:  zeroPayloadHash,
		Fee:          candidate.Fee,
	}

	for i, in := range candidate.Inputs {
		sigScript := ""
		if i < len(candidate.SignatureScripts) && candidate.SignatureScripts[i] != nil {
			sigScript = hex.EncodeToString(candidate.SignatureScripts[i])
		}
		wireTx.Inputs = append(wireTx.Inputs, WireInput{
			PreviousOutpoint: WireOutpoint{
				TransactionID: in.Utxo.Outpoint.TxID,
				Index:         in.Utxo.Outpoint.Index,
			},
			SignatureScript: sigScript,
			Sequence:        0,
		})
	}

	if candidate.ToOutput != nil {
		wireTx.Outputs = append(wireTx.Outputs, wireOutputFrom(candidate.ToOutput))
	}
	if candidate.ChangeOutput != nil {
		wireTx.Outputs = append(wireTx.Outputs, wireOutputFrom(candidate.ChangeOutput))
	}

	return wireTx, candidate, nil
}

func wireOutputFrom(out *TxOutput) WireOutput {
	return WireOutput{
		Amount: out.Amount,
		ScriptPublicKey: WireScriptPublicKey{
			Version:         0,
			ScriptPublicKey: hex.EncodeToString(out.ScriptPubKey),
		},
	}
}

// SubmitTransaction builds, submits, and, on success, records the
// transaction: reserves the spent outpoints as `used`, appends to TxStore,
// and emits state-update (spec.md §4.3). An empty txid with a nil error signals
// the node's "soft failure" (accepted the call but returned no txid).
func (b *Builder) SubmitTransaction(ctx context.Context, params ComposeParams, note string, blueScore uint64) (string, error) {
	wireTx, candidate, err := b.BuildTransaction(params)
	if err != nil {
		return "", err
	}

	txid, err := b.rpc.SubmitTransaction(ctx, wireTx)
	if err != nil {
		return "", err
	}
	if txid == "" {
		builderLog.Warnf("submitTransaction returned no txid (soft failure)")
		return "", nil
	}

	b.markInputsUsed(candidate)

	entry := &txstore.Entry{
		Direction: txstore.DirectionOut,
		Timestamp: time.Now(),
		TxID:      txid,
		Amount:    outputAmount(candidate),
		Note:      note,
		BlueScore: blueScore,
		Tx:        wireTx,
	}
	if candidate.ToOutput != nil {
		entry.CounterpartyAddress = candidate.ToOutput.Address
	}

	// Store.Append emits walletevents.StateUpdate itself (and Restore relies
	// on that same emission for replay), so SubmitTransaction does not emit
	// a second one here.
	if err := b.store.Append(entry); err != nil {
		builderLog.Errorf("failed to append submitted tx %s to store: %v", txid, err)
	}

	return txid, nil
}

func (b *Builder) markInputsUsed(candidate *ComposedTx) {
	spent := make([]*utxoset.Utxo, len(candidate.Inputs))
	for i, in := range candidate.Inputs {
		spent[i] = in.Utxo
	}
	b.utxoSet.UpdateUsed(spent)
}

func outputAmount(candidate *ComposedTx) uint64 {
	if candidate.ToOutput == nil {
		return 0
	}
	return candidate.ToOutput.Amount
}
