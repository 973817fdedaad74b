package txbuilder

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// Calibration constants from spec.md §4.3. Their exact empirical derivation
// is explicitly called out as an open question ("the 151-byte signature
// padding and the −2×inputs signed-delta are empirical calibration
// constants; their exact derivation is unclear"); they are carried forward
// verbatim rather than re-derived.
const (
	unsignedSigOverheadPerInput = 151
	signedSizeDeltaPerInput     = -2
)

// Network mass limits. Kaspa bounds block-accepted transactions by a mass
// figure rather than raw byte size; this wallet approximates mass as the
// serialized skeleton size, since the exact per-byte/per-sigop weighting
// formula is outside what spec.md specifies (see DESIGN.md). The two bounds
// themselves mirror kaspad's own standard-transaction limits.
const (
	MaxMassAcceptedByBlock               = 100000
	EstimatedStandaloneMassWithoutInputs = 200

	// MaxMassUTXOs is the narrower budget reserved for input selection
	// itself (MaxMassAcceptedByBlock minus the fixed per-transaction
	// overhead), distinct from BuildTransaction's final check against the
	// full signed skeleton's mass.
	MaxMassUTXOs = MaxMassAcceptedByBlock - EstimatedStandaloneMassWithoutInputs
)

// skeletonSize builds a throwaway wire.MsgTx from the candidate's
// inputs/outputs and returns its serialized length, which this wallet uses
// directly as the transaction's mass figure.
func skeletonSize(tx *ComposedTx) (int, error) {
	msg := wire.NewMsgTx()

	for _, in := range tx.Inputs {
		hash, err := chainhash.NewHashFromStr(in.Utxo.Outpoint.TxID)
		if err != nil {
			return 0, err
		}
		prevOut := wire.NewOutPoint(hash, in.Utxo.Outpoint.Index, wire.TxTreeRegular)
		txIn := wire.NewTxIn(prevOut, int64(in.Utxo.Satoshis), nil)
		msg.AddTxIn(txIn)
	}

	if tx.ToOutput != nil {
		msg.AddTxOut(wire.NewTxOut(int64(tx.ToOutput.Amount), tx.ToOutput.ScriptPubKey))
	}
	if tx.ChangeOutput != nil {
		msg.AddTxOut(wire.NewTxOut(int64(tx.ChangeOutput.Amount), tx.ChangeOutput.ScriptPubKey))
	}

	size := msg.SerializeSize()

	if tx.Signed {
		size += signedSizeDeltaPerInput * len(tx.Inputs)
	} else {
		size += unsignedSigOverheadPerInput * len(tx.Inputs)
	}
	if size < 0 {
		size = 0
	}
	return size, nil
}

// dataFee computes the size-derived fee component for a candidate at the
// given per-byte rate.
func dataFee(tx *ComposedTx, feePerByte uint64) (uint64, error) {
	size, err := skeletonSize(tx)
	if err != nil {
		return 0, err
	}
	tx.Size = size
	return uint64(size) * feePerByte, nil
}
