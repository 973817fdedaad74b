// Package txbuilder implements the TxBuilder of spec.md §4.3: UTXO
// selection, iterative fee convergence, Schnorr signing, and encoding to the
// RPC wire shape. Grounded on two teacher files: the coin-selection loop is
// adapted from lnwallet/chanfunding/coin_select.go's CoinSelect (the
// candidates-until-target, recompute-fee-and-retry structure), and the
// signing step is adapted from lnwallet/dcrwallet/signer.go's per-input
// SignatureScript construction
// (_examples/degeri-dcrlnd/lnwallet/{chanfunding/coin_select.go,dcrwallet/signer.go}).
package txbuilder

import (
	"github.com/kasparovwallet/kasparov/addrmgr"
	"github.com/kasparovwallet/kasparov/utxoset"
)

// ComposeParams describes a requested spend (spec.md §4.3).
type ComposeParams struct {
	// ToAddress is the recipient, ignored when IsCompound is set.
	ToAddress string
	// Amount is the requested send amount in sompi.
	Amount uint64

	// PriorityFee is the caller-supplied fee floor (spec.md: "priorityFee").
	PriorityFee uint64
	// InclusiveFee, when set, subtracts the total fee from Amount instead of
	// requiring the sender to supply Amount in addition to the fee.
	InclusiveFee bool
	// CalculateNetworkFee enables the iterative dataFee convergence loop.
	// When false, the data fee is computed once and compared against
	// PriorityFee without iterating.
	CalculateNetworkFee bool
	// NetworkFeeMax caps the total fee; zero means unlimited.
	NetworkFeeMax uint64

	// IsCompound requests collectUtxos-based compounding instead of a
	// regular targeted send; Amount and ToAddress are ignored, the full
	// collected total (minus fee) is sent to a fresh change address.
	IsCompound   bool
	MaxUtxoCount int

	// ChangeAddressOverride, when non-empty, is used verbatim instead of
	// deriving a fresh change address.
	ChangeAddressOverride string

	// SkipSign produces an unsigned candidate, used by callers that only
	// need a size/fee estimate.
	SkipSign bool
}

// SelectedInput pairs a spent Utxo with the address that owns it, so the
// signer can fetch the right private key without a second lookup.
type SelectedInput struct {
	Utxo    *utxoset.Utxo
	Address *addrmgr.Address
}

// TxOutput is one non-input side of a composed transaction.
type TxOutput struct {
	Address      string
	ScriptPubKey []byte
	Amount       uint64
}

// ComposedTx is the candidate transaction produced by ComposeTx, before or
// after signing (spec.md: "an unsigned-or-signed candidate").
type ComposedTx struct {
	Inputs        []*SelectedInput
	ToOutput      *TxOutput
	ChangeOutput  *TxOutput
	ChangeAddress *addrmgr.Address

	Fee  uint64
	Size int

	SignatureScripts [][]byte // parallel to Inputs; nil entries if unsigned
	Signed           bool
}

// EstimatedTx is the result of EstimateTransaction: a converged fee/size
// estimate plus the composed candidate it was derived from.
type EstimatedTx struct {
	Tx      *ComposedTx
	DataFee uint64
	Fee     uint64
}
