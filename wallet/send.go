package wallet

import (
	"context"

	"github.com/kasparovwallet/kasparov/txbuilder"
)

// SendParams describes an outgoing payment at the wallet's public API
// surface; it is translated into txbuilder.ComposeParams so CLI/RPC
// callers never need to import the txbuilder package directly.
type SendParams struct {
	ToAddress    string
	Amount       uint64
	PriorityFee  uint64
	InclusiveFee bool
	NetworkFeeMax uint64
	Note         string
}

// Send estimates, signs, and submits a payment to ToAddress (spec.md
// §4.3/§4.4 control flow: "caller -> Wallet.submit -> TxBuilder -> ...").
// A zero-length returned txid with a nil error is the RPC "soft failure"
// spec.md §4.3 describes.
func (w *Wallet) Send(ctx context.Context, params SendParams) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	composeParams := txbuilder.ComposeParams{
		ToAddress:           params.ToAddress,
		Amount:              params.Amount,
		PriorityFee:         params.PriorityFee,
		InclusiveFee:        params.InclusiveFee,
		CalculateNetworkFee: true,
		NetworkFeeMax:       params.NetworkFeeMax,
	}
	return w.builder.SubmitTransaction(ctx, composeParams, params.Note, w.blueScore)
}

// CompoundParams describes a self-send that collapses many small UTXOs
// into one (spec.md glossary: "Compounding").
type CompoundParams struct {
	MaxUtxoCount uint
	PriorityFee  uint64
}

// Compound submits a compounding transaction (spec.md §8 scenario 7).
func (w *Wallet) Compound(ctx context.Context, params CompoundParams) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	maxCount := params.MaxUtxoCount
	if maxCount == 0 {
		maxCount = 100
	}

	composeParams := txbuilder.ComposeParams{
		IsCompound:          true,
		MaxUtxoCount:        int(maxCount),
		PriorityFee:         params.PriorityFee,
		CalculateNetworkFee: true,
	}
	return w.builder.SubmitTransaction(ctx, composeParams, "compound", w.blueScore)
}

// EstimateSend runs the fee-convergence estimate without submitting,
// useful for a CLI/UI to preview the final fee before confirming a send.
func (w *Wallet) EstimateSend(params SendParams) (*txbuilder.EstimatedTx, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	composeParams := txbuilder.ComposeParams{
		ToAddress:           params.ToAddress,
		Amount:              params.Amount,
		PriorityFee:         params.PriorityFee,
		InclusiveFee:        params.InclusiveFee,
		CalculateNetworkFee: true,
		NetworkFeeMax:       params.NetworkFeeMax,
		SkipSign:            true,
	}
	return w.builder.EstimateTransaction(composeParams)
}
