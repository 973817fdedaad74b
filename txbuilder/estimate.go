package txbuilder

// EstimateTransaction wraps ComposeTx with the iterative fee-convergence
// loop of spec.md §4.3: compose, measure the resulting size, recompute the
// data fee, and repeat until the fee already paid covers the size. Grounded
// on lnwallet/chanfunding/coin_select.go's CoinSelect loop
// (_examples/degeri-dcrlnd/lnwallet/chanfunding/coin_select.go): select,
// measure, and retry with an adjusted target until the candidate is
// internally consistent.
func (b *Builder) EstimateTransaction(params ComposeParams) (*EstimatedTx, error) {
	priorityFee := params.PriorityFee

	if !params.CalculateNetworkFee {
		candidate, err := b.ComposeTx(params, priorityFee)
		if err != nil {
			return nil, err
		}
		df, err := dataFee(candidate, b.defaultFeePerByte)
		if err != nil {
			return nil, err
		}
		if df > priorityFee {
			return nil, &ErrMinimumFeeRequired{Required: df}
		}
		return &EstimatedTx{Tx: candidate, DataFee: df, Fee: priorityFee}, nil
	}

	fee := priorityFee
	var candidate *ComposedTx
	var df uint64

	// Once the first pass derives a change address, pin it via
	// ChangeAddressOverride for the rest of the loop: recomposing on every
	// fee adjustment must not burn a fresh change index each iteration.
	iterParams := params

	for {
		var err error
		candidate, err = b.ComposeTx(iterParams, fee)
		if err != nil {
			return nil, err
		}
		if iterParams.ChangeAddressOverride == "" && candidate.ChangeAddress != nil {
			iterParams.ChangeAddressOverride = candidate.ChangeAddress.AddressStr
		}

		df, err = dataFee(candidate, b.defaultFeePerByte)
		if err != nil {
			return nil, err
		}

		if params.NetworkFeeMax > 0 && fee > params.NetworkFeeMax {
			return nil, &ErrFeeExceedsMax{Fee: fee, Max: params.NetworkFeeMax}
		}

		if fee >= df+priorityFee {
			break
		}
		fee = df + priorityFee

		if params.NetworkFeeMax > 0 && fee > params.NetworkFeeMax {
			return nil, &ErrFeeExceedsMax{Fee: fee, Max: params.NetworkFeeMax}
		}
	}

	candidate.Fee = fee
	return &EstimatedTx{Tx: candidate, DataFee: df, Fee: fee}, nil
}
