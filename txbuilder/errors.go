package txbuilder

import "fmt"

// ErrFeeExceedsMax is returned when the converged fee would exceed
// ComposeParams.NetworkFeeMax (spec.md §7: "Fee bounds").
type ErrFeeExceedsMax struct {
	Fee, Max uint64
}

func (e *ErrFeeExceedsMax) Error() string {
	return fmt.Sprintf("network fee %d exceeds configured maximum %d", e.Fee, e.Max)
}

// ErrMinimumFeeRequired is returned when CalculateNetworkFee is false and
// the supplied PriorityFee does not cover the computed data fee.
type ErrMinimumFeeRequired struct {
	Required uint64
}

func (e *ErrMinimumFeeRequired) Error() string {
	return fmt.Sprintf("minimum fee required is %d", e.Required)
}

// ErrMassLimitExceeded is returned by BuildTransaction when the signed
// transaction's mass exceeds MaxMassAcceptedByBlock (spec.md §7: "Mass
// limit").
type ErrMassLimitExceeded struct {
	Mass, Max uint64
}

func (e *ErrMassLimitExceeded) Error() string {
	return fmt.Sprintf("transaction mass %d exceeds maximum %d", e.Mass, e.Max)
}

// ErrNegativeChange is returned when the selected inputs cannot cover the
// requested amount plus fee (spec.md §4.3 step 3: "if change < 0 fail").
type ErrNegativeChange struct {
	Inputs, AmountPlusFee uint64
}

func (e *ErrNegativeChange) Error() string {
	return fmt.Sprintf("selected inputs total %d, short of amount+fee %d",
		e.Inputs, e.AmountPlusFee)
}
