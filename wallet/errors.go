package wallet

import "github.com/go-errors/errors"

// ErrConfiguration covers spec.md §7's "Configuration" error kind: missing
// network, bad mnemonic, or any other construction-time misconfiguration.
// Grounded on the teacher's routing/ann_validation.go, which wraps every
// validation failure in go-errors/errors so the stack trace of where the
// error originated survives up to the caller that logs it.
type ErrConfiguration struct {
	Reason string
	*errors.Error
}

func newErrConfiguration(reason string) *ErrConfiguration {
	return &ErrConfiguration{
		Reason: reason,
		Error:  errors.Errorf("wallet: configuration error: %s", reason),
	}
}

// ErrSyncInProgress covers spec.md §7's "Concurrency" error kind: "a
// continuous sync already running when a fresh one is requested."
type ErrSyncInProgress struct {
	*errors.Error
}

func newErrSyncInProgress() *ErrSyncInProgress {
	return &ErrSyncInProgress{
		Error: errors.New("wallet: a continuous sync is already active"),
	}
}
