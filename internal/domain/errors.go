package domain

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountRetired  = errors.New("account is retired")
	ErrInvalidAccount  = errors.New("invalid account")
	ErrInvalidCategory = errors.New("invalid account category")

	// Rule errors
	ErrRuleNotFound = errors.New("accounting rule not found")
	ErrInvalidRule  = errors.New("invalid accounting rule")

	// Posting errors
	ErrDuplicateTransaction  = errors.New("transaction reference already posted")
	ErrTransactionInProgress = errors.New("transaction reference is being posted")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidReference      = errors.New("transaction reference is required")
	ErrSameAccount           = errors.New("cannot post to the same account on both sides")
	ErrNoAmountLines         = errors.New("at least one amount line is required")
	ErrDoubleEntryViolation  = errors.New("debits do not equal credits")
	ErrEntriesNotFound       = errors.New("no posted entries for transaction reference")
	ErrEntryNotReversible    = errors.New("entry cannot be reversed")

	// Report errors
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrInvalidQueryLevel = errors.New("invalid query level")

	// Infrastructure errors
	ErrStoreCommitFailure     = errors.New("failed to commit ledger transaction")
	ErrSnapshotPersistFailure = errors.New("failed to persist report snapshot")
)

// TransactionError ties a failure to the transaction reference it happened on.
type TransactionError struct {
	Reference string
	Err       error
}

// NewTransactionError wraps err with reference. A nil err stays nil.
func NewTransactionError(reference string, err error) error {
	if err == nil {
		return nil
	}

	var txErr *TransactionError
	if errors.As(err, &txErr) && txErr.Reference == reference {
		return err
	}

	return &TransactionError{Reference: reference, Err: err}
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s: %v", e.Reference, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
