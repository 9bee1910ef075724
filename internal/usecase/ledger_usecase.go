package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInconsistentLedger is returned when the ledger is not balanced.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: debits do not equal credits")
)

// maxUnbalancedReported caps the references listed by a consistency check.
const maxUnbalancedReported = 100

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// ConsistencyReport is the outcome of a ledger-wide balance check.
type ConsistencyReport struct {
	TotalDebit           decimal.Decimal `json:"total_debit"`
	TotalCredit          decimal.Decimal `json:"total_credit"`
	UnbalancedReferences []string        `json:"unbalanced_references"`
	Consistent           bool            `json:"consistent"`
}

// CheckConsistency verifies that total debits equal total credits over the
// active entries, and that every reference balances on its own.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totalDebit, totalCredit, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	refs, err := uc.ledgerRepo.UnbalancedReferences(ctx, maxUnbalancedReported)
	if err != nil {
		return nil, err
	}

	if refs == nil {
		refs = []string{}
	}

	report := &ConsistencyReport{
		TotalDebit:           totalDebit,
		TotalCredit:          totalCredit,
		UnbalancedReferences: refs,
		Consistent:           totalDebit.Equal(totalCredit) && len(refs) == 0,
	}

	if !report.Consistent {
		return report, ErrInconsistentLedger
	}

	return report, nil
}
