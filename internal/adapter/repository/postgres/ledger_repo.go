package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool Pool) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(pool)}
}

// CheckConsistency totals both sides of every live entry.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (totalDebits decimal.Decimal, totalCredits decimal.Decimal, err error) {
	result, err := r.queries.CheckLedgerConsistency(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	totalDebits, err = toDecimal(result.TotalDebit)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	totalCredits, err = toDecimal(result.TotalCredit)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return totalDebits, totalCredits, nil
}

// UnbalancedReferences lists up to limit references whose live entries do
// not net to zero.
func (r *LedgerRepository) UnbalancedReferences(ctx context.Context, limit int) ([]string, error) {
	return r.queries.UnbalancedReferences(ctx, int32(limit))
}
