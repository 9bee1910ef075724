package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
	"github.com/iho/bankledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool Pool) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(pool),
	}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	err := txQueries(tx).CreateAccount(ctx, generated.CreateAccountParams{
		ID:             account.ID,
		AccountNumber:  account.AccountNumber,
		Name:           account.Name,
		BranchID:       account.BranchID,
		BranchCode:     account.BranchCode,
		OwnerID:        account.OwnerID,
		ChartAccountID: account.ChartAccountID,
		CategoryID:     account.CategoryID,
		Category:       string(account.Category),
		Balance:        decimalToNumeric(account.Balance),
		Version:        account.Version,
		Retired:        account.Retired,
		CreatedAt:      timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: account %s already exists in branch %s", domain.ErrInvalidAccount, account.AccountNumber, account.BranchID)
	}

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByChartPosition finds the active account for a chart position in a
// branch. The branch is matched by id, or by code when the id is empty.
func (r *AccountRepository) GetByChartPosition(ctx context.Context, chartAccountID, branchID, branchCode string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByChartPosition(ctx, generated.GetAccountByChartPositionParams{
		ChartAccountID: chartAccountID,
		BranchID:       branchID,
		BranchCode:     branchCode,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDsForUpdate retrieves multiple accounts by IDs with FOR UPDATE locks.
// Rows are locked in id order.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	rows, err := txQueries(tx).GetAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// UpdateBalance updates the balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	n, err := txQueries(tx).UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		ID:        id,
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}

	return nil
}

// List lists accounts matching filter, ordered by account number.
func (r *AccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	categories := make([]string, 0, len(filter.Categories))
	for _, c := range filter.Categories {
		categories = append(categories, string(c))
	}

	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		BranchIds:      nonNil(filter.BranchIDs),
		AccountIds:     nonNil(filter.AccountIDs),
		Categories:     categories,
		IncludeRetired: filter.IncludeRetired,
		Limit:          int32(filter.Limit),
		Offset:         int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// Retire marks an account as retired.
func (r *AccountRepository) Retire(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	n, err := txQueries(tx).RetireAccount(ctx, generated.RetireAccountParams{
		ID:        id,
		UpdatedAt: timeToPgTimestamptz(at),
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}

	return nil
}

// Remove deletes accounts. Accounts that still carry entries cannot be
// removed.
func (r *AccountRepository) Remove(ctx context.Context, tx usecase.Transaction, ids []string) (int64, error) {
	n, err := txQueries(tx).DeleteAccounts(ctx, ids)
	if isForeignKeyViolation(err) {
		return 0, fmt.Errorf("%w: account still has entries", domain.ErrInvalidAccount)
	}

	return n, err
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:             row.ID,
		AccountNumber:  row.AccountNumber,
		Name:           row.Name,
		BranchID:       row.BranchID,
		BranchCode:     row.BranchCode,
		OwnerID:        row.OwnerID,
		ChartAccountID: row.ChartAccountID,
		CategoryID:     row.CategoryID,
		Category:       domain.AccountCategory(row.Category),
		Balance:        numericToDecimal(row.Balance),
		Version:        row.Version,
		Retired:        row.Retired,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	d, _ := toDecimal(n)
	return d
}

func toDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid || n.Int == nil {
		return decimal.Zero, nil
	}

	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Zero, fmt.Errorf("non-finite numeric value")
	}

	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func optionalTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}

	return timeToPgTimestamptz(*t)
}

// nonNil keeps array parameters from being sent as SQL NULL.
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}

	return ids
}
