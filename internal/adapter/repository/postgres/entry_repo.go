package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
	"github.com/iho/bankledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool Pool) *EntryRepository {
	return &EntryRepository{
		queries: generated.New(pool),
	}
}

// CreateBatch inserts every entry of a posting inside tx.
func (r *EntryRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, entries []*domain.Entry) error {
	queries := txQueries(tx)

	for _, entry := range entries {
		err := queries.CreateEntry(ctx, generated.CreateEntryParams{
			ID:                  entry.ID,
			ReferenceID:         entry.ReferenceID,
			AccountID:           entry.AccountID,
			AccountNumber:       entry.AccountNumber,
			DebitAccountNumber:  entry.DebitAccountNumber,
			CreditAccountNumber: entry.CreditAccountNumber,
			EventCode:           entry.EventCode,
			BranchID:            entry.BranchID,
			ExternalBranchID:    entry.ExternalBranchID,
			CounterpartyRef:     entry.CounterpartyRef,
			Origin:              entry.Origin,
			Narration:           entry.Narration,
			EntryType:           string(entry.EntryType),
			Status:              string(entry.Status),
			DrAmount:            decimalToNumeric(entry.DrAmount),
			CrAmount:            decimalToNumeric(entry.CrAmount),
			Amount:              decimalToNumeric(entry.Amount),
			IsDeleted:           entry.IsDeleted,
			TransactionDate:     timeToPgTimestamptz(entry.TransactionDate),
			ValueDate:           timeToPgTimestamptz(entry.ValueDate),
			CreatedAt:           timeToPgTimestamptz(entry.CreatedAt),
		})
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: entry %s", domain.ErrDuplicateTransaction, entry.ID)
			}

			return fmt.Errorf("insert entry %s: %w", entry.ID, err)
		}
	}

	return nil
}

// GetByReference returns every entry of a reference, deleted ones included.
func (r *EntryRepository) GetByReference(ctx context.Context, referenceID string) ([]*domain.Entry, error) {
	rows, err := r.queries.GetEntriesByReference(ctx, referenceID)
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// GetActiveByReferenceForUpdate locks the live entries of a reference.
func (r *EntryRepository) GetActiveByReferenceForUpdate(ctx context.Context, tx usecase.Transaction, referenceID string) ([]*domain.Entry, error) {
	rows, err := txQueries(tx).GetActiveEntriesByReferenceForUpdate(ctx, referenceID)
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// ExistsByReference reports whether a reference has live entries.
func (r *EntryRepository) ExistsByReference(ctx context.Context, referenceID string) (bool, error) {
	return r.queries.EntryReferenceExists(ctx, referenceID)
}

// GetByAccount retrieves entries by account ID, newest first.
func (r *EntryRepository) GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	rows, err := r.queries.GetEntriesByAccount(ctx, generated.GetEntriesByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// Find scans entries by transaction date, branch and account.
func (r *EntryRepository) Find(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error) {
	rows, err := r.queries.FindEntries(ctx, generated.FindEntriesParams{
		From:           optionalTimestamptz(filter.From),
		To:             optionalTimestamptz(filter.To),
		BranchIds:      nonNil(filter.BranchIDs),
		AccountIds:     nonNil(filter.AccountIDs),
		IncludeDeleted: filter.IncludeDeleted,
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// SumByAccount totals both sides of every entry of an account.
func (r *EntryRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	row, err := r.queries.SumEntriesByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	debit, err := toDecimal(row.TotalDebit)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	credit, err := toDecimal(row.TotalCredit)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return debit, credit, nil
}

// MarkReversed flags entries as reversed. Every id must still be live.
func (r *EntryRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, ids []string) error {
	n, err := txQueries(tx).MarkEntriesReversed(ctx, ids)
	if err != nil {
		return err
	}

	if n != int64(len(ids)) {
		return fmt.Errorf("%w: %d of %d entries were live", domain.ErrEntryNotReversible, n, len(ids))
	}

	return nil
}

// Remove hard-deletes entries.
func (r *EntryRepository) Remove(ctx context.Context, tx usecase.Transaction, ids []string) (int64, error) {
	return txQueries(tx).DeleteEntries(ctx, ids)
}

func rowsToEntries(rows []generated.Entry) []*domain.Entry {
	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries
}

func rowToEntry(row generated.Entry) *domain.Entry {
	return &domain.Entry{
		ID:                  row.ID,
		ReferenceID:         row.ReferenceID,
		AccountID:           row.AccountID,
		AccountNumber:       row.AccountNumber,
		DebitAccountNumber:  row.DebitAccountNumber,
		CreditAccountNumber: row.CreditAccountNumber,
		EventCode:           row.EventCode,
		BranchID:            row.BranchID,
		ExternalBranchID:    row.ExternalBranchID,
		CounterpartyRef:     row.CounterpartyRef,
		Origin:              row.Origin,
		Narration:           row.Narration,
		EntryType:           domain.EntryType(row.EntryType),
		Status:              domain.EntryStatus(row.Status),
		DrAmount:            numericToDecimal(row.DrAmount),
		CrAmount:            numericToDecimal(row.CrAmount),
		Amount:              numericToDecimal(row.Amount),
		IsDeleted:           row.IsDeleted,
		TransactionDate:     row.TransactionDate.Time,
		ValueDate:           row.ValueDate.Time,
		CreatedAt:           row.CreatedAt.Time,
	}
}
