package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
	"github.com/iho/bankledger/internal/usecase"
)

// PostingRepository implements usecase.PostingRepository.
type PostingRepository struct {
	queries *generated.Queries
}

// NewPostingRepository creates a new PostingRepository.
func NewPostingRepository(pool Pool) *PostingRepository {
	return &PostingRepository{
		queries: generated.New(pool),
	}
}

// Create inserts the posting header. The reference_id primary key turns a
// concurrent second commit of the same reference into ErrDuplicateTransaction.
func (r *PostingRepository) Create(ctx context.Context, tx usecase.Transaction, posting *domain.Posting) error {
	err := txQueries(tx).CreatePosting(ctx, generated.CreatePostingParams{
		ReferenceID: posting.ReferenceID,
		Operation:   string(posting.Operation),
		BranchID:    posting.BranchID,
		ReversalOf:  posting.ReversalOf,
		TotalAmount: decimalToNumeric(posting.TotalAmount),
		EntryCount:  int32(posting.EntryCount),
		CreatedAt:   timeToPgTimestamptz(posting.CreatedAt),
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateTransaction, posting.ReferenceID)
	}

	return err
}

// GetByReference retrieves a posting header.
func (r *PostingRepository) GetByReference(ctx context.Context, referenceID string) (*domain.Posting, error) {
	row, err := r.queries.GetPostingByReference(ctx, referenceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrEntriesNotFound, referenceID)
		}

		return nil, err
	}

	return &domain.Posting{
		ReferenceID: row.ReferenceID,
		Operation:   domain.PostingOperation(row.Operation),
		BranchID:    row.BranchID,
		ReversalOf:  row.ReversalOf,
		TotalAmount: numericToDecimal(row.TotalAmount),
		EntryCount:  int(row.EntryCount),
		CreatedAt:   row.CreatedAt.Time,
	}, nil
}
