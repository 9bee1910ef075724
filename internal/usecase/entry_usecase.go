package usecase

import (
	"context"
	"fmt"

	"github.com/iho/bankledger/internal/domain"
)

// EntryUseCase handles entry and transaction lookups.
type EntryUseCase struct {
	entryRepo   EntryRepository
	postingRepo PostingRepository
	auditRepo   AuditRepository
}

// NewEntryUseCase creates a new EntryUseCase. auditRepo may be nil.
func NewEntryUseCase(entryRepo EntryRepository, postingRepo PostingRepository, auditRepo AuditRepository) *EntryUseCase {
	return &EntryUseCase{
		entryRepo:   entryRepo,
		postingRepo: postingRepo,
		auditRepo:   auditRepo,
	}
}

// TransactionExists reports whether any entry was ever posted under reference.
func (uc *EntryUseCase) TransactionExists(ctx context.Context, referenceID string) (bool, error) {
	if err := domain.ValidateReference(referenceID); err != nil {
		return false, err
	}

	return uc.entryRepo.ExistsByReference(ctx, referenceID)
}

// TransactionView is a committed posting header with all of its entries.
type TransactionView struct {
	Posting *domain.Posting
	Entries []*domain.Entry
}

// GetTransaction returns the header and entries of a reference. Reversed
// originals are included and flagged deleted.
func (uc *EntryUseCase) GetTransaction(ctx context.Context, referenceID string) (*TransactionView, error) {
	posting, err := uc.postingRepo.GetByReference(ctx, referenceID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.GetEntriesByReference(ctx, referenceID)
	if err != nil {
		return nil, err
	}

	return &TransactionView{Posting: posting, Entries: entries}, nil
}

// GetEntriesByReference lists every entry of a reference.
func (uc *EntryUseCase) GetEntriesByReference(ctx context.Context, referenceID string) ([]*domain.Entry, error) {
	entries, err := uc.entryRepo.GetByReference(ctx, referenceID)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntriesNotFound, referenceID)
	}

	return entries, nil
}

// GetEntriesByAccountInput represents input for listing entries.
type GetEntriesByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// GetEntriesByAccount lists entries for an account.
func (uc *EntryUseCase) GetEntriesByAccount(ctx context.Context, input GetEntriesByAccountInput) ([]*domain.Entry, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return uc.entryRepo.GetByAccount(ctx, input.AccountID, limit, offset)
}

// GetAuditTrail returns the audit rows recorded for a reference.
func (uc *EntryUseCase) GetAuditTrail(ctx context.Context, referenceID string) ([]*domain.AuditLog, error) {
	if uc.auditRepo == nil {
		return []*domain.AuditLog{}, nil
	}

	return uc.auditRepo.GetByResourceID(ctx, domain.AuditResourceTransaction, referenceID)
}
