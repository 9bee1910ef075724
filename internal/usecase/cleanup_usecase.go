package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/domain"
)

// CleanupUseCase performs administrative hard deletes. Nothing else in the
// ledger removes rows.
type CleanupUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	logger      zerolog.Logger
}

// NewCleanupUseCase creates a new CleanupUseCase. auditRepo may be nil.
func NewCleanupUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *CleanupUseCase {
	return &CleanupUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		logger:      logger,
	}
}

// RemoveEntries hard-deletes entries by id and returns how many were removed.
func (uc *CleanupUseCase) RemoveEntries(ctx context.Context, branch domain.BranchContext, ids []string) (int64, error) {
	return uc.remove(ctx, branch, ids, domain.AuditActionEntryRemove, domain.AuditResourceEntry,
		func(tx Transaction) (int64, error) { return uc.entryRepo.Remove(ctx, tx, ids) })
}

// RemoveAccounts hard-deletes accounts by id and returns how many were removed.
func (uc *CleanupUseCase) RemoveAccounts(ctx context.Context, branch domain.BranchContext, ids []string) (int64, error) {
	return uc.remove(ctx, branch, ids, domain.AuditActionAccountRemove, domain.AuditResourceAccount,
		func(tx Transaction) (int64, error) { return uc.accountRepo.Remove(ctx, tx, ids) })
}

func (uc *CleanupUseCase) remove(
	ctx context.Context,
	branch domain.BranchContext,
	ids []string,
	action domain.AuditAction,
	resource string,
	del func(tx Transaction) (int64, error),
) (int64, error) {
	ids = uniqueSorted(ids)
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no ids given", domain.ErrInvalidReference)
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	removed, err := del(tx)
	if err != nil {
		return 0, err
	}

	if uc.auditRepo != nil {
		now := time.Now().UTC()
		for _, id := range ids {
			log := &domain.AuditLog{
				ID:           uc.idGen.Generate(),
				UserID:       branch.Actor(),
				BranchID:     branch.BranchID,
				Action:       string(action),
				ResourceType: resource,
				ResourceID:   id,
				RequestID:    branch.RequestID,
				Status:       string(domain.AuditStatusSuccess),
				CreatedAt:    now,
			}

			if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(context.WithoutCancel(ctx)); err != nil {
		return 0, err
	}

	uc.logger.Warn().
		Str("action", string(action)).
		Str("user_id", branch.Actor()).
		Int64("removed", removed).
		Strs("ids", ids).
		Msg("rows removed")

	return removed, nil
}
