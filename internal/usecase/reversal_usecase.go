package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

// ReversalUseCase undoes posted transactions with offsetting entries.
type ReversalUseCase struct {
	*ledgerWriter
}

// NewReversalUseCase creates a new ReversalUseCase.
func NewReversalUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	postingRepo PostingRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *ReversalUseCase {
	return &ReversalUseCase{
		ledgerWriter: newLedgerWriter(txManager, accountRepo, entryRepo, postingRepo, idGen, logger),
	}
}

// WithRetrier retries serialization and deadlock failures.
func (uc *ReversalUseCase) WithRetrier(r Retrier) *ReversalUseCase {
	uc.retrier = r
	return uc
}

// WithLocker serialises work on the same reference across instances.
func (uc *ReversalUseCase) WithLocker(l Locker) *ReversalUseCase {
	uc.locker = l
	return uc
}

// WithOutbox records events in the reversal transaction and publishes them after commit.
func (uc *ReversalUseCase) WithOutbox(repo OutboxRepository, publisher EventPublisher) *ReversalUseCase {
	uc.outboxRepo = repo
	uc.publisher = publisher
	return uc
}

// WithAudit writes an audit row inside every reversal transaction.
func (uc *ReversalUseCase) WithAudit(repo AuditRepository) *ReversalUseCase {
	uc.auditRepo = repo
	return uc
}

// WithMetrics enables Prometheus instrumentation.
func (uc *ReversalUseCase) WithMetrics(m *metrics.Metrics) *ReversalUseCase {
	uc.metrics = m
	return uc
}

// ReverseInput represents input for reversing a transaction.
type ReverseInput struct {
	Branch      domain.BranchContext
	ReferenceID string
}

// Reverse offsets every posted entry of a reference. The originals are kept
// and flagged deleted; the reversal legs are committed under the reversal
// reference together with the restored balances.
func (uc *ReversalUseCase) Reverse(ctx context.Context, input ReverseInput) (*PostingResult, error) {
	started := time.Now()
	op := domain.OperationReversal

	if err := domain.ValidateReference(input.ReferenceID); err != nil {
		return nil, uc.fail(op, input.ReferenceID, err)
	}

	var (
		result *PostingResult
		rec    commitRecord
	)

	err := uc.serialize(ctx, input.ReferenceID, func(ctx context.Context) error {
		var err error
		result, rec, err = uc.attempt(ctx, input)

		return err
	})
	if err != nil {
		return nil, uc.fail(op, input.ReferenceID, err)
	}

	uc.afterCommit(ctx, op, started, result, rec)

	uc.logger.Info().
		Str("reference", input.ReferenceID).
		Str("reversal_reference", result.Posting.ReferenceID).
		Int("entries", len(result.Entries)).
		Msg("transaction reversed")

	return result, nil
}

func (uc *ReversalUseCase) attempt(ctx context.Context, input ReverseInput) (*PostingResult, commitRecord, error) {
	var rec commitRecord

	// Statements run under the deadline; commit and rollback are detached from it.
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, rec, storeFailure(err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(txCtx)) }()

	originals, err := uc.entryRepo.GetActiveByReferenceForUpdate(txCtx, tx, input.ReferenceID)
	if err != nil {
		return nil, rec, err
	}

	if len(originals) == 0 {
		return nil, rec, domain.ErrEntriesNotFound
	}

	ids := make([]string, 0, len(originals))
	for _, e := range originals {
		ids = append(ids, e.AccountID)
	}

	accounts, err := uc.lockAccounts(txCtx, tx, ids)
	if err != nil {
		return nil, rec, err
	}

	now := uc.now()
	reversalRef := domain.ReversalReference(input.ReferenceID)

	batch := domain.NewPostingBatch(reversalRef)
	for _, a := range accounts {
		batch.Track(a)
	}

	for _, orig := range originals {
		rev, err := orig.Reversal(now)
		if err != nil {
			return nil, rec, err
		}

		if err := batch.Add(rev); err != nil {
			return nil, rec, err
		}

		accounts[rev.AccountID].Apply(rev)
	}

	if err := batch.Validate(); err != nil {
		return nil, rec, err
	}

	posting := &domain.Posting{
		ReferenceID: reversalRef,
		Operation:   domain.OperationReversal,
		BranchID:    input.Branch.BranchID,
		ReversalOf:  input.ReferenceID,
		TotalAmount: batchTotal(batch),
		EntryCount:  len(batch.Entries()),
		CreatedAt:   now,
	}

	rec = commitRecord{
		posting:     posting,
		reversedIDs: entryIDs(originals),
		audit:       uc.auditLog(input.Branch, domain.AuditActionTransactionReverse, input.ReferenceID, posting, now),
		event: &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   input.ReferenceID,
			AggregateType: domain.AggregateTypeTransaction,
			EventType:     domain.EventTypeTransactionReversed,
			Payload: domain.Payload(domain.TransactionReversedEvent{
				ReferenceID:         reversalRef,
				OriginalReferenceID: input.ReferenceID,
				TotalAmount:         posting.TotalAmount.String(),
				EntryIDs:            entryIDs(batch.Entries()),
				ReversedAt:          now.Format(time.RFC3339),
			}),
			CreatedAt: now,
		},
	}

	if err := uc.write(txCtx, tx, batch, rec); err != nil {
		return nil, rec, err
	}

	for _, orig := range originals {
		orig.MarkReversed()
	}

	return &PostingResult{Posting: posting, Entries: batch.Entries(), Accounts: batch.Accounts()}, rec, nil
}
