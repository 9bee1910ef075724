package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

// PostingResult is the committed outcome of a posting or reversal.
type PostingResult struct {
	Posting  *domain.Posting
	Entries  []*domain.Entry
	Accounts []*domain.Account
}

// ledgerWriter holds the collaborators shared by every balance-affecting
// operation: reference locking, retries, the atomic write and post-commit
// side effects.
type ledgerWriter struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	postingRepo PostingRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	retrier     Retrier
	locker      Locker
	publisher   EventPublisher
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	now         func() time.Time
}

func newLedgerWriter(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	postingRepo PostingRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *ledgerWriter {
	return &ledgerWriter{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		postingRepo: postingRepo,
		idGen:       idGen,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// commitRecord is everything written for one reference besides the entries.
type commitRecord struct {
	posting *domain.Posting
	audit   *domain.AuditLog
	event   *domain.OutboxEvent
	// reversedIDs are original entries retired by a reversal.
	reversedIDs []string
}

func lockKey(reference string) string {
	return "ledger:reference:" + reference
}

// serialize runs fn under the reference lock, retrying transient store
// failures as a whole.
func (w *ledgerWriter) serialize(ctx context.Context, reference string, fn func(ctx context.Context) error) error {
	attempt := func(ctx context.Context) error {
		if w.retrier == nil {
			return fn(ctx)
		}

		return w.retrier.Retry(ctx, func() error { return fn(ctx) })
	}

	if w.locker == nil {
		return attempt(ctx)
	}

	return w.locker.WithLock(ctx, lockKey(reference), attempt)
}

// lockAccounts loads and locks accounts in sorted id order.
func (w *ledgerWriter) lockAccounts(ctx context.Context, tx Transaction, ids []string) (map[string]*domain.Account, error) {
	ids = uniqueSorted(ids)

	accounts, err := w.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
		}
	}

	return byID, nil
}

// write persists the batch and its records inside tx and commits. Commit
// runs detached from caller cancellation.
func (w *ledgerWriter) write(ctx context.Context, tx Transaction, batch *domain.PostingBatch, rec commitRecord) error {
	if err := w.postingRepo.Create(ctx, tx, rec.posting); err != nil {
		return storeFailure(err)
	}

	if err := w.entryRepo.CreateBatch(ctx, tx, batch.Entries()); err != nil {
		return storeFailure(err)
	}

	if len(rec.reversedIDs) > 0 {
		if err := w.entryRepo.MarkReversed(ctx, tx, rec.reversedIDs); err != nil {
			return storeFailure(err)
		}
	}

	now := rec.posting.CreatedAt
	for _, account := range batch.Accounts() {
		if err := w.accountRepo.UpdateBalance(ctx, tx, account.ID, account.Balance, now); err != nil {
			return storeFailure(err)
		}
	}

	if w.auditRepo != nil && rec.audit != nil {
		if err := w.auditRepo.CreateTx(ctx, tx, rec.audit); err != nil {
			return storeFailure(err)
		}
	}

	if w.outboxRepo != nil && rec.event != nil {
		if err := w.outboxRepo.Create(ctx, tx, rec.event); err != nil {
			return storeFailure(err)
		}
	}

	if err := tx.Commit(context.WithoutCancel(ctx)); err != nil {
		return storeFailure(err)
	}

	return nil
}

// afterCommit records metrics and hands the event to the broker. Delivery
// failures leave the outbox row unpublished for a later flush.
func (w *ledgerWriter) afterCommit(ctx context.Context, op domain.PostingOperation, started time.Time, result *PostingResult, rec commitRecord) {
	if w.metrics != nil {
		w.metrics.PostingsCreated.WithLabelValues(string(op)).Inc()
		w.metrics.PostingDuration.WithLabelValues(string(op)).Observe(time.Since(started).Seconds())
		w.metrics.PostingAmount.Observe(result.Posting.TotalAmount.InexactFloat64())
		w.metrics.EntriesWritten.Add(float64(len(result.Entries)))
		if op == domain.OperationReversal {
			w.metrics.PostingsReversed.Inc()
		}
		if rec.audit != nil && w.auditRepo != nil {
			w.metrics.AuditLogsCreated.WithLabelValues(rec.audit.Action, rec.audit.Status).Inc()
		}
	}

	if w.publisher == nil || rec.event == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := w.publisher.Publish(pubCtx, rec.event); err != nil {
		w.logger.Warn().Err(err).
			Str("reference", result.Posting.ReferenceID).
			Str("event_id", rec.event.ID).
			Msg("event publish failed, left in outbox")
		w.countEvent("failed")

		return
	}

	w.countEvent("published")

	if w.outboxRepo != nil {
		if err := w.outboxRepo.MarkPublished(pubCtx, rec.event.ID, w.now()); err != nil {
			w.logger.Warn().Err(err).Str("event_id", rec.event.ID).Msg("failed to mark event as published")
		}
	}
}

func (w *ledgerWriter) countEvent(status string) {
	if w.metrics != nil {
		w.metrics.EventsPublished.WithLabelValues(status).Inc()
	}
}

// fail logs and counts an operation failure and attaches the reference.
func (w *ledgerWriter) fail(op domain.PostingOperation, reference string, err error) error {
	label := errorLabel(err)

	evt := w.logger.Warn()
	if label == "store" || label == "internal" {
		evt = w.logger.Error()
	}

	evt.Err(err).
		Str("operation", string(op)).
		Str("reference", reference).
		Str("error_type", label).
		Msg("ledger operation failed")

	if w.metrics != nil {
		w.metrics.PostingErrors.WithLabelValues(string(op), label).Inc()
	}

	return domain.NewTransactionError(reference, err)
}

func (w *ledgerWriter) auditLog(branch domain.BranchContext, action domain.AuditAction, reference string, after any, at time.Time) *domain.AuditLog {
	return &domain.AuditLog{
		ID:           w.idGen.Generate(),
		UserID:       branch.Actor(),
		BranchID:     branch.BranchID,
		Action:       string(action),
		ResourceType: domain.AuditResourceTransaction,
		ResourceID:   reference,
		RequestID:    branch.RequestID,
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    at,
	}
}

func storeFailure(err error) error {
	if errors.Is(err, domain.ErrDuplicateTransaction) || errors.Is(err, domain.ErrStoreCommitFailure) {
		return err
	}

	return fmt.Errorf("%w: %w", domain.ErrStoreCommitFailure, err)
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateTransaction), errors.Is(err, domain.ErrTransactionInProgress):
		return "duplicate"
	case errors.Is(err, domain.ErrRuleNotFound):
		return "rule_not_found"
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrEntriesNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDoubleEntryViolation):
		return "double_entry"
	case errors.Is(err, domain.ErrStoreCommitFailure):
		return "store"
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidReference),
		errors.Is(err, domain.ErrSameAccount), errors.Is(err, domain.ErrNoAmountLines),
		errors.Is(err, domain.ErrAmountTooLarge), errors.Is(err, domain.ErrAmountTooSmall),
		errors.Is(err, domain.ErrInvalidRate), errors.Is(err, domain.ErrAccountRetired),
		errors.Is(err, domain.ErrEntryNotReversible), errors.Is(err, domain.ErrInvalidRule):
		return "validation"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	sort.Strings(out)

	return out
}

func entryIDs(entries []*domain.Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	return ids
}

func accountIDs(accounts []*domain.Account) []string {
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}

	return ids
}

func batchTotal(batch *domain.PostingBatch) decimal.Decimal {
	debit, _ := batch.Totals()
	return debit
}
