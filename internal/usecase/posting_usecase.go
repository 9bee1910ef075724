package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

// PostingUseCase turns business events into balanced ledger entries.
type PostingUseCase struct {
	*ledgerWriter
	resolver AccountResolver
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	postingRepo PostingRepository,
	resolver AccountResolver,
	idGen IDGenerator,
	logger zerolog.Logger,
) *PostingUseCase {
	return &PostingUseCase{
		ledgerWriter: newLedgerWriter(txManager, accountRepo, entryRepo, postingRepo, idGen, logger),
		resolver:     resolver,
	}
}

// WithRetrier retries serialization and deadlock failures.
func (uc *PostingUseCase) WithRetrier(r Retrier) *PostingUseCase {
	uc.retrier = r
	return uc
}

// WithLocker serialises postings of the same reference across instances.
func (uc *PostingUseCase) WithLocker(l Locker) *PostingUseCase {
	uc.locker = l
	return uc
}

// WithOutbox records events in the posting transaction and publishes them after commit.
func (uc *PostingUseCase) WithOutbox(repo OutboxRepository, publisher EventPublisher) *PostingUseCase {
	uc.outboxRepo = repo
	uc.publisher = publisher
	return uc
}

// WithAudit writes an audit row inside every posting transaction.
func (uc *PostingUseCase) WithAudit(repo AuditRepository) *PostingUseCase {
	uc.auditRepo = repo
	return uc
}

// WithMetrics enables Prometheus instrumentation.
func (uc *PostingUseCase) WithMetrics(m *metrics.Metrics) *PostingUseCase {
	uc.metrics = m
	return uc
}

// AmountLine is one amount of an auto-posting. The destination is the
// account with AccountID, or the account the line's event code resolves to.
type AmountLine struct {
	EventCode string
	AccountID string
	Narration string
	Amount    decimal.Decimal
}

// AutoPostInput represents input for posting a set of amount lines against
// one shared determination account.
type AutoPostInput struct {
	TransactionDate time.Time
	ValueDate       time.Time
	Branch          domain.BranchContext
	ReferenceID     string
	SourceEventCode string
	// SourceAccountID bypasses rule resolution for the shared account.
	SourceAccountID string
	Narration       string
	CounterpartyRef string
	Origin          string
	Lines           []AmountLine
}

// CashRequisitionInput represents a branch drawing cash from an issuing account.
type CashRequisitionInput struct {
	TransactionDate  time.Time
	ValueDate        time.Time
	Branch           domain.BranchContext
	ReferenceID      string
	EventCode        string
	IssuingAccountID string
	Narration        string
	Amount           decimal.Decimal
}

// CommissionInput represents the commission owed to a daily-collection agent.
type CommissionInput struct {
	TransactionDate    time.Time
	Branch             domain.BranchContext
	ReferenceID        string
	EventCode          string
	CollectorAccountID string
	Narration          string
	CollectedAmount    decimal.Decimal
	// Rate is a fraction, e.g. 0.02 for 2%.
	Rate decimal.Decimal
}

// AdjustmentInput represents a non-cash adjustment against the account
// resolved for EventCode.
type AdjustmentInput struct {
	TransactionDate time.Time
	ValueDate       time.Time
	Branch          domain.BranchContext
	ReferenceID     string
	EventCode       string
	AccountID       string
	Narration       string
	Amount          decimal.Decimal
}

// TransferInput represents a direct movement between two accounts. The
// source is credited and the destination debited.
type TransferInput struct {
	TransactionDate      time.Time
	ValueDate            time.Time
	Branch               domain.BranchContext
	ReferenceID          string
	EventCode            string
	SourceAccountID      string
	DestinationAccountID string
	Narration            string
	Amount               decimal.Decimal
}

// accountRef points at an account directly or through an event code.
type accountRef struct {
	accountID string
	eventCode string
}

type planLeg struct {
	determinant accountRef
	balancing   accountRef
	eventCode   string
	narration   string
	amount      decimal.Decimal
	// fixed debits the determinant regardless of event code routing.
	fixed bool
}

type postingPlan struct {
	txDate          time.Time
	valueDate       time.Time
	branch          domain.BranchContext
	operation       domain.PostingOperation
	reference       string
	counterpartyRef string
	origin          string
	legs            []planLeg
}

// AutoPost posts every amount line against the shared determination account.
func (uc *PostingUseCase) AutoPost(ctx context.Context, input AutoPostInput) (*PostingResult, error) {
	if len(input.Lines) == 0 {
		return nil, uc.fail(domain.OperationAutoPost, input.ReferenceID, domain.ErrNoAmountLines)
	}

	if len(input.Lines) > domain.MaxAmountLines {
		return nil, uc.fail(domain.OperationAutoPost, input.ReferenceID,
			fmt.Errorf("%w: at most %d lines", domain.ErrNoAmountLines, domain.MaxAmountLines))
	}

	source := accountRef{accountID: input.SourceAccountID, eventCode: input.SourceEventCode}

	plan := postingPlan{
		operation:       domain.OperationAutoPost,
		reference:       input.ReferenceID,
		branch:          input.Branch,
		txDate:          input.TransactionDate,
		valueDate:       input.ValueDate,
		counterpartyRef: input.CounterpartyRef,
		origin:          input.Origin,
	}

	for _, line := range input.Lines {
		code := line.EventCode
		if code == "" {
			code = input.SourceEventCode
		}

		narration := line.Narration
		if narration == "" {
			narration = input.Narration
		}

		plan.legs = append(plan.legs, planLeg{
			determinant: source,
			balancing:   accountRef{accountID: line.AccountID, eventCode: line.EventCode},
			eventCode:   code,
			narration:   narration,
			amount:      line.Amount,
		})
	}

	return uc.post(ctx, plan)
}

// PostCashRequisition debits the vault account resolved for the event code
// and credits the issuing account.
func (uc *PostingUseCase) PostCashRequisition(ctx context.Context, input CashRequisitionInput) (*PostingResult, error) {
	code := defaultCode(input.EventCode, EventCodeCashRequisition)

	return uc.post(ctx, postingPlan{
		operation: domain.OperationCashRequisition,
		reference: input.ReferenceID,
		branch:    input.Branch,
		txDate:    input.TransactionDate,
		valueDate: input.ValueDate,
		legs: []planLeg{{
			determinant: accountRef{eventCode: code},
			balancing:   accountRef{accountID: input.IssuingAccountID},
			eventCode:   code,
			narration:   defaultCode(input.Narration, "Cash requisition"),
			amount:      input.Amount,
		}},
	})
}

// PostDailyCollectionCommission books CollectedAmount × Rate, rounded to
// cents, against the collector's account.
func (uc *PostingUseCase) PostDailyCollectionCommission(ctx context.Context, input CommissionInput) (*PostingResult, error) {
	if err := domain.ValidateRate(input.Rate); err != nil {
		return nil, uc.fail(domain.OperationCollectionCommission, input.ReferenceID, err)
	}

	if !input.CollectedAmount.IsPositive() {
		return nil, uc.fail(domain.OperationCollectionCommission, input.ReferenceID, domain.ErrInvalidAmount)
	}

	code := defaultCode(input.EventCode, EventCodeCollectionCommission)
	commission := input.CollectedAmount.Mul(input.Rate).Round(2)

	return uc.post(ctx, postingPlan{
		operation: domain.OperationCollectionCommission,
		reference: input.ReferenceID,
		branch:    input.Branch,
		txDate:    input.TransactionDate,
		legs: []planLeg{{
			determinant: accountRef{eventCode: code},
			balancing:   accountRef{accountID: input.CollectorAccountID},
			eventCode:   code,
			narration: defaultCode(input.Narration, fmt.Sprintf("Daily collection commission on %s at %s",
				input.CollectedAmount.StringFixed(2), input.Rate.String())),
			amount: commission,
		}},
	})
}

// PostNonCashAdjustment posts an adjustment between AccountID and the
// account resolved for EventCode.
func (uc *PostingUseCase) PostNonCashAdjustment(ctx context.Context, input AdjustmentInput) (*PostingResult, error) {
	if strings.TrimSpace(input.EventCode) == "" {
		return nil, uc.fail(domain.OperationNonCashAdjustment, input.ReferenceID,
			fmt.Errorf("%w: event code is required", domain.ErrInvalidRule))
	}

	return uc.post(ctx, postingPlan{
		operation: domain.OperationNonCashAdjustment,
		reference: input.ReferenceID,
		branch:    input.Branch,
		txDate:    input.TransactionDate,
		valueDate: input.ValueDate,
		legs: []planLeg{{
			determinant: accountRef{eventCode: input.EventCode},
			balancing:   accountRef{accountID: input.AccountID},
			eventCode:   input.EventCode,
			narration:   defaultCode(input.Narration, "Non-cash adjustment"),
			amount:      input.Amount,
		}},
	})
}

// Transfer credits the source account and debits the destination.
func (uc *PostingUseCase) Transfer(ctx context.Context, input TransferInput) (*PostingResult, error) {
	if input.SourceAccountID == input.DestinationAccountID {
		return nil, uc.fail(domain.OperationTransfer, input.ReferenceID, domain.ErrSameAccount)
	}

	return uc.post(ctx, postingPlan{
		operation: domain.OperationTransfer,
		reference: input.ReferenceID,
		branch:    input.Branch,
		txDate:    input.TransactionDate,
		valueDate: input.ValueDate,
		legs: []planLeg{{
			determinant: accountRef{accountID: input.DestinationAccountID},
			balancing:   accountRef{accountID: input.SourceAccountID},
			eventCode:   defaultCode(input.EventCode, EventCodeTransfer),
			narration:   defaultCode(input.Narration, "Transfer"),
			amount:      input.Amount,
			fixed:       true,
		}},
	})
}

// post runs the shared protocol: validate, lock the reference, check
// idempotency, resolve accounts, build and validate the batch, commit.
func (uc *PostingUseCase) post(ctx context.Context, plan postingPlan) (*PostingResult, error) {
	started := time.Now()

	if err := uc.validatePlan(plan); err != nil {
		return nil, uc.fail(plan.operation, plan.reference, err)
	}

	if plan.txDate.IsZero() {
		plan.txDate = uc.now()
	}

	var (
		result *PostingResult
		rec    commitRecord
	)

	err := uc.serialize(ctx, plan.reference, func(ctx context.Context) error {
		var err error
		result, rec, err = uc.attempt(ctx, plan)

		return err
	})
	if err != nil {
		return nil, uc.fail(plan.operation, plan.reference, err)
	}

	uc.afterCommit(ctx, plan.operation, started, result, rec)

	uc.logger.Info().
		Str("operation", string(plan.operation)).
		Str("reference", plan.reference).
		Str("branch_id", plan.branch.BranchID).
		Int("entries", len(result.Entries)).
		Str("amount", result.Posting.TotalAmount.String()).
		Msg("transaction posted")

	return result, nil
}

func (uc *PostingUseCase) validatePlan(plan postingPlan) error {
	if err := domain.ValidateReference(plan.reference); err != nil {
		return err
	}

	if len(plan.legs) == 0 {
		return domain.ErrNoAmountLines
	}

	for _, leg := range plan.legs {
		if err := domain.ValidateAmount(leg.amount); err != nil {
			return err
		}

		if leg.determinant.accountID == "" && leg.determinant.eventCode == "" {
			return fmt.Errorf("%w: no account or event code for the determination side", domain.ErrAccountNotFound)
		}

		if leg.balancing.accountID == "" && leg.balancing.eventCode == "" {
			return fmt.Errorf("%w: no account or event code for the balancing side", domain.ErrAccountNotFound)
		}
	}

	return nil
}

func (uc *PostingUseCase) attempt(ctx context.Context, plan postingPlan) (*PostingResult, commitRecord, error) {
	var rec commitRecord

	// Statements run under the deadline; commit and rollback are detached from it.
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, rec, storeFailure(err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(txCtx)) }()

	// 1. Idempotency
	existing, err := uc.entryRepo.GetActiveByReferenceForUpdate(txCtx, tx, plan.reference)
	if err != nil {
		return nil, rec, err
	}

	if len(existing) > 0 {
		return nil, rec, domain.ErrDuplicateTransaction
	}

	// 2. Resolve accounts
	resolved := make(map[accountRef]string)

	var ids []string
	for _, leg := range plan.legs {
		for _, ref := range []accountRef{leg.determinant, leg.balancing} {
			id, err := uc.resolve(txCtx, ref, plan.branch, resolved)
			if err != nil {
				return nil, rec, err
			}

			ids = append(ids, id)
		}
	}

	// 3. Lock accounts in sorted order
	accounts, err := uc.lockAccounts(txCtx, tx, ids)
	if err != nil {
		return nil, rec, err
	}

	// 4. Build entry pairs
	now := uc.now()
	batch := domain.NewPostingBatch(plan.reference)
	for _, a := range accounts {
		batch.Track(a)
	}

	for _, leg := range plan.legs {
		booking, err := domain.NewBooking(plan.reference, leg.eventCode, leg.narration, plan.branch.BranchID, leg.amount)
		if err != nil {
			return nil, rec, err
		}

		pair := domain.CashMovementAccount{
			Determinant: accounts[resolved[leg.determinant]],
			Balancing:   accounts[resolved[leg.balancing]],
		}

		debit, credit := pair.Determinant, pair.Balancing
		if !leg.fixed {
			debit, credit = pair.Route(leg.eventCode)
		}

		entries, err := domain.CashMovement(domain.CashMovementInput{
			Booking:          booking,
			DebitAccount:     debit,
			CreditAccount:    credit,
			TransactionDate:  plan.txDate,
			ValueDate:        plan.valueDate,
			CreatedAt:        now,
			CounterpartyRef:  plan.counterpartyRef,
			Origin:           plan.origin,
			ExternalBranchID: plan.branch.ExternalBranchID,
			NewID:            uc.idGen.Generate,
		})
		if err != nil {
			return nil, rec, err
		}

		if err := batch.Add(entries...); err != nil {
			return nil, rec, err
		}
	}

	// 5. Double-entry invariant
	if err := batch.Validate(); err != nil {
		return nil, rec, err
	}

	// 6. Persist and commit
	posting := &domain.Posting{
		ReferenceID: plan.reference,
		Operation:   plan.operation,
		BranchID:    plan.branch.BranchID,
		TotalAmount: batchTotal(batch),
		EntryCount:  len(batch.Entries()),
		CreatedAt:   now,
	}

	touched := batch.Accounts()
	rec = commitRecord{
		posting: posting,
		audit:   uc.auditLog(plan.branch, domain.AuditActionTransactionPost, plan.reference, posting, now),
		event: &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   plan.reference,
			AggregateType: domain.AggregateTypeTransaction,
			EventType:     domain.EventTypeTransactionPosted,
			Payload: domain.Payload(domain.TransactionPostedEvent{
				ReferenceID: plan.reference,
				Operation:   string(plan.operation),
				BranchID:    plan.branch.BranchID,
				TotalAmount: posting.TotalAmount.String(),
				EntryIDs:    entryIDs(batch.Entries()),
				AccountIDs:  accountIDs(touched),
				PostedAt:    now.Format(time.RFC3339),
			}),
			CreatedAt: now,
		},
	}

	if err := uc.write(txCtx, tx, batch, rec); err != nil {
		return nil, rec, err
	}

	return &PostingResult{Posting: posting, Entries: batch.Entries(), Accounts: touched}, rec, nil
}

func (uc *PostingUseCase) resolve(ctx context.Context, ref accountRef, branch domain.BranchContext, cache map[accountRef]string) (string, error) {
	if id, ok := cache[ref]; ok {
		return id, nil
	}

	id := ref.accountID
	if id == "" {
		account, err := uc.resolver.ResolveDeterminationAccount(ctx, ref.eventCode, branch)
		if err != nil {
			return "", err
		}

		id = account.ID
	}

	cache[ref] = id

	return id, nil
}

func defaultCode(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}

	return v
}
