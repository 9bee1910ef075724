package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	auditRepo   AuditRepository
	outboxRepo  OutboxRepository
	publisher   EventPublisher
	idGen       IDGenerator
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(txManager TransactionManager, accountRepo AccountRepository, idGen IDGenerator, logger zerolog.Logger) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		idGen:       idGen,
		logger:      logger,
	}
}

// WithAudit records account lifecycle changes in the audit trail.
func (uc *AccountUseCase) WithAudit(repo AuditRepository) *AccountUseCase {
	uc.auditRepo = repo
	return uc
}

// WithOutbox records account events and publishes them after commit.
func (uc *AccountUseCase) WithOutbox(repo OutboxRepository, publisher EventPublisher) *AccountUseCase {
	uc.outboxRepo = repo
	uc.publisher = publisher
	return uc
}

// WithMetrics enables Prometheus instrumentation.
func (uc *AccountUseCase) WithMetrics(m *metrics.Metrics) *AccountUseCase {
	uc.metrics = m
	return uc
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Branch         domain.BranchContext
	AccountNumber  string
	Name           string
	OwnerID        string
	ChartAccountID string
	CategoryID     string
	Category       string
}

// CreateAccount opens a zero-balance account in the caller's branch.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	category, err := domain.ParseAccountCategory(input.Category)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		AccountNumber:  input.AccountNumber,
		Name:           input.Name,
		BranchID:       input.Branch.BranchID,
		BranchCode:     input.Branch.BranchCode,
		OwnerID:        input.OwnerID,
		ChartAccountID: input.ChartAccountID,
		CategoryID:     input.CategoryID,
		Category:       category,
		Balance:        decimal.Zero,
		Version:        0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountCreated,
		Payload: domain.Payload(domain.AccountCreatedEvent{
			AccountID:     account.ID,
			AccountNumber: account.AccountNumber,
			BranchID:      account.BranchID,
			Category:      string(account.Category),
		}),
		CreatedAt: now,
	}

	err = uc.inTx(ctx, func(tx Transaction) error {
		if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
			return err
		}

		return uc.record(ctx, tx, input.Branch, domain.AuditActionAccountCreate, account.ID, nil, account, event, now)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	uc.publish(ctx, event)

	uc.logger.Info().
		Str("account_id", account.ID).
		Str("account_number", account.AccountNumber).
		Str("branch_id", account.BranchID).
		Msg("account created")

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	BranchIDs      []string
	Categories     []domain.AccountCategory
	IncludeRetired bool
	Limit          int
	Offset         int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return uc.accountRepo.List(ctx, domain.AccountFilter{
		BranchIDs:      input.BranchIDs,
		Categories:     input.Categories,
		IncludeRetired: input.IncludeRetired,
		Limit:          limit,
		Offset:         offset,
	})
}

// RetireAccount logically retires an account. Retired accounts keep their
// history but can no longer be posted to or resolved by rules.
func (uc *AccountUseCase) RetireAccount(ctx context.Context, branch domain.BranchContext, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if account.Retired {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountRetired, id)
	}

	now := time.Now().UTC()
	before := *account

	account.Retired = true
	account.UpdatedAt = now

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountRetired,
		Payload:       domain.Payload(map[string]string{"account_id": account.ID}),
		CreatedAt:     now,
	}

	err = uc.inTx(ctx, func(tx Transaction) error {
		if err := uc.accountRepo.Retire(ctx, tx, id, now); err != nil {
			return err
		}

		return uc.record(ctx, tx, branch, domain.AuditActionAccountRetire, id, &before, account, event, now)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsRetired.Inc()
	}

	uc.publish(ctx, event)

	uc.logger.Info().Str("account_id", id).Str("user_id", branch.Actor()).Msg("account retired")

	return account, nil
}

func (uc *AccountUseCase) inTx(ctx context.Context, fn func(tx Transaction) error) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(context.WithoutCancel(ctx))
}

func (uc *AccountUseCase) record(
	ctx context.Context,
	tx Transaction,
	branch domain.BranchContext,
	action domain.AuditAction,
	accountID string,
	before, after any,
	event *domain.OutboxEvent,
	at time.Time,
) error {
	if uc.auditRepo != nil {
		log := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       branch.Actor(),
			BranchID:     branch.BranchID,
			Action:       string(action),
			ResourceType: domain.AuditResourceAccount,
			ResourceID:   accountID,
			RequestID:    branch.RequestID,
			BeforeState:  domain.MarshalState(before),
			AfterState:   domain.MarshalState(after),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    at,
		}

		if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
			return err
		}
	}

	if uc.outboxRepo != nil {
		return uc.outboxRepo.Create(ctx, tx, event)
	}

	return nil
}

func (uc *AccountUseCase) publish(ctx context.Context, event *domain.OutboxEvent) {
	if uc.publisher == nil || uc.outboxRepo == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := uc.publisher.Publish(pubCtx, event); err != nil {
		uc.logger.Warn().Err(err).Str("event_id", event.ID).Msg("event publish failed, left in outbox")
		return
	}

	if err := uc.outboxRepo.MarkPublished(pubCtx, event.ID, time.Now().UTC()); err != nil {
		uc.logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to mark event as published")
	}
}
