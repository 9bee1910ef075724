package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/domain"
)

// RuleUseCase manages accounting rules.
type RuleUseCase struct {
	ruleRepo  RuleRepository
	resolver  *RuleResolver
	auditRepo AuditRepository
	txManager TransactionManager
	idGen     IDGenerator
	logger    zerolog.Logger
}

// NewRuleUseCase creates a new RuleUseCase.
func NewRuleUseCase(ruleRepo RuleRepository, resolver *RuleResolver, idGen IDGenerator, logger zerolog.Logger) *RuleUseCase {
	return &RuleUseCase{
		ruleRepo: ruleRepo,
		resolver: resolver,
		idGen:    idGen,
		logger:   logger,
	}
}

// WithAudit records rule changes in the audit trail.
func (uc *RuleUseCase) WithAudit(txManager TransactionManager, repo AuditRepository) *RuleUseCase {
	uc.txManager = txManager
	uc.auditRepo = repo
	return uc
}

// CreateRuleInput represents input for creating a rule.
type CreateRuleInput struct {
	Branch                 domain.BranchContext
	EventCode              string
	DeterminationAccountID string
	Description            string
}

// CreateRule stores a rule and drops any cached copy of its event code.
func (uc *RuleUseCase) CreateRule(ctx context.Context, input CreateRuleInput) (*domain.AccountingRule, error) {
	rule := &domain.AccountingRule{
		ID:                     uc.idGen.Generate(),
		EventCode:              input.EventCode,
		DeterminationAccountID: input.DeterminationAccountID,
		Description:            input.Description,
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	if err := uc.resolver.Invalidate(ctx, rule.EventCode); err != nil {
		uc.logger.Warn().Err(err).Str("event_code", rule.EventCode).Msg("failed to invalidate rule cache")
	}

	uc.audit(ctx, input.Branch, rule)

	uc.logger.Info().
		Str("event_code", rule.EventCode).
		Str("determination_account_id", rule.DeterminationAccountID).
		Msg("accounting rule created")

	return rule, nil
}

// GetRule returns the rule for an event code.
func (uc *RuleUseCase) GetRule(ctx context.Context, eventCode string) (*domain.AccountingRule, error) {
	return uc.resolver.Rule(ctx, eventCode)
}

// ListRules returns every rule.
func (uc *RuleUseCase) ListRules(ctx context.Context) ([]*domain.AccountingRule, error) {
	return uc.ruleRepo.List(ctx)
}

// audit is best effort: the rule is already stored.
func (uc *RuleUseCase) audit(ctx context.Context, branch domain.BranchContext, rule *domain.AccountingRule) {
	if uc.auditRepo == nil || uc.txManager == nil {
		return
	}

	log := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       branch.Actor(),
		BranchID:     branch.BranchID,
		Action:       string(domain.AuditActionRuleCreate),
		ResourceType: domain.AuditResourceRule,
		ResourceID:   rule.EventCode,
		RequestID:    branch.RequestID,
		AfterState:   domain.MarshalState(rule),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("failed to audit rule creation")
		return
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		uc.logger.Warn().Err(err).Msg("failed to audit rule creation")
		return
	}

	if err := tx.Commit(ctx); err != nil {
		uc.logger.Warn().Err(err).Msg("failed to audit rule creation")
	}
}
