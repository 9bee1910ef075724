package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
)

// RuleRepository implements usecase.RuleRepository.
type RuleRepository struct {
	queries *generated.Queries
}

// NewRuleRepository creates a new RuleRepository.
func NewRuleRepository(pool Pool) *RuleRepository {
	return &RuleRepository{
		queries: generated.New(pool),
	}
}

// GetByEventCode retrieves the rule for an event code.
func (r *RuleRepository) GetByEventCode(ctx context.Context, eventCode string) (*domain.AccountingRule, error) {
	row, err := r.queries.GetRuleByEventCode(ctx, eventCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRuleNotFound, eventCode)
		}

		return nil, err
	}

	return rowToRule(row), nil
}

// Create inserts a rule. Event codes are unique.
func (r *RuleRepository) Create(ctx context.Context, rule *domain.AccountingRule) error {
	err := r.queries.CreateRule(ctx, generated.CreateRuleParams{
		ID:                     rule.ID,
		EventCode:              rule.EventCode,
		DeterminationAccountID: rule.DeterminationAccountID,
		Description:            rule.Description,
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: event code %s already has a rule", domain.ErrInvalidRule, rule.EventCode)
	}

	return err
}

// List returns every rule ordered by event code.
func (r *RuleRepository) List(ctx context.Context) ([]*domain.AccountingRule, error) {
	rows, err := r.queries.ListRules(ctx)
	if err != nil {
		return nil, err
	}

	rules := make([]*domain.AccountingRule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, rowToRule(row))
	}

	return rules, nil
}

func rowToRule(row generated.AccountingRule) *domain.AccountingRule {
	return &domain.AccountingRule{
		ID:                     row.ID,
		EventCode:              row.EventCode,
		DeterminationAccountID: row.DeterminationAccountID,
		Description:            row.Description,
	}
}
