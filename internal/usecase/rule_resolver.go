package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

// RuleResolver maps event codes to determination accounts through the rule
// table. Rules are cached; accounts are always read from the store.
type RuleResolver struct {
	ruleRepo    RuleRepository
	accountRepo AccountRepository
	cache       Cache
	cacheTTL    time.Duration
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewRuleResolver creates a new RuleResolver. cache may be nil.
func NewRuleResolver(ruleRepo RuleRepository, accountRepo AccountRepository, cache Cache, cacheTTL time.Duration, logger zerolog.Logger) *RuleResolver {
	if cacheTTL <= 0 {
		cacheTTL = DefaultRuleCacheTTL
	}

	return &RuleResolver{
		ruleRepo:    ruleRepo,
		accountRepo: accountRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// WithMetrics enables cache hit/miss counting.
func (r *RuleResolver) WithMetrics(m *metrics.Metrics) *RuleResolver {
	r.metrics = m
	return r
}

func ruleCacheKey(eventCode string) string {
	return "rule:" + eventCode
}

// Rule returns the accounting rule for eventCode.
func (r *RuleResolver) Rule(ctx context.Context, eventCode string) (*domain.AccountingRule, error) {
	if r.cache != nil {
		if data, err := r.cache.Get(ctx, ruleCacheKey(eventCode)); err == nil && data != nil {
			var rule domain.AccountingRule
			if err := json.Unmarshal(data, &rule); err == nil {
				r.count("hit")
				return &rule, nil
			}
		}

		r.count("miss")
	}

	rule, err := r.ruleRepo.GetByEventCode(ctx, eventCode)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if data, err := json.Marshal(rule); err == nil {
			if err := r.cache.Set(ctx, ruleCacheKey(eventCode), data, r.cacheTTL); err != nil {
				r.logger.Debug().Err(err).Str("event_code", eventCode).Msg("rule cache write failed")
			}
		}
	}

	return rule, nil
}

// ResolveDeterminationAccount returns the active account that realises the
// rule's chart position in the caller's branch.
func (r *RuleResolver) ResolveDeterminationAccount(ctx context.Context, eventCode string, branch domain.BranchContext) (*domain.Account, error) {
	rule, err := r.Rule(ctx, eventCode)
	if err != nil {
		return nil, err
	}

	account, err := r.accountRepo.GetByChartPosition(ctx, rule.DeterminationAccountID, branch.BranchID, branch.BranchCode)
	if err != nil {
		return nil, fmt.Errorf("event %s, chart account %s, branch %s: %w",
			eventCode, rule.DeterminationAccountID, branch.BranchID, err)
	}

	return account, nil
}

// Invalidate drops a cached rule.
func (r *RuleResolver) Invalidate(ctx context.Context, eventCode string) error {
	if r.cache == nil {
		return nil
	}

	return r.cache.Delete(ctx, ruleCacheKey(eventCode))
}

func (r *RuleResolver) count(result string) {
	if r.metrics != nil {
		r.metrics.RuleCacheLookups.WithLabelValues(result).Inc()
	}
}
