package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// RuleService defines the behavior needed by RuleHandler.
type RuleService interface {
	CreateRule(ctx context.Context, input usecase.CreateRuleInput) (*domain.AccountingRule, error)
	GetRule(ctx context.Context, eventCode string) (*domain.AccountingRule, error)
	ListRules(ctx context.Context) ([]*domain.AccountingRule, error)
}

// RuleHandler handles accounting rule requests.
type RuleHandler struct {
	ruleUC RuleService
}

// NewRuleHandler creates a new RuleHandler.
func NewRuleHandler(ruleUC RuleService) *RuleHandler {
	return &RuleHandler{ruleUC: ruleUC}
}

// Create registers a rule.
func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRuleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rule, err := h.ruleUC.CreateRule(r.Context(), req.ToUseCaseInput(middleware.BranchFromContext(r.Context())))
	if err != nil {
		respondError(w, r, "failed to create rule", err)
		return
	}

	writeJSON(w, http.StatusCreated, rule)
}

// Get returns the rule for an event code.
func (h *RuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	rule, err := h.ruleUC.GetRule(r.Context(), chi.URLParam(r, "eventCode"))
	if err != nil {
		respondError(w, r, "failed to get rule", err)
		return
	}

	writeJSON(w, http.StatusOK, rule)
}

// List returns every rule.
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.ruleUC.ListRules(r.Context())
	if err != nil {
		respondError(w, r, "failed to list rules", err)
		return
	}

	if rules == nil {
		rules = []*domain.AccountingRule{}
	}

	writeJSON(w, http.StatusOK, rules)
}
