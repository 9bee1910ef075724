package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	GenerateTrialBalance(ctx context.Context, input usecase.TrialBalanceInput) (*domain.TrialBalance4Column, error)
	GenerateTrialBalance6(ctx context.Context, input usecase.TrialBalanceInput) (*domain.TrialBalance6Column, error)
	GenerateBalanceSheet(ctx context.Context, input usecase.StatementInput) (*domain.BalanceSheet, error)
	GenerateIncomeExpenseStatement(ctx context.Context, input usecase.StatementInput) (*domain.IncomeExpenseStatement, error)
	ListSnapshots(ctx context.Context, kind domain.ReportKind, limit int) ([]*domain.ReportSnapshot, error)
}

// ReportHandler handles report requests. Periods are passed as from and to
// query parameters in YYYY-MM-DD form and cover both days.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// TrialBalance returns the 4-column trial balance, or the 6-column one
// when columns=6.
func (h *ReportHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		respondError(w, r, "invalid period", err)
		return
	}

	categories, err := parseCategories(parseListQuery(r, "category"))
	if err != nil {
		respondError(w, r, "invalid category", err)
		return
	}

	input := usecase.TrialBalanceInput{
		Period: period,
		Filter: domain.TrialBalanceFilter{
			BranchIDs:  parseListQuery(r, "branch_id"),
			AccountIDs: parseListQuery(r, "account_id"),
			Categories: categories,
		},
	}

	var report any

	switch columns := r.URL.Query().Get("columns"); columns {
	case "", "4":
		report, err = h.reportUC.GenerateTrialBalance(r.Context(), input)
	case "6":
		report, err = h.reportUC.GenerateTrialBalance6(r.Context(), input)
	default:
		writeError(w, http.StatusBadRequest, "invalid columns", fmt.Sprintf("columns must be 4 or 6, got %q", columns))
		return
	}

	if err != nil {
		respondError(w, r, "failed to generate trial balance", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// BalanceSheet returns the balance sheet as of the end of the period.
func (h *ReportHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	input, ok := h.statementInput(w, r)
	if !ok {
		return
	}

	sheet, err := h.reportUC.GenerateBalanceSheet(r.Context(), input)
	if err != nil {
		respondError(w, r, "failed to generate balance sheet", err)
		return
	}

	writeJSON(w, http.StatusOK, sheet)
}

// IncomeStatement returns income and expense activity over the period.
func (h *ReportHandler) IncomeStatement(w http.ResponseWriter, r *http.Request) {
	input, ok := h.statementInput(w, r)
	if !ok {
		return
	}

	stmt, err := h.reportUC.GenerateIncomeExpenseStatement(r.Context(), input)
	if err != nil {
		respondError(w, r, "failed to generate income statement", err)
		return
	}

	writeJSON(w, http.StatusOK, stmt)
}

// Snapshots lists persisted reports of a kind.
func (h *ReportHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	kind := domain.ReportKind(r.URL.Query().Get("kind"))
	if kind != domain.ReportKindBalanceSheet && kind != domain.ReportKindIncomeStatement {
		writeError(w, http.StatusBadRequest, "invalid kind",
			fmt.Sprintf("kind must be %s or %s", domain.ReportKindBalanceSheet, domain.ReportKindIncomeStatement))
		return
	}

	snapshots, err := h.reportUC.ListSnapshots(r.Context(), kind, parseIntQuery(r, "limit", 20))
	if err != nil {
		respondError(w, r, "failed to list snapshots", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SnapshotsFromDomain(snapshots))
}

// statementInput reads level, entity_id, from, to and persist.
func (h *ReportHandler) statementInput(w http.ResponseWriter, r *http.Request) (usecase.StatementInput, bool) {
	q := r.URL.Query()

	level := domain.QueryLevelHeadOffice
	if raw := q.Get("level"); raw != "" {
		parsed, err := domain.ParseQueryLevel(raw)
		if err != nil {
			respondError(w, r, "invalid level", err)
			return usecase.StatementInput{}, false
		}
		level = parsed
	}

	period, err := parsePeriod(r)
	if err != nil {
		respondError(w, r, "invalid period", err)
		return usecase.StatementInput{}, false
	}

	return usecase.StatementInput{
		EntityID: q.Get("entity_id"),
		Level:    level,
		Period:   period,
		Persist:  q.Get("persist") == "true",
	}, true
}
