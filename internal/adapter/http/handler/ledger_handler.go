package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankledger/internal/infrastructure/eventpublisher"
	"github.com/iho/bankledger/internal/usecase"
)

// LedgerService checks ledger-wide consistency.
type LedgerService interface {
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// ReconciliationService recomputes stored balances from entries.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// OutboxFlusher publishes outbox events left behind by failed deliveries.
type OutboxFlusher interface {
	Flush(ctx context.Context) (eventpublisher.FlushResult, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	ledgerUC LedgerService
	reconUC  ReconciliationService
	relay    OutboxFlusher
}

// NewLedgerHandler creates a new LedgerHandler. relay may be nil when no
// event publisher is configured.
func NewLedgerHandler(ledgerUC LedgerService, reconUC ReconciliationService, relay OutboxFlusher) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, reconUC: reconUC, relay: relay}
}

// CheckConsistency checks that debits equal credits ledger-wide and per reference.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		respondError(w, r, "failed to check consistency", err)
		return
	}

	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusConflict
	}

	writeJSON(w, status, report)
}

// Reconcile recomputes every account balance from its entries.
func (h *LedgerHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconUC.GenerateReconciliationReport(r.Context())
	if err != nil {
		respondError(w, r, "failed to reconcile ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// ReconcileAccount recomputes one account balance from its entries.
func (h *LedgerHandler) ReconcileAccount(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconUC.ReconcileAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, "failed to reconcile account", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// FlushOutbox publishes unpublished outbox events.
func (h *LedgerHandler) FlushOutbox(w http.ResponseWriter, r *http.Request) {
	if h.relay == nil {
		writeError(w, http.StatusServiceUnavailable, "event publishing is disabled", "")
		return
	}

	result, err := h.relay.Flush(r.Context())
	if err != nil {
		respondError(w, r, "failed to flush outbox", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
