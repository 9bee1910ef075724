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

// TransactionService defines the read side needed by TransactionHandler.
type TransactionService interface {
	TransactionExists(ctx context.Context, referenceID string) (bool, error)
	GetTransaction(ctx context.Context, referenceID string) (*usecase.TransactionView, error)
	GetEntriesByReference(ctx context.Context, referenceID string) ([]*domain.Entry, error)
	GetAuditTrail(ctx context.Context, referenceID string) ([]*domain.AuditLog, error)
}

// ReversalService reverses a committed reference.
type ReversalService interface {
	Reverse(ctx context.Context, input usecase.ReverseInput) (*usecase.PostingResult, error)
}

// TransactionHandler handles transaction lookups and reversals.
type TransactionHandler struct {
	entryUC    TransactionService
	reversalUC ReversalService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(entryUC TransactionService, reversalUC ReversalService) *TransactionHandler {
	return &TransactionHandler{entryUC: entryUC, reversalUC: reversalUC}
}

// Get returns a committed reference with all of its entries.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "reference")

	view, err := h.entryUC.GetTransaction(r.Context(), ref)
	if err != nil {
		respondError(w, r, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromUseCase(view))
}

// Exists reports whether a reference has been posted.
func (h *TransactionHandler) Exists(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "reference")

	exists, err := h.entryUC.TransactionExists(r.Context(), ref)
	if err != nil {
		respondError(w, r, "failed to check transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reference_id": ref,
		"exists":       exists,
	})
}

// Entries lists the entries of a reference.
func (h *TransactionHandler) Entries(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "reference")

	entries, err := h.entryUC.GetEntriesByReference(r.Context(), ref)
	if err != nil {
		respondError(w, r, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Audit returns the audit trail of a reference.
func (h *TransactionHandler) Audit(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "reference")

	logs, err := h.entryUC.GetAuditTrail(r.Context(), ref)
	if err != nil {
		respondError(w, r, "failed to get audit trail", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}

// Reverse reverses every posted entry of a reference.
func (h *TransactionHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "reference")

	result, err := h.reversalUC.Reverse(r.Context(), usecase.ReverseInput{
		Branch:      middleware.BranchFromContext(r.Context()),
		ReferenceID: ref,
	})
	if err != nil {
		respondError(w, r, "reversal failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PostingResultFromUseCase(result))
}
