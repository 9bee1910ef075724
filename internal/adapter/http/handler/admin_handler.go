package handler

import (
	"context"
	"net/http"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
	"github.com/iho/bankledger/internal/domain"
)

// CleanupService hard-deletes ledger rows.
type CleanupService interface {
	RemoveEntries(ctx context.Context, branch domain.BranchContext, ids []string) (int64, error)
	RemoveAccounts(ctx context.Context, branch domain.BranchContext, ids []string) (int64, error)
}

// AdminHandler handles administrative cleanup.
type AdminHandler struct {
	cleanupUC CleanupService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(cleanupUC CleanupService) *AdminHandler {
	return &AdminHandler{cleanupUC: cleanupUC}
}

// RemoveEntries deletes entries by id.
func (h *AdminHandler) RemoveEntries(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.cleanupUC.RemoveEntries)
}

// RemoveAccounts deletes accounts by id. Accounts with entries are refused.
func (h *AdminHandler) RemoveAccounts(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.cleanupUC.RemoveAccounts)
}

func (h *AdminHandler) remove(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, branch domain.BranchContext, ids []string) (int64, error),
) {
	var req dto.RemoveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	removed, err := fn(r.Context(), middleware.BranchFromContext(r.Context()), req.IDs)
	if err != nil {
		respondError(w, r, "removal failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RemovedResponse{Removed: removed})
}
