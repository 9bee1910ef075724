package handler

import (
	"context"
	"net/http"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// PostingService defines the behavior needed by PostingHandler.
type PostingService interface {
	AutoPost(ctx context.Context, input usecase.AutoPostInput) (*usecase.PostingResult, error)
	PostCashRequisition(ctx context.Context, input usecase.CashRequisitionInput) (*usecase.PostingResult, error)
	PostDailyCollectionCommission(ctx context.Context, input usecase.CommissionInput) (*usecase.PostingResult, error)
	PostNonCashAdjustment(ctx context.Context, input usecase.AdjustmentInput) (*usecase.PostingResult, error)
	Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.PostingResult, error)
}

// PostingHandler handles balance-affecting posting requests.
type PostingHandler struct {
	postingUC PostingService
}

// NewPostingHandler creates a new PostingHandler.
func NewPostingHandler(postingUC PostingService) *PostingHandler {
	return &PostingHandler{postingUC: postingUC}
}

// AutoPost posts amount lines against a shared determination account.
func (h *PostingHandler) AutoPost(w http.ResponseWriter, r *http.Request) {
	var req dto.AutoPostRequest
	post(w, r, &req, req.ToUseCaseInput, h.postingUC.AutoPost)
}

// CashRequisition posts a branch drawing cash from an issuing account.
func (h *PostingHandler) CashRequisition(w http.ResponseWriter, r *http.Request) {
	var req dto.CashRequisitionRequest
	post(w, r, &req, req.ToUseCaseInput, h.postingUC.PostCashRequisition)
}

// Commission posts a daily-collection agent's commission.
func (h *PostingHandler) Commission(w http.ResponseWriter, r *http.Request) {
	var req dto.CommissionRequest
	post(w, r, &req, req.ToUseCaseInput, h.postingUC.PostDailyCollectionCommission)
}

// Adjustment posts a non-cash adjustment.
func (h *PostingHandler) Adjustment(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustmentRequest
	post(w, r, &req, req.ToUseCaseInput, h.postingUC.PostNonCashAdjustment)
}

// Transfer moves an amount between two accounts.
func (h *PostingHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	post(w, r, &req, req.ToUseCaseInput, h.postingUC.Transfer)
}

// post decodes req, converts it with the caller's branch and runs do.
// convert is a method value bound to req, so it sees the decoded body.
func post[In any](
	w http.ResponseWriter,
	r *http.Request,
	req any,
	convert func(domain.BranchContext) (In, error),
	do func(context.Context, In) (*usecase.PostingResult, error),
) {
	if !decodeAndValidate(w, r, req) {
		return
	}

	input, err := convert(middleware.BranchFromContext(r.Context()))
	if err != nil {
		respondError(w, r, "invalid request", err)
		return
	}

	result, err := do(r.Context(), input)
	if err != nil {
		respondError(w, r, "posting failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PostingResultFromUseCase(result))
}
