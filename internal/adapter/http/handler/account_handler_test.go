package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

type accountServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn     func(ctx context.Context, id string) (*domain.Account, error)
	listFn    func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	retireFn  func(ctx context.Context, branch domain.BranchContext, id string) (*domain.Account, error)
	entriesFn func(ctx context.Context, input usecase.GetEntriesByAccountInput) ([]*domain.Entry, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

func (s *accountServiceStub) RetireAccount(ctx context.Context, branch domain.BranchContext, id string) (*domain.Account, error) {
	return s.retireFn(ctx, branch, id)
}

func (s *accountServiceStub) GetEntriesByAccount(ctx context.Context, input usecase.GetEntriesByAccountInput) ([]*domain.Entry, error) {
	return s.entriesFn(ctx, input)
}

func newAccountHandler(stub *accountServiceStub) *AccountHandler {
	return NewAccountHandler(stub, stub)
}

// withURLParam routes a request through chi so that URL params resolve.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// withBranch attaches a branch context as the BranchContext middleware would.
func withBranch(req *http.Request, branch domain.BranchContext) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), middleware.BranchContextKey, branch))
}

func TestAccountHandler_Create_Success(t *testing.T) {
	account := &domain.Account{
		ID:            "acc-1",
		AccountNumber: "1000",
		Name:          "Vault cash",
		BranchID:      "B1",
		Category:      domain.CategoryAsset,
		Balance:       decimal.Zero,
	}

	var captured usecase.CreateAccountInput
	handler := newAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return account, nil
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{
		AccountNumber:  "1000",
		Name:           "Vault cash",
		ChartAccountID: "CASH",
		Category:       "asset",
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	req = withBranch(req, domain.BranchContext{BranchID: "B1", UserID: "teller-7"})
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.AccountNumber != "1000" || captured.Category != "asset" || captured.Branch.BranchID != "B1" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" || resp.Balance != "0" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := newAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_ValidationError(t *testing.T) {
	handler := newAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for an invalid request")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{Name: "no number", ChartAccountID: "CASH", Category: "asset"})
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_ServiceError(t *testing.T) {
	handler := newAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			return nil, errors.New("db error")
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{AccountNumber: "1", Name: "n", ChartAccountID: "c", Category: "asset"})
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != internalErrorMessage {
		t.Fatalf("internal details must not leak, got %q", resp.Message)
	}
}

func TestAccountHandler_Get(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"found", nil, http.StatusOK},
		{"not found", domain.ErrAccountNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newAccountHandler(&accountServiceStub{
				getFn: func(ctx context.Context, id string) (*domain.Account, error) {
					if id != "acc-9" {
						t.Fatalf("unexpected id %q", id)
					}
					if tt.err != nil {
						return nil, tt.err
					}
					return &domain.Account{ID: id}, nil
				},
			})

			req := withURLParam(httptest.NewRequest(http.MethodGet, "/accounts/acc-9", nil), "id", "acc-9")
			rec := httptest.NewRecorder()

			handler.Get(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestAccountHandler_List_PassesFilters(t *testing.T) {
	var captured usecase.ListAccountsInput
	handler := newAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			captured = input
			return []*domain.Account{{ID: "a"}, {ID: "b"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts?branch_id=B1,B2&category=asset&category=Income&include_retired=true&limit=5&offset=10", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if len(captured.BranchIDs) != 2 || captured.BranchIDs[1] != "B2" {
		t.Fatalf("unexpected branch filter %v", captured.BranchIDs)
	}
	if len(captured.Categories) != 2 || captured.Categories[1] != domain.CategoryIncome {
		t.Fatalf("unexpected category filter %v", captured.Categories)
	}
	if !captured.IncludeRetired || captured.Limit != 5 || captured.Offset != 10 {
		t.Fatalf("unexpected paging %+v", captured)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("expected total 2, got %d", resp.Total)
	}
}

func TestAccountHandler_List_InvalidCategory(t *testing.T) {
	handler := newAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			t.Fatal("ListAccounts should not be called")
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/accounts?category=misc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Entries(t *testing.T) {
	handler := newAccountHandler(&accountServiceStub{
		entriesFn: func(ctx context.Context, input usecase.GetEntriesByAccountInput) ([]*domain.Entry, error) {
			if input.AccountID != "acc-1" || input.Limit != 20 {
				t.Fatalf("unexpected input %+v", input)
			}
			return []*domain.Entry{{ID: "e1", AccountID: "acc-1", DrAmount: decimal.NewFromInt(5)}}, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/accounts/acc-1/entries", nil), "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Entries(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].DrAmount != "5" {
		t.Fatalf("unexpected entries %+v", resp)
	}
}

func TestAccountHandler_Retire(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"retired", nil, http.StatusOK},
		{"already retired", domain.ErrAccountRetired, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newAccountHandler(&accountServiceStub{
				retireFn: func(ctx context.Context, branch domain.BranchContext, id string) (*domain.Account, error) {
					if branch.UserID != "ops-1" {
						t.Fatalf("branch context not passed, got %+v", branch)
					}
					if tt.err != nil {
						return nil, tt.err
					}
					return &domain.Account{ID: id, Retired: true}, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/accounts/acc-1/retire", nil)
			req = withURLParam(withBranch(req, domain.BranchContext{UserID: "ops-1"}), "id", "acc-1")
			rec := httptest.NewRecorder()

			handler.Retire(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}
