package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/eventpublisher"
	"github.com/iho/bankledger/internal/usecase"
)

type ledgerServiceStub struct {
	report *usecase.ConsistencyReport
	recon  *usecase.ReconciliationReport
	err    error
}

func (s *ledgerServiceStub) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return s.report, s.err
}

func (s *ledgerServiceStub) ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
	if accountID == "missing" {
		return nil, domain.ErrAccountNotFound
	}
	return &usecase.ReconciliationResult{AccountID: accountID, IsReconciled: true}, nil
}

func (s *ledgerServiceStub) GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error) {
	return s.recon, s.err
}

type flusherStub struct {
	result eventpublisher.FlushResult
	err    error
}

func (f *flusherStub) Flush(ctx context.Context) (eventpublisher.FlushResult, error) {
	return f.result, f.err
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	tests := []struct {
		name     string
		report   *usecase.ConsistencyReport
		err      error
		expected int
	}{
		{
			name:     "consistent",
			report:   &usecase.ConsistencyReport{TotalDebit: decimal.NewFromInt(10), TotalCredit: decimal.NewFromInt(10), Consistent: true},
			expected: http.StatusOK,
		},
		{
			name:     "unbalanced",
			report:   &usecase.ConsistencyReport{TotalDebit: decimal.NewFromInt(10), TotalCredit: decimal.NewFromInt(9), UnbalancedReferences: []string{"TX1"}},
			expected: http.StatusConflict,
		},
		{
			name:     "store failure",
			err:      errors.New("connection reset"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewLedgerHandler(&ledgerServiceStub{report: tt.report, err: tt.err}, &ledgerServiceStub{}, nil)

			rec := httptest.NewRecorder()
			handler.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestLedgerHandler_Reconcile(t *testing.T) {
	stub := &ledgerServiceStub{recon: &usecase.ReconciliationReport{TotalAccounts: 3, ReconciledAccounts: 3, LedgerConsistent: true}}
	handler := NewLedgerHandler(stub, stub, nil)

	rec := httptest.NewRecorder()
	handler.Reconcile(rec, httptest.NewRequest(http.MethodGet, "/ledger/reconciliation", nil))

	var report usecase.ReconciliationReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if report.TotalAccounts != 3 || !report.LedgerConsistent {
		t.Fatalf("unexpected report %+v", report)
	}

	rec = httptest.NewRecorder()
	handler.ReconcileAccount(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/ledger/reconciliation/missing", nil), "id", "missing"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLedgerHandler_FlushOutbox(t *testing.T) {
	stub := &ledgerServiceStub{}

	rec := httptest.NewRecorder()
	NewLedgerHandler(stub, stub, nil).FlushOutbox(rec, httptest.NewRequest(http.MethodPost, "/ledger/outbox/flush", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a relay, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	relay := &flusherStub{result: eventpublisher.FlushResult{Published: 4, Failed: 1}}
	NewLedgerHandler(stub, stub, relay).FlushOutbox(rec, httptest.NewRequest(http.MethodPost, "/ledger/outbox/flush", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var result eventpublisher.FlushResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Published != 4 || result.Failed != 1 {
		t.Fatalf("unexpected flush result %+v", result)
	}
}
