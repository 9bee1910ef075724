package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/accounts?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestParseListQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?branch_id=B1,%20B2,&branch_id=B3", nil)

	got := parseListQuery(req, "branch_id")
	if len(got) != 3 || got[0] != "B1" || got[1] != "B2" || got[2] != "B3" {
		t.Fatalf("unexpected list %v", got)
	}

	if got := parseListQuery(req, "missing"); got != nil {
		t.Fatalf("expected nil for a missing key, got %v", got)
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"valid", "from=2024-03-01&to=2024-03-31", false},
		{"single day", "from=2024-03-01&to=2024-03-01", false},
		{"missing to", "from=2024-03-01", true},
		{"bad format", "from=01/03/2024&to=2024-03-31", true},
		{"inverted", "from=2024-03-31&to=2024-03-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/reports?"+tt.query, nil)

			period, err := parsePeriod(req)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidDateRange) {
					t.Fatalf("expected ErrInvalidDateRange, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if period.From.Format(time.DateOnly) != "2024-03-01" {
				t.Fatalf("unexpected period %+v", period)
			}
		})
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"rule not found", domain.ErrRuleNotFound, http.StatusNotFound},
		{"entries not found", domain.NewTransactionError("TX9", domain.ErrEntriesNotFound), http.StatusNotFound},
		{"duplicate", domain.NewTransactionError("TX1", domain.ErrDuplicateTransaction), http.StatusConflict},
		{"in progress", domain.ErrTransactionInProgress, http.StatusConflict},
		{"invalid amount", fmt.Errorf("%w: -1", domain.ErrInvalidAmount), http.StatusBadRequest},
		{"same account", domain.ErrSameAccount, http.StatusBadRequest},
		{"no lines", domain.ErrNoAmountLines, http.StatusBadRequest},
		{"date range", domain.ErrInvalidDateRange, http.StatusBadRequest},
		{"validation", dto.ErrValidation, http.StatusBadRequest},
		{"unbalanced", domain.ErrDoubleEntryViolation, http.StatusUnprocessableEntity},
		{"commit failure", domain.ErrStoreCommitFailure, http.StatusInternalServerError},
		{"snapshot failure", domain.ErrSnapshotPersistFailure, http.StatusInternalServerError},
		{"timeout", context.DeadlineExceeded, http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestRespondError_IncludesReference(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/postings/transfers", nil)

	respondError(rec, req, "posting failed", domain.NewTransactionError("TX1", domain.ErrDuplicateTransaction))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Reference != "TX1" || resp.Error != "posting failed" || resp.Message == "" {
		t.Fatalf("unexpected error response %+v", resp)
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusTeapot, "oops", "details")

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Error != "oops" || resp.Message != "details" {
		t.Fatalf("unexpected error response: %+v", resp)
	}
}
