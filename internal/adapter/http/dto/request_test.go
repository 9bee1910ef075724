package dto

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

var branch = domain.BranchContext{BranchID: "B1", BranchCode: "001", UserID: "teller-7"}

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateAccountRequest{
		AccountNumber:  "1000",
		Name:           "Vault cash",
		ChartAccountID: "CASH",
		Category:       "asset",
	}

	got := req.ToUseCaseInput(branch)
	want := usecase.CreateAccountInput{
		Branch:         branch,
		AccountNumber:  "1000",
		Name:           "Vault cash",
		ChartAccountID: "CASH",
		Category:       "asset",
	}

	if got != want {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}

func TestTransferRequest_ToUseCaseInput(t *testing.T) {
	txDate := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		request     *TransferRequest
		wantAmount  string
		expectError bool
	}{
		{
			name: "valid amount",
			request: &TransferRequest{
				TransactionDate:      &txDate,
				ReferenceID:          "TX1",
				SourceAccountID:      "A",
				DestinationAccountID: "B",
				Amount:               "200.50",
			},
			wantAmount: "200.5",
		},
		{
			name:        "invalid amount",
			request:     &TransferRequest{ReferenceID: "TX1", Amount: "bad"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.request.ToUseCaseInput(branch)

			if tt.expectError {
				if !errors.Is(err, domain.ErrInvalidAmount) {
					t.Fatalf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !got.Amount.Equal(decimal.RequireFromString(tt.wantAmount)) {
				t.Fatalf("amount = %s, want %s", got.Amount, tt.wantAmount)
			}
			if got.SourceAccountID != "A" || got.DestinationAccountID != "B" || got.Branch != branch {
				t.Fatalf("unexpected input: %+v", got)
			}
			if !got.TransactionDate.Equal(txDate) || !got.ValueDate.Equal(txDate) {
				t.Fatalf("value date should default to transaction date, got %v / %v", got.TransactionDate, got.ValueDate)
			}
		})
	}
}

func TestAutoPostRequest_ToUseCaseInput(t *testing.T) {
	req := &AutoPostRequest{
		ReferenceID:     "LOAN-9",
		SourceEventCode: "LOAN_DISBURSE",
		Lines: []AmountLineRequest{
			{EventCode: "FEE", Amount: "10"},
			{AccountID: "acc-3", Amount: "5.5"},
		},
	}

	got, err := req.ToUseCaseInput(branch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Lines) != 2 || got.SourceEventCode != "LOAN_DISBURSE" {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.Lines[0].EventCode != "FEE" || !got.Lines[1].Amount.Equal(decimal.RequireFromString("5.5")) {
		t.Fatalf("unexpected lines: %+v", got.Lines)
	}
	if got.TransactionDate.IsZero() {
		t.Fatal("transaction date should default to now")
	}

	req.Lines[1].Amount = "x"
	if _, err := req.ToUseCaseInput(branch); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCommissionRequest_ToUseCaseInput(t *testing.T) {
	req := &CommissionRequest{
		ReferenceID:        "COM-1",
		EventCode:          "DC_COMMISSION",
		CollectorAccountID: "agent-1",
		CollectedAmount:    "1500",
		Rate:               "0.02",
	}

	got, err := req.ToUseCaseInput(branch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Rate.Equal(decimal.RequireFromString("0.02")) || !got.CollectedAmount.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected input: %+v", got)
	}

	req.Rate = "two percent"
	if _, err := req.ToUseCaseInput(branch); !errors.Is(err, domain.ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request any
		wantErr string
	}{
		{
			name: "valid transfer",
			request: &TransferRequest{
				ReferenceID:          "TX1",
				SourceAccountID:      "A",
				DestinationAccountID: "B",
				Amount:               "1",
			},
		},
		{
			name:    "missing reference",
			request: &TransferRequest{SourceAccountID: "A", DestinationAccountID: "B", Amount: "1"},
			wantErr: "ReferenceID is required",
		},
		{
			name:    "non-positive amount",
			request: &CashRequisitionRequest{ReferenceID: "R", EventCode: "CASH", IssuingAccountID: "V", Amount: "-3"},
			wantErr: "Amount must be a positive decimal",
		},
		{
			name:    "unknown category",
			request: &CreateAccountRequest{AccountNumber: "1", Name: "n", ChartAccountID: "c", Category: "misc"},
			wantErr: "Category must be one of",
		},
		{
			name:    "empty lines",
			request: &AutoPostRequest{ReferenceID: "R", SourceAccountID: "S"},
			wantErr: "Lines is required",
		},
		{
			name: "line without destination",
			request: &AutoPostRequest{
				ReferenceID:     "R",
				SourceAccountID: "S",
				Lines:           []AmountLineRequest{{Amount: "1"}},
			},
			wantErr: "EventCode is required",
		},
		{
			name:    "empty ids",
			request: &RemoveRequest{IDs: []string{}},
			wantErr: "IDs must have at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.request)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}
