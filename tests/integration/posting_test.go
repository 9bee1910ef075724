package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
	"github.com/iho/bankledger/tests/testutil"
)

func TestTransfer(t *testing.T) {
	l := newLedger(t, nil)
	ctx := context.Background()

	source := l.account(t, "B1", "1000", domain.CategoryAsset, 1000)
	dest := l.account(t, "B1", "1001", domain.CategoryAsset, 500)

	result, err := l.posting.Transfer(ctx, usecase.TransferInput{
		Branch:               branchContext("B1"),
		ReferenceID:          "TX-1",
		SourceAccountID:      source.ID,
		DestinationAccountID: dest.ID,
		Amount:               decimal.NewFromInt(200),
	})
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}

	if !result.Posting.TotalAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected posting total 200, got %s", result.Posting.TotalAmount)
	}

	l.requireBalance(t, source.ID, 800)
	l.requireBalance(t, dest.ID, 700)
	l.requireConsistent(t)

	entries, err := l.entries.GetByReference(ctx, "TX-1")
	if err != nil {
		t.Fatalf("failed to load entries: %v", err)
	}

	for _, e := range entries {
		if e.Status != domain.EntryStatusPosted {
			t.Errorf("expected posted entry, got %s", e.Status)
		}

		switch e.AccountID {
		case dest.ID:
			if !e.DrAmount.Equal(decimal.NewFromInt(200)) || !e.CrAmount.IsZero() {
				t.Errorf("expected destination debit 200, got dr %s cr %s", e.DrAmount, e.CrAmount)
			}
		case source.ID:
			if !e.CrAmount.Equal(decimal.NewFromInt(200)) || !e.DrAmount.IsZero() {
				t.Errorf("expected source credit 200, got dr %s cr %s", e.DrAmount, e.CrAmount)
			}
		default:
			t.Errorf("unexpected account %s", e.AccountID)
		}
	}
}

func TestTransfer_DuplicateReference(t *testing.T) {
	l := newLedger(t, nil)
	ctx := context.Background()

	source := l.account(t, "B1", "1000", domain.CategoryAsset, 1000)
	dest := l.account(t, "B1", "1001", domain.CategoryAsset, 0)

	input := usecase.TransferInput{
		Branch:               branchContext("B1"),
		ReferenceID:          "TX-DUP",
		SourceAccountID:      source.ID,
		DestinationAccountID: dest.ID,
		Amount:               decimal.NewFromInt(100),
	}

	if _, err := l.posting.Transfer(ctx, input); err != nil {
		t.Fatalf("first transfer failed: %v", err)
	}

	_, err := l.posting.Transfer(ctx, input)
	if !errors.Is(err, domain.ErrDuplicateTransaction) {
		t.Fatalf("expected ErrDuplicateTransaction, got %v", err)
	}

	var txErr *domain.TransactionError
	if !errors.As(err, &txErr) || txErr.Reference != "TX-DUP" {
		t.Errorf("expected TransactionError for TX-DUP, got %v", err)
	}

	l.requireBalance(t, source.ID, 900)
	l.requireBalance(t, dest.ID, 100)
}

func TestPostCashRequisition_ResolvesRule(t *testing.T) {
	l := newLedger(t, nil)
	ctx := context.Background()

	l.db.CreateTestRule(ctx, usecase.EventCodeCashRequisition, "CH-VAULT")

	vault := l.db.CreateTestAccount(ctx, testutil.AccountSpec{
		AccountNumber:  "1100",
		Name:           "Vault cash",
		BranchID:       "B1",
		BranchCode:     "001",
		ChartAccountID: "CH-VAULT",
		Category:       domain.CategoryAsset,
	})
	// Same chart position in another branch must not be picked.
	other := l.db.CreateTestAccount(ctx, testutil.AccountSpec{
		AccountNumber:  "1100",
		BranchID:       "B2",
		BranchCode:     "002",
		ChartAccountID: "CH-VAULT",
		Category:       domain.CategoryAsset,
	})
	issuing := l.account(t, "HO", "1900", domain.CategoryAsset, 10000)

	_, err := l.posting.PostCashRequisition(ctx, usecase.CashRequisitionInput{
		Branch:           domain.BranchContext{BranchID: "B1", BranchCode: "001", UserID: "teller"},
		ReferenceID:      "REQ-1",
		IssuingAccountID: issuing.ID,
		Amount:           decimal.NewFromInt(2500),
	})
	if err != nil {
		t.Fatalf("cash requisition failed: %v", err)
	}

	l.requireBalance(t, vault.ID, 2500)
	l.requireBalance(t, issuing.ID, 7500)
	l.requireBalance(t, other.ID, 0)
	l.requireConsistent(t)
}

func TestPostCashRequisition_BranchIDWinsOverCode(t *testing.T) {
	l := newLedger(t, nil)
	ctx := context.Background()

	l.db.CreateTestRule(ctx, usecase.EventCodeCashRequisition, "CH-VAULT")

	// Older account whose branch code matches the header but whose id does not.
	foreign := l.db.CreateTestAccount(ctx, testutil.AccountSpec{
		AccountNumber:  "1100",
		BranchID:       "B2",
		BranchCode:     "002",
		ChartAccountID: "CH-VAULT",
		Category:       domain.CategoryAsset,
	})
	vault := l.db.CreateTestAccount(ctx, testutil.AccountSpec{
		AccountNumber:  "1100",
		BranchID:       "B1",
		BranchCode:     "001",
		ChartAccountID: "CH-VAULT",
		Category:       domain.CategoryAsset,
	})
	issuing := l.account(t, "HO", "1900", domain.CategoryAsset, 1000)

	_, err := l.posting.PostCashRequisition(ctx, usecase.CashRequisitionInput{
		Branch:           domain.BranchContext{BranchID: "B1", BranchCode: "002", UserID: "teller"},
		ReferenceID:      "REQ-MISMATCH",
		IssuingAccountID: issuing.ID,
		Amount:           decimal.NewFromInt(40),
	})
	if err != nil {
		t.Fatalf("cash requisition failed: %v", err)
	}

	l.requireBalance(t, vault.ID, 40)
	l.requireBalance(t, foreign.ID, 0)

	// Without an id the code selects the branch.
	_, err = l.posting.PostCashRequisition(ctx, usecase.CashRequisitionInput{
		Branch:           domain.BranchContext{BranchCode: "002", UserID: "teller"},
		ReferenceID:      "REQ-BYCODE",
		IssuingAccountID: issuing.ID,
		Amount:           decimal.NewFromInt(15),
	})
	if err != nil {
		t.Fatalf("cash requisition by code failed: %v", err)
	}

	l.requireBalance(t, foreign.ID, 15)
	l.requireBalance(t, issuing.ID, 945)
}

func TestPostCashRequisition_MissingRule(t *testing.T) {
	l := newLedger(t, nil)
	ctx := context.Background()

	issuing := l.account(t, "HO", "1900", domain.CategoryAsset, 10000)

	_, err := l.posting.PostCashRequisition(ctx, usecase.CashRequisitionInput{
		Branch:           branchContext("B1"),
		ReferenceID:      "REQ-NORULE",
		IssuingAccountID: issuing.ID,
		Amount:           decimal.NewFromInt(10),
	})
	if !errors.Is(err, domain.ErrRuleNotFound) {
		t.Fatalf("expected ErrRuleNotFound, got %v", err)
	}

	exists, err := l.entries.ExistsByReference(ctx, "REQ-NORULE")
	if err != nil {
		t.Fatalf("exists check failed: %v", err)
	}
	if exists {
		t.Error("expected nothing written for a failed posting")
	}

	l.requireBalance(t, issuing.ID, 10000)
}

func TestAutoPost_MultipleLines(t *testing.T) {
	l := newLedger(t, nil)
	ctx := context.Background()

	l.db.CreateTestRule(ctx, "LoanRepayment", "CH-CASH")
	cash := l.db.CreateTestAccount(ctx, testutil.AccountSpec{
		AccountNumber:  "1000",
		BranchID:       "B1",
		BranchCode:     "B1",
		ChartAccountID: "CH-CASH",
		Category:       domain.CategoryAsset,
	})
	principal := l.account(t, "B1", "1300", domain.CategoryAsset, 1000)
	interest := l.account(t, "B1", "4100", domain.CategoryIncome, 0)

	result, err := l.posting.AutoPost(ctx, usecase.AutoPostInput{
		TransactionDate: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		Branch:          branchContext("B1"),
		ReferenceID:     "AUTO-1",
		SourceEventCode: "LoanRepayment",
		Narration:       "Loan repayment",
		Lines: []usecase.AmountLine{
			{AccountID: principal.ID, Amount: decimal.NewFromInt(300)},
			{AccountID: interest.ID, Amount: decimal.RequireFromString("45.50")},
		},
	})
	if err != nil {
		t.Fatalf("auto post failed: %v", err)
	}

	if len(result.Entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(result.Entries))
	}

	if !result.Posting.TotalAmount.Equal(decimal.RequireFromString("345.50")) {
		t.Errorf("expected total 345.50, got %s", result.Posting.TotalAmount)
	}

	acc, err := l.accounts.GetByID(ctx, cash.ID)
	if err != nil {
		t.Fatalf("failed to get cash account: %v", err)
	}
	if !acc.Balance.Equal(decimal.RequireFromString("345.50")) {
		t.Errorf("expected cash balance 345.50, got %s", acc.Balance)
	}

	l.requireBalance(t, principal.ID, 700)

	acc, err = l.accounts.GetByID(ctx, interest.ID)
	if err != nil {
		t.Fatalf("failed to get interest account: %v", err)
	}
	if !acc.Balance.Equal(decimal.RequireFromString("-45.50")) {
		t.Errorf("expected interest balance -45.50, got %s", acc.Balance)
	}

	l.requireConsistent(t)
}

func TestPostDailyCollectionCommission_RoundsToCents(t *testing.T) {
	l := newLedger(t, nil)
	ctx := context.Background()

	l.db.CreateTestRule(ctx, usecase.EventCodeCollectionCommission, "CH-COMMISSION")
	expense := l.db.CreateTestAccount(ctx, testutil.AccountSpec{
		AccountNumber:  "5200",
		BranchID:       "B1",
		BranchCode:     "B1",
		ChartAccountID: "CH-COMMISSION",
		Category:       domain.CategoryExpense,
	})
	collector := l.account(t, "B1", "2300", domain.CategoryLiability, 0)

	result, err := l.posting.PostDailyCollectionCommission(ctx, usecase.CommissionInput{
		Branch:             branchContext("B1"),
		ReferenceID:        "COMM-1",
		CollectorAccountID: collector.ID,
		CollectedAmount:    decimal.RequireFromString("1234.56"),
		Rate:               decimal.RequireFromString("0.02"),
	})
	if err != nil {
		t.Fatalf("commission failed: %v", err)
	}

	want := decimal.RequireFromString("24.69")
	if !result.Posting.TotalAmount.Equal(want) {
		t.Fatalf("expected commission 24.69, got %s", result.Posting.TotalAmount)
	}

	acc, err := l.accounts.GetByID(ctx, expense.ID)
	if err != nil {
		t.Fatalf("failed to get expense account: %v", err)
	}
	if !acc.Balance.Equal(want) {
		t.Errorf("expected expense balance 24.69, got %s", acc.Balance)
	}

	acc, err = l.accounts.GetByID(ctx, collector.ID)
	if err != nil {
		t.Fatalf("failed to get collector account: %v", err)
	}
	if !acc.Balance.Equal(want.Neg()) {
		t.Errorf("expected collector balance -24.69, got %s", acc.Balance)
	}
}
