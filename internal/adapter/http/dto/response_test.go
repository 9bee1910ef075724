package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

func TestAccountFromDomain(t *testing.T) {
	now := time.Now()
	account := &domain.Account{
		ID:            "acc-1",
		AccountNumber: "1000",
		Name:          "Main",
		BranchID:      "B1",
		Category:      domain.CategoryAsset,
		Balance:       decimal.RequireFromString("123.45"),
		Version:       2,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	resp := AccountFromDomain(account)
	if resp.ID != account.ID || resp.Balance != "123.45" || resp.Version != 2 || resp.Category != "asset" {
		t.Fatalf("unexpected account response: %+v", resp)
	}

	list := AccountsFromDomain([]*domain.Account{account})
	if len(list) != 1 || list[0].ID != account.ID {
		t.Fatalf("AccountsFromDomain returned %+v", list)
	}
}

func TestPostingResultFromUseCase(t *testing.T) {
	amount := decimal.NewFromInt(200)
	result := &usecase.PostingResult{
		Posting: &domain.Posting{
			ReferenceID: "TX1-R",
			Operation:   domain.OperationReversal,
			ReversalOf:  "TX1",
			TotalAmount: amount,
			EntryCount:  2,
		},
		Entries: []*domain.Entry{
			{ID: "R-e1", ReferenceID: "TX1-R", EntryType: domain.EntryTypeDebit, DrAmount: amount, CrAmount: decimal.Zero, Amount: amount, Status: domain.EntryStatusPosted},
			{ID: "R-e2", ReferenceID: "TX1-R", EntryType: domain.EntryTypeCredit, DrAmount: decimal.Zero, CrAmount: amount, Amount: amount.Neg(), Status: domain.EntryStatusPosted},
		},
	}

	resp := PostingResultFromUseCase(result)
	if resp.Posting.ReversalOf != "TX1" || resp.Posting.Operation != "reversal" || resp.Posting.TotalAmount != "200" {
		t.Fatalf("unexpected posting: %+v", resp.Posting)
	}
	if len(resp.Entries) != 2 || resp.Entries[1].Amount != "-200" || resp.Entries[0].EntryType != "DEBIT" {
		t.Fatalf("unexpected entries: %+v", resp.Entries)
	}
	if resp.Accounts == nil || len(resp.Accounts) != 0 {
		t.Fatalf("accounts should be an empty list, got %+v", resp.Accounts)
	}
}

func TestSnapshotsFromDomain(t *testing.T) {
	snapshots := []*domain.ReportSnapshot{{
		ID:         "snap-1",
		Kind:       domain.ReportKindBalanceSheet,
		EntityID:   "B1",
		EntityType: domain.QueryLevelBranch,
		Period: domain.ReportPeriod{
			From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		Payload: []byte(`{"balanced":true}`),
	}}

	resp := SnapshotsFromDomain(snapshots)
	if len(resp) != 1 || resp[0].From != "2024-03-01" || resp[0].To != "2024-03-31" {
		t.Fatalf("unexpected snapshots: %+v", resp)
	}

	data, err := json.Marshal(resp[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	payload, ok := decoded["payload"].(map[string]any)
	if !ok || payload["balanced"] != true {
		t.Fatalf("payload should be embedded as an object, got %v", decoded["payload"])
	}
}
