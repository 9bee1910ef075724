package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("E%d", n)
	}
}

func TestNewBooking(t *testing.T) {
	tests := []struct {
		name        string
		reference   string
		amount      decimal.Decimal
		expectError error
	}{
		{"valid", "TX1", decimal.NewFromInt(10), nil},
		{"zero amount", "TX1", decimal.Zero, ErrInvalidAmount},
		{"negative amount", "TX1", decimal.NewFromInt(-1), ErrInvalidAmount},
		{"blank reference", "  ", decimal.NewFromInt(10), ErrInvalidReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBooking(tt.reference, "TRANSFER", "n", "BR1", tt.amount)
			if tt.expectError == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestCashMovement(t *testing.T) {
	a := &Account{ID: "acc-a", AccountNumber: "A", Category: CategoryAsset, Balance: decimal.NewFromInt(1000)}
	b := &Account{ID: "acc-b", AccountNumber: "B", Category: CategoryAsset, Balance: decimal.NewFromInt(500)}
	txDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	booking, err := NewBooking("TX1", "TRANSFER", "move cash", "BR1", decimal.NewFromInt(200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := CashMovement(CashMovementInput{
		Booking:         booking,
		DebitAccount:    b,
		CreditAccount:   a,
		TransactionDate: txDate,
		NewID:           sequentialIDs(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	debit, credit := entries[0], entries[1]
	if debit.AccountID != "acc-b" || debit.EntryType != EntryTypeDebit || !debit.DrAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("unexpected debit leg: %+v", debit)
	}

	if credit.AccountID != "acc-a" || credit.EntryType != EntryTypeCredit || !credit.CrAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("unexpected credit leg: %+v", credit)
	}

	for _, e := range entries {
		if e.ReferenceID != "TX1" || e.Status != EntryStatusPosted {
			t.Errorf("leg %s: reference %s status %s", e.ID, e.ReferenceID, e.Status)
		}

		if !e.ValueDate.Equal(txDate) {
			t.Errorf("value date should default to transaction date")
		}
	}

	if !debit.Amount.Add(credit.Amount).IsZero() {
		t.Errorf("signed amounts should cancel")
	}

	if !a.Balance.Equal(decimal.NewFromInt(800)) {
		t.Errorf("expected A balance 800, got %s", a.Balance)
	}

	if !b.Balance.Equal(decimal.NewFromInt(700)) {
		t.Errorf("expected B balance 700, got %s", b.Balance)
	}

	if !booking.Balance.Equal(decimal.NewFromInt(700)) {
		t.Errorf("booking balance should follow the debit account, got %s", booking.Balance)
	}
}

func TestCashMovement_Rejects(t *testing.T) {
	a := &Account{ID: "acc-a", Category: CategoryAsset}
	b := &Account{ID: "acc-b", Category: CategoryAsset}
	retired := &Account{ID: "acc-r", Category: CategoryAsset, Retired: true}

	tests := []struct {
		name        string
		booking     *Booking
		debit       *Account
		credit      *Account
		expectError error
	}{
		{"non-positive amount", &Booking{ReferenceID: "TX", Amount: decimal.Zero}, a, b, ErrInvalidAmount},
		{"missing account", &Booking{ReferenceID: "TX", Amount: decimal.NewFromInt(1)}, nil, b, ErrAccountNotFound},
		{"same account", &Booking{ReferenceID: "TX", Amount: decimal.NewFromInt(1)}, a, a, ErrSameAccount},
		{"retired account", &Booking{ReferenceID: "TX", Amount: decimal.NewFromInt(1)}, a, retired, ErrAccountRetired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CashMovement(CashMovementInput{
				Booking:       tt.booking,
				DebitAccount:  tt.debit,
				CreditAccount: tt.credit,
				NewID:         sequentialIDs(),
			})
			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}
		})
	}

	if !a.Balance.IsZero() || !b.Balance.IsZero() {
		t.Errorf("rejected movements must not touch balances")
	}
}
