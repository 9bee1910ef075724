package domain

import (
	"errors"
	"testing"
)

func TestIsExpenseEvent(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"OfficeExpense", true},
		{"EXPENSE_RENT", true},
		{"daily-expense-accrual", true},
		{"CashDeposit", false},
		{"TRANSFER", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsExpenseEvent(tt.code); got != tt.expected {
				t.Errorf("IsExpenseEvent(%q) = %v, want %v", tt.code, got, tt.expected)
			}
		})
	}
}

func TestCashMovementAccount_Route(t *testing.T) {
	determinant := &Account{ID: "gl-cash"}
	balancing := &Account{ID: "member-1"}
	pair := CashMovementAccount{Determinant: determinant, Balancing: balancing}

	debit, credit := pair.Route("CashDeposit")
	if debit != determinant || credit != balancing {
		t.Errorf("default routing must debit the determination account")
	}

	debit, credit = pair.Route("UtilityExpense")
	if debit != balancing || credit != determinant {
		t.Errorf("expense routing must credit the determination account")
	}
}

func TestAccountingRule_Validate(t *testing.T) {
	if err := (&AccountingRule{EventCode: "CashDeposit", DeterminationAccountID: "1001"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := (&AccountingRule{DeterminationAccountID: "1001"}).Validate(); !errors.Is(err, ErrInvalidRule) {
		t.Errorf("expected ErrInvalidRule, got %v", err)
	}

	if err := (&AccountingRule{EventCode: "CashDeposit"}).Validate(); !errors.Is(err, ErrInvalidRule) {
		t.Errorf("expected ErrInvalidRule, got %v", err)
	}
}
