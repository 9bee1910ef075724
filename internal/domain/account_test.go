package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_ApplyDebit(t *testing.T) {
	tests := []struct {
		name     string
		category AccountCategory
		balance  decimal.Decimal
		amount   decimal.Decimal
		expected decimal.Decimal
	}{
		{"asset grows on debit", CategoryAsset, decimal.NewFromInt(100), decimal.NewFromInt(50), decimal.NewFromInt(150)},
		{"expense grows on debit", CategoryExpense, decimal.Zero, decimal.NewFromInt(20), decimal.NewFromInt(20)},
		{"liability shrinks on debit", CategoryLiability, decimal.NewFromInt(100), decimal.NewFromInt(30), decimal.NewFromInt(70)},
		{"income shrinks on debit", CategoryIncome, decimal.NewFromInt(10), decimal.NewFromInt(30), decimal.NewFromInt(-20)},
		{"equity shrinks on debit", CategoryEquity, decimal.NewFromInt(500), decimal.NewFromInt(1), decimal.NewFromInt(499)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Category: tt.category, Balance: tt.balance}

			got := acc.ApplyDebit(tt.amount)
			if !got.Equal(tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestAccount_ApplyCredit(t *testing.T) {
	tests := []struct {
		name     string
		category AccountCategory
		balance  decimal.Decimal
		amount   decimal.Decimal
		expected decimal.Decimal
	}{
		{"asset shrinks on credit", CategoryAsset, decimal.NewFromInt(1000), decimal.NewFromInt(200), decimal.NewFromInt(800)},
		{"expense shrinks on credit", CategoryExpense, decimal.NewFromInt(20), decimal.NewFromInt(5), decimal.NewFromInt(15)},
		{"liability grows on credit", CategoryLiability, decimal.NewFromInt(100), decimal.NewFromInt(30), decimal.NewFromInt(130)},
		{"income grows on credit", CategoryIncome, decimal.Zero, decimal.NewFromInt(30), decimal.NewFromInt(30)},
		{"equity grows on credit", CategoryEquity, decimal.NewFromInt(500), decimal.NewFromInt(1), decimal.NewFromInt(501)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Category: tt.category, Balance: tt.balance}

			got := acc.ApplyCredit(tt.amount)
			if !got.Equal(tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestAccount_NaturalBalance(t *testing.T) {
	net := decimal.NewFromInt(-40)

	asset := &Account{Category: CategoryAsset}
	if got := asset.NaturalBalance(net); !got.Equal(net) {
		t.Errorf("asset: expected %s, got %s", net, got)
	}

	liability := &Account{Category: CategoryLiability}
	if got := liability.NaturalBalance(net); !got.Equal(decimal.NewFromInt(40)) {
		t.Errorf("liability: expected 40, got %s", got)
	}
}

func TestParseAccountCategory(t *testing.T) {
	c, err := ParseAccountCategory(" Liability ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c != CategoryLiability {
		t.Errorf("expected liability, got %s", c)
	}

	if _, err := ParseAccountCategory("cash"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestAccount_Validate(t *testing.T) {
	valid := &Account{AccountNumber: "1001-01", Name: "Cash in vault", Category: CategoryAsset}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noNumber := &Account{Name: "Cash", Category: CategoryAsset}
	if err := noNumber.Validate(); !errors.Is(err, ErrInvalidAccount) {
		t.Errorf("expected ErrInvalidAccount, got %v", err)
	}

	badCategory := &Account{AccountNumber: "1", Name: "Cash", Category: "cash"}
	if err := badCategory.Validate(); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}
