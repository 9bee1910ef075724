package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountCategory is the chart-of-accounts class of an account.
type AccountCategory string

const (
	CategoryAsset     AccountCategory = "asset"
	CategoryLiability AccountCategory = "liability"
	CategoryEquity    AccountCategory = "equity"
	CategoryIncome    AccountCategory = "income"
	CategoryExpense   AccountCategory = "expense"
)

// ParseAccountCategory parses a category name, case-insensitively.
func ParseAccountCategory(s string) (AccountCategory, error) {
	c := AccountCategory(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}

	return c, nil
}

// Valid reports whether c is a known category.
func (c AccountCategory) Valid() bool {
	switch c {
	case CategoryAsset, CategoryLiability, CategoryEquity, CategoryIncome, CategoryExpense:
		return true
	}

	return false
}

// DebitNormal reports whether balances of this category grow on debit.
func (c AccountCategory) DebitNormal() bool {
	return c == CategoryAsset || c == CategoryExpense
}

// Account represents a ledger account that can hold a balance.
type Account struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ID             string
	AccountNumber  string
	Name           string
	BranchID       string
	BranchCode     string
	OwnerID        string
	ChartAccountID string
	CategoryID     string
	Category       AccountCategory
	Balance        decimal.Decimal
	Version        int64
	Retired        bool
}

// Validate checks the fields required to open an account.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.AccountNumber) == "" {
		return fmt.Errorf("%w: account number is required", ErrInvalidAccount)
	}

	if err := ValidateAccountName(a.Name); err != nil {
		return err
	}

	if !a.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, a.Category)
	}

	return nil
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	if a.Category.DebitNormal() {
		return a.Balance.Add(amount)
	}

	return a.Balance.Sub(amount)
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	if a.Category.DebitNormal() {
		return a.Balance.Sub(amount)
	}

	return a.Balance.Add(amount)
}

// AccountFilter narrows an account listing.
type AccountFilter struct {
	BranchIDs      []string
	AccountIDs     []string
	Categories     []AccountCategory
	IncludeRetired bool
	Limit          int
	Offset         int
}

// NaturalBalance converts a debit-positive net movement into this
// account's normal-side sign.
func (a *Account) NaturalBalance(net decimal.Decimal) decimal.Decimal {
	if a.Category.DebitNormal() {
		return net
	}

	return net.Neg()
}
