package domain

import (
	"fmt"
	"strings"
)

// AccountingRule maps a business event code to the chart-of-accounts
// position that is debited or credited for it.
type AccountingRule struct {
	ID                     string `json:"id"`
	EventCode              string `json:"event_code"`
	DeterminationAccountID string `json:"determination_account_id"`
	Description            string `json:"description"`
}

// Validate checks the rule fields.
func (r *AccountingRule) Validate() error {
	if strings.TrimSpace(r.EventCode) == "" {
		return fmt.Errorf("%w: event code is required", ErrInvalidRule)
	}

	if strings.TrimSpace(r.DeterminationAccountID) == "" {
		return fmt.Errorf("%w: determination account is required", ErrInvalidRule)
	}

	return nil
}

// IsExpenseEvent reports whether eventCode routes as an expense: the
// destination is debited and the determination account credited.
func IsExpenseEvent(eventCode string) bool {
	return strings.Contains(strings.ToLower(eventCode), "expense")
}

// CashMovementAccount is the resolved account pair for one event.
type CashMovementAccount struct {
	Determinant *Account
	Balancing   *Account
}

// Route returns the debit and credit accounts for eventCode. Default routing
// debits the determination account; expense events flip it.
func (p CashMovementAccount) Route(eventCode string) (debit, credit *Account) {
	if IsExpenseEvent(eventCode) {
		return p.Balancing, p.Determinant
	}

	return p.Determinant, p.Balancing
}
