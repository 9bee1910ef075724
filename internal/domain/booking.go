package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Booking is the transient unit of work behind one balanced entry pair.
type Booking struct {
	ReferenceID string
	EventCode   string
	Narration   string
	BranchID    string
	Amount      decimal.Decimal
	// Balance holds the debit account's balance once the movement is applied.
	Balance decimal.Decimal
}

// NewBooking validates and builds a booking.
func NewBooking(referenceID, eventCode, narration, branchID string, amount decimal.Decimal) (*Booking, error) {
	if strings.TrimSpace(referenceID) == "" {
		return nil, ErrInvalidReference
	}

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}

	return &Booking{
		ReferenceID: referenceID,
		EventCode:   eventCode,
		Narration:   narration,
		BranchID:    branchID,
		Amount:      amount,
	}, nil
}

// CashMovementInput describes one balanced movement between two accounts.
type CashMovementInput struct {
	TransactionDate  time.Time
	ValueDate        time.Time
	CreatedAt        time.Time
	Booking          *Booking
	DebitAccount     *Account
	CreditAccount    *Account
	NewID            func() string
	CounterpartyRef  string
	Origin           string
	ExternalBranchID string
}

// CashMovement builds the debit and credit legs for a booking and applies
// them to the in-memory balances of both accounts.
func CashMovement(in CashMovementInput) ([]*Entry, error) {
	b := in.Booking
	if b == nil {
		return nil, ErrInvalidReference
	}

	if !b.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, b.Amount)
	}

	if in.DebitAccount == nil || in.CreditAccount == nil {
		return nil, ErrAccountNotFound
	}

	if in.DebitAccount.ID == in.CreditAccount.ID {
		return nil, ErrSameAccount
	}

	if in.DebitAccount.Retired || in.CreditAccount.Retired {
		return nil, ErrAccountRetired
	}

	valueDate := in.ValueDate
	if valueDate.IsZero() {
		valueDate = in.TransactionDate
	}

	leg := func(account *Account, side EntryType) *Entry {
		e := &Entry{
			ID:                  in.NewID(),
			ReferenceID:         b.ReferenceID,
			AccountID:           account.ID,
			AccountNumber:       account.AccountNumber,
			DebitAccountNumber:  in.DebitAccount.AccountNumber,
			CreditAccountNumber: in.CreditAccount.AccountNumber,
			EventCode:           b.EventCode,
			BranchID:            b.BranchID,
			ExternalBranchID:    in.ExternalBranchID,
			CounterpartyRef:     in.CounterpartyRef,
			Origin:              in.Origin,
			Narration:           b.Narration,
			EntryType:           side,
			Status:              EntryStatusPosted,
			DrAmount:            decimal.Zero,
			CrAmount:            decimal.Zero,
			TransactionDate:     in.TransactionDate,
			ValueDate:           valueDate,
			CreatedAt:           in.CreatedAt,
		}

		if side == EntryTypeDebit {
			e.DrAmount = b.Amount
			e.Amount = b.Amount
		} else {
			e.CrAmount = b.Amount
			e.Amount = b.Amount.Neg()
		}

		return e
	}

	debit := leg(in.DebitAccount, EntryTypeDebit)
	credit := leg(in.CreditAccount, EntryTypeCredit)

	in.DebitAccount.Apply(debit)
	in.CreditAccount.Apply(credit)
	b.Balance = in.DebitAccount.Balance

	return []*Entry{debit, credit}, nil
}

// Apply moves the account balance by one entry.
func (a *Account) Apply(e *Entry) {
	if e.EntryType == EntryTypeDebit {
		a.Balance = a.ApplyDebit(e.Magnitude())
	} else {
		a.Balance = a.ApplyCredit(e.Magnitude())
	}

	a.Version++
}
