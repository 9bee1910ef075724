package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the side of the ledger an entry posts to.
type EntryType string

const (
	EntryTypeDebit  EntryType = "DEBIT"
	EntryTypeCredit EntryType = "CREDIT"
)

// Opposite returns the other side.
func (t EntryType) Opposite() EntryType {
	if t == EntryTypeDebit {
		return EntryTypeCredit
	}

	return EntryTypeDebit
}

// EntryStatus is the lifecycle state of an entry.
type EntryStatus string

const (
	EntryStatusPosted   EntryStatus = "Posted"
	EntryStatusReversed EntryStatus = "Reversed"
)

const (
	// ReversalNarration is written on every reversal leg.
	ReversalNarration = "Reversal Operation done"
	// ReversalIDPrefix prefixes the id of a reversal leg.
	ReversalIDPrefix = "R-"
	// ReversalReferenceSuffix is appended to the reference of a reversal group.
	ReversalReferenceSuffix = "-R"
)

// ReversalReference returns the reference under which reference is reversed.
func ReversalReference(reference string) string {
	return reference + ReversalReferenceSuffix
}

// Entry represents a single ledger entry (debit or credit).
type Entry struct {
	CreatedAt           time.Time
	ValueDate           time.Time
	TransactionDate     time.Time
	ID                  string
	ReferenceID         string
	AccountID           string
	AccountNumber       string
	DebitAccountNumber  string
	CreditAccountNumber string
	EventCode           string
	BranchID            string
	ExternalBranchID    string
	CounterpartyRef     string
	Origin              string
	Narration           string
	EntryType           EntryType
	Status              EntryStatus
	DrAmount            decimal.Decimal
	CrAmount            decimal.Decimal
	// Amount is DrAmount minus CrAmount.
	Amount    decimal.Decimal
	IsDeleted bool
}

// Magnitude is the non-zero side of the entry.
func (e *Entry) Magnitude() decimal.Decimal {
	return decimal.Max(e.DrAmount, e.CrAmount)
}

// Validate checks that exactly one side carries a positive amount.
func (e *Entry) Validate() error {
	dr, cr := e.DrAmount, e.CrAmount
	if dr.IsNegative() || cr.IsNegative() {
		return fmt.Errorf("%w: entry %s has a negative side", ErrInvalidAmount, e.ID)
	}

	if dr.IsPositive() == cr.IsPositive() {
		return fmt.Errorf("%w: entry %s must carry exactly one side", ErrDoubleEntryViolation, e.ID)
	}

	return nil
}

// Reversal builds the leg that cancels e. The receiver is left untouched.
func (e *Entry) Reversal(now time.Time) (*Entry, error) {
	if e.IsDeleted || e.Status != EntryStatusPosted {
		return nil, fmt.Errorf("%w: entry %s is %s", ErrEntryNotReversible, e.ID, e.Status)
	}

	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntryNotReversible, err)
	}

	rev := *e
	rev.ID = ReversalIDPrefix + e.ID
	rev.ReferenceID = ReversalReference(e.ReferenceID)
	rev.DrAmount, rev.CrAmount = e.CrAmount, e.DrAmount
	rev.DebitAccountNumber, rev.CreditAccountNumber = e.CreditAccountNumber, e.DebitAccountNumber
	rev.EntryType = e.EntryType.Opposite()
	rev.Amount = e.Amount.Neg()
	rev.Narration = ReversalNarration
	rev.Status = EntryStatusPosted
	rev.IsDeleted = false
	rev.CreatedAt = now

	return &rev, nil
}

// MarkReversed retains the entry for audit and removes it from active views.
func (e *Entry) MarkReversed() {
	e.IsDeleted = true
	e.Status = EntryStatusReversed
}

// EntryFilter narrows a scan of the entry store.
type EntryFilter struct {
	// From is inclusive, To exclusive; both compare against TransactionDate.
	From           *time.Time
	To             *time.Time
	BranchIDs      []string
	AccountIDs     []string
	IncludeDeleted bool
}
