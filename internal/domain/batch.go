package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// PostingBatch collects the entries of one transaction reference together
// with the accounts they move. A batch belongs to a single operation and is
// validated once before commit.
type PostingBatch struct {
	accounts    map[string]*Account
	ReferenceID string
	entries     []*Entry
}

// NewPostingBatch creates an empty batch for reference.
func NewPostingBatch(reference string) *PostingBatch {
	return &PostingBatch{
		ReferenceID: reference,
		accounts:    make(map[string]*Account),
	}
}

// Track registers an account with the batch. When the account is already
// tracked the existing instance is returned so balance updates accumulate.
func (b *PostingBatch) Track(account *Account) *Account {
	if existing, ok := b.accounts[account.ID]; ok {
		return existing
	}

	b.accounts[account.ID] = account

	return account
}

// Account returns a tracked account.
func (b *PostingBatch) Account(id string) (*Account, bool) {
	a, ok := b.accounts[id]
	return a, ok
}

// Add appends entries that belong to the batch reference.
func (b *PostingBatch) Add(entries ...*Entry) error {
	for _, e := range entries {
		if e.ReferenceID != b.ReferenceID {
			return fmt.Errorf("%w: entry %s belongs to %s, batch is %s",
				ErrDoubleEntryViolation, e.ID, e.ReferenceID, b.ReferenceID)
		}

		if _, ok := b.accounts[e.AccountID]; !ok {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, e.AccountID)
		}
	}

	b.entries = append(b.entries, entries...)

	return nil
}

// Entries returns the collected entries in insertion order.
func (b *PostingBatch) Entries() []*Entry {
	return b.entries
}

// Accounts returns the accounts moved by the batch, sorted by id.
func (b *PostingBatch) Accounts() []*Account {
	seen := make(map[string]bool)

	var out []*Account
	for _, e := range b.entries {
		if seen[e.AccountID] {
			continue
		}

		seen[e.AccountID] = true
		out = append(out, b.accounts[e.AccountID])
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Totals sums both sides of the batch.
func (b *PostingBatch) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range b.entries {
		debit = debit.Add(e.DrAmount)
		credit = credit.Add(e.CrAmount)
	}

	return debit, credit
}

// Validate enforces the double-entry invariant: at least two legs, each
// carrying one side, and total debits equal to total credits.
func (b *PostingBatch) Validate() error {
	if len(b.entries) < 2 {
		return fmt.Errorf("%w: %d entries for %s", ErrDoubleEntryViolation, len(b.entries), b.ReferenceID)
	}

	for _, e := range b.entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	debit, credit := b.Totals()
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: %s debits %s, credits %s", ErrDoubleEntryViolation, b.ReferenceID, debit, credit)
	}

	return nil
}
