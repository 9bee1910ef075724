package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostingOperation names the business event that produced a posting.
type PostingOperation string

const (
	OperationAutoPost             PostingOperation = "auto_post"
	OperationCashRequisition      PostingOperation = "cash_requisition"
	OperationCollectionCommission PostingOperation = "daily_collection_commission"
	OperationNonCashAdjustment    PostingOperation = "non_cash_adjustment"
	OperationTransfer             PostingOperation = "transfer"
	OperationReversal             PostingOperation = "reversal"
)

// Posting is the header row of a committed transaction reference. The store
// keeps reference ids unique, which makes a second commit of the same
// reference fail.
type Posting struct {
	CreatedAt   time.Time
	ReferenceID string
	Operation   PostingOperation
	BranchID    string
	ReversalOf  string
	TotalAmount decimal.Decimal
	EntryCount  int
}
