package domain

import "time"

// Event types
const (
	EventTypeTransactionPosted   = "transaction.posted"
	EventTypeTransactionReversed = "transaction.reversed"
	EventTypeAccountCreated      = "account.created"
	EventTypeAccountRetired      = "account.retired"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeAccount     = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransactionPostedEvent payload
type TransactionPostedEvent struct {
	ReferenceID string   `json:"reference_id"`
	Operation   string   `json:"operation"`
	BranchID    string   `json:"branch_id"`
	TotalAmount string   `json:"total_amount"`
	EntryIDs    []string `json:"entry_ids"`
	AccountIDs  []string `json:"account_ids"`
	PostedAt    string   `json:"posted_at"`
}

// TransactionReversedEvent payload
type TransactionReversedEvent struct {
	ReferenceID         string   `json:"reference_id"`
	OriginalReferenceID string   `json:"original_reference_id"`
	TotalAmount         string   `json:"total_amount"`
	EntryIDs            []string `json:"entry_ids"`
	ReversedAt          string   `json:"reversed_at"`
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	AccountID     string `json:"account_id"`
	AccountNumber string `json:"account_number"`
	BranchID      string `json:"branch_id"`
	Category      string `json:"category"`
}

// Payload flattens a typed event payload into the outbox map.
func Payload(v any) map[string]any {
	return map[string]any(MarshalState(v))
}
