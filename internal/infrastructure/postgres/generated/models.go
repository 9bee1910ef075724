package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID             string             `json:"id"`
	AccountNumber  string             `json:"account_number"`
	Name           string             `json:"name"`
	BranchID       string             `json:"branch_id"`
	BranchCode     string             `json:"branch_code"`
	OwnerID        string             `json:"owner_id"`
	ChartAccountID string             `json:"chart_account_id"`
	CategoryID     string             `json:"category_id"`
	Category       string             `json:"category"`
	Balance        pgtype.Numeric     `json:"balance"`
	Version        int64              `json:"version"`
	Retired        bool               `json:"retired"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

type AccountingRule struct {
	ID                     string `json:"id"`
	EventCode              string `json:"event_code"`
	DeterminationAccountID string `json:"determination_account_id"`
	Description            string `json:"description"`
}

type Branch struct {
	ID        string             `json:"id"`
	Code      string             `json:"code"`
	Name      string             `json:"name"`
	ZoneID    string             `json:"zone_id"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type Entry struct {
	ID                  string             `json:"id"`
	ReferenceID         string             `json:"reference_id"`
	AccountID           string             `json:"account_id"`
	AccountNumber       string             `json:"account_number"`
	DebitAccountNumber  string             `json:"debit_account_number"`
	CreditAccountNumber string             `json:"credit_account_number"`
	EventCode           string             `json:"event_code"`
	BranchID            string             `json:"branch_id"`
	ExternalBranchID    string             `json:"external_branch_id"`
	CounterpartyRef     string             `json:"counterparty_ref"`
	Origin              string             `json:"origin"`
	Narration           string             `json:"narration"`
	EntryType           string             `json:"entry_type"`
	Status              string             `json:"status"`
	DrAmount            pgtype.Numeric     `json:"dr_amount"`
	CrAmount            pgtype.Numeric     `json:"cr_amount"`
	Amount              pgtype.Numeric     `json:"amount"`
	IsDeleted           bool               `json:"is_deleted"`
	TransactionDate     pgtype.Timestamptz `json:"transaction_date"`
	ValueDate           pgtype.Timestamptz `json:"value_date"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
}

type Posting struct {
	ReferenceID string             `json:"reference_id"`
	Operation   string             `json:"operation"`
	BranchID    string             `json:"branch_id"`
	ReversalOf  string             `json:"reversal_of"`
	TotalAmount pgtype.Numeric     `json:"total_amount"`
	EntryCount  int32              `json:"entry_count"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

type ReportSnapshot struct {
	ID         string             `json:"id"`
	Kind       string             `json:"kind"`
	EntityID   string             `json:"entity_id"`
	EntityType string             `json:"entity_type"`
	PeriodFrom pgtype.Timestamptz `json:"period_from"`
	PeriodTo   pgtype.Timestamptz `json:"period_to"`
	Payload    []byte             `json:"payload"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}
