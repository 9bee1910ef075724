package dto

import (
	"encoding/json"
	"time"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string    `json:"id"`
	AccountNumber  string    `json:"account_number"`
	Name           string    `json:"name"`
	BranchID       string    `json:"branch_id"`
	BranchCode     string    `json:"branch_code,omitempty"`
	OwnerID        string    `json:"owner_id,omitempty"`
	ChartAccountID string    `json:"chart_account_id"`
	CategoryID     string    `json:"category_id,omitempty"`
	Category       string    `json:"category"`
	Balance        string    `json:"balance"`
	Version        int64     `json:"version"`
	Retired        bool      `json:"retired"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		AccountNumber:  a.AccountNumber,
		Name:           a.Name,
		BranchID:       a.BranchID,
		BranchCode:     a.BranchCode,
		OwnerID:        a.OwnerID,
		ChartAccountID: a.ChartAccountID,
		CategoryID:     a.CategoryID,
		Category:       string(a.Category),
		Balance:        a.Balance.String(),
		Version:        a.Version,
		Retired:        a.Retired,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID                  string    `json:"id"`
	ReferenceID         string    `json:"reference_id"`
	AccountID           string    `json:"account_id"`
	AccountNumber       string    `json:"account_number"`
	DebitAccountNumber  string    `json:"debit_account_number"`
	CreditAccountNumber string    `json:"credit_account_number"`
	EventCode           string    `json:"event_code"`
	BranchID            string    `json:"branch_id"`
	ExternalBranchID    string    `json:"external_branch_id,omitempty"`
	CounterpartyRef     string    `json:"counterparty_ref,omitempty"`
	Origin              string    `json:"origin,omitempty"`
	Narration           string    `json:"narration"`
	EntryType           string    `json:"entry_type"`
	Status              string    `json:"status"`
	DrAmount            string    `json:"dr_amount"`
	CrAmount            string    `json:"cr_amount"`
	Amount              string    `json:"amount"`
	IsDeleted           bool      `json:"is_deleted"`
	TransactionDate     time.Time `json:"transaction_date"`
	ValueDate           time.Time `json:"value_date"`
	CreatedAt           time.Time `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:                  e.ID,
		ReferenceID:         e.ReferenceID,
		AccountID:           e.AccountID,
		AccountNumber:       e.AccountNumber,
		DebitAccountNumber:  e.DebitAccountNumber,
		CreditAccountNumber: e.CreditAccountNumber,
		EventCode:           e.EventCode,
		BranchID:            e.BranchID,
		ExternalBranchID:    e.ExternalBranchID,
		CounterpartyRef:     e.CounterpartyRef,
		Origin:              e.Origin,
		Narration:           e.Narration,
		EntryType:           string(e.EntryType),
		Status:              string(e.Status),
		DrAmount:            e.DrAmount.String(),
		CrAmount:            e.CrAmount.String(),
		Amount:              e.Amount.String(),
		IsDeleted:           e.IsDeleted,
		TransactionDate:     e.TransactionDate,
		ValueDate:           e.ValueDate,
		CreatedAt:           e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// PostingResponse is the header of a committed reference.
type PostingResponse struct {
	ReferenceID string    `json:"reference_id"`
	Operation   string    `json:"operation"`
	BranchID    string    `json:"branch_id"`
	ReversalOf  string    `json:"reversal_of,omitempty"`
	TotalAmount string    `json:"total_amount"`
	EntryCount  int       `json:"entry_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// PostingFromDomain converts a posting header to response.
func PostingFromDomain(p *domain.Posting) *PostingResponse {
	return &PostingResponse{
		ReferenceID: p.ReferenceID,
		Operation:   string(p.Operation),
		BranchID:    p.BranchID,
		ReversalOf:  p.ReversalOf,
		TotalAmount: p.TotalAmount.String(),
		EntryCount:  p.EntryCount,
		CreatedAt:   p.CreatedAt,
	}
}

// PostingResultResponse is returned by every posting and reversal.
type PostingResultResponse struct {
	Posting  *PostingResponse   `json:"posting"`
	Entries  []*EntryResponse   `json:"entries"`
	Accounts []*AccountResponse `json:"accounts"`
}

// PostingResultFromUseCase converts a posting result to response.
func PostingResultFromUseCase(r *usecase.PostingResult) *PostingResultResponse {
	return &PostingResultResponse{
		Posting:  PostingFromDomain(r.Posting),
		Entries:  EntriesFromDomain(r.Entries),
		Accounts: AccountsFromDomain(r.Accounts),
	}
}

// TransactionResponse is a committed reference with all of its entries.
type TransactionResponse struct {
	Posting *PostingResponse `json:"posting"`
	Entries []*EntryResponse `json:"entries"`
}

// TransactionFromUseCase converts a transaction view to response.
func TransactionFromUseCase(v *usecase.TransactionView) *TransactionResponse {
	return &TransactionResponse{
		Posting: PostingFromDomain(v.Posting),
		Entries: EntriesFromDomain(v.Entries),
	}
}

// SnapshotResponse represents a persisted report.
type SnapshotResponse struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	EntityID   string          `json:"entity_id"`
	EntityType string          `json:"entity_type"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SnapshotsFromDomain converts report snapshots to responses.
func SnapshotsFromDomain(snapshots []*domain.ReportSnapshot) []*SnapshotResponse {
	result := make([]*SnapshotResponse, len(snapshots))
	for i, s := range snapshots {
		result[i] = &SnapshotResponse{
			ID:         s.ID,
			Kind:       string(s.Kind),
			EntityID:   s.EntityID,
			EntityType: string(s.EntityType),
			From:       s.Period.From.Format(time.DateOnly),
			To:         s.Period.To.Format(time.DateOnly),
			Payload:    json.RawMessage(s.Payload),
			CreatedAt:  s.CreatedAt,
		}
	}
	return result
}

// AuditLogResponse represents one audit trail row.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	BranchID     string         `json:"branch_id,omitempty"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	RequestID    string         `json:"request_id,omitempty"`
	BeforeState  map[string]any `json:"before_state,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogsFromDomain converts audit rows to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			UserID:       l.UserID,
			BranchID:     l.BranchID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			RequestID:    l.RequestID,
			BeforeState:  l.BeforeState,
			AfterState:   l.AfterState,
			Status:       l.Status,
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// RemovedResponse reports how many rows an administrative removal deleted.
type RemovedResponse struct {
	Removed int64 `json:"removed"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Reference string `json:"reference,omitempty"`
}
