package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for compliance and debugging
type AuditLog struct {
	ID           string
	UserID       string // Who performed the action
	BranchID     string // Branch the action was performed for
	Action       string // What action (transaction.post, account.create, etc.)
	ResourceType string // Type of resource (transaction, account, rule)
	ResourceID   string // ID of the resource
	RequestID    string // Request ID for tracing
	BeforeState  JSON   // State before the action
	AfterState   JSON   // State after the action
	Status       string // success, failure, error
	ErrorMessage string // If status=error, the error message
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	// Account actions
	AuditActionAccountCreate AuditAction = "account.create"
	AuditActionAccountRetire AuditAction = "account.retire"
	AuditActionAccountRemove AuditAction = "account.remove"

	// Transaction actions
	AuditActionTransactionPost    AuditAction = "transaction.post"
	AuditActionTransactionReverse AuditAction = "transaction.reverse"
	AuditActionEntryRemove        AuditAction = "entry.remove"

	// Rule actions
	AuditActionRuleCreate AuditAction = "rule.create"
)

// Resource types
const (
	AuditResourceTransaction = "transaction"
	AuditResourceAccount     = "account"
	AuditResourceEntry       = "entry"
	AuditResourceRule        = "rule"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusError   AuditStatus = "error"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
