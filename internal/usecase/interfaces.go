package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByChartPosition finds the active account that realises a chart
	// position inside a branch.
	GetByChartPosition(ctx context.Context, chartAccountID, branchID, branchCode string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error)
	Retire(ctx context.Context, tx Transaction, id string, at time.Time) error
	Remove(ctx context.Context, tx Transaction, ids []string) (int64, error)
}

// EntryRepository defines data access for entries.
type EntryRepository interface {
	CreateBatch(ctx context.Context, tx Transaction, entries []*domain.Entry) error
	// GetByReference returns every entry of a reference, deleted ones included.
	GetByReference(ctx context.Context, referenceID string) ([]*domain.Entry, error)
	// GetActiveByReferenceForUpdate locks the posted, non-deleted entries of a reference.
	GetActiveByReferenceForUpdate(ctx context.Context, tx Transaction, referenceID string) ([]*domain.Entry, error)
	ExistsByReference(ctx context.Context, referenceID string) (bool, error)
	GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
	Find(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error)
	// SumByAccount totals every entry of an account, reversed originals included.
	SumByAccount(ctx context.Context, accountID string) (debit, credit decimal.Decimal, err error)
	MarkReversed(ctx context.Context, tx Transaction, ids []string) error
	Remove(ctx context.Context, tx Transaction, ids []string) (int64, error)
}

// PostingRepository stores one header per committed transaction reference.
type PostingRepository interface {
	// Create fails with domain.ErrDuplicateTransaction when the reference exists.
	Create(ctx context.Context, tx Transaction, posting *domain.Posting) error
	GetByReference(ctx context.Context, referenceID string) (*domain.Posting, error)
}

// RuleRepository is the read-mostly accounting rule table.
type RuleRepository interface {
	GetByEventCode(ctx context.Context, eventCode string) (*domain.AccountingRule, error)
	Create(ctx context.Context, rule *domain.AccountingRule) error
	List(ctx context.Context) ([]*domain.AccountingRule, error)
}

// BranchRepository is the branch directory.
type BranchRepository interface {
	ListByZone(ctx context.Context, zoneID string) ([]*domain.Branch, error)
}

// ReportSnapshotRepository appends generated reports.
type ReportSnapshotRepository interface {
	Create(ctx context.Context, snapshot *domain.ReportSnapshot) error
	List(ctx context.Context, kind domain.ReportKind, limit int) ([]*domain.ReportSnapshot, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context) (totalDebit, totalCredit decimal.Decimal, err error)
	UnbalancedReferences(ctx context.Context, limit int) ([]string, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// AccountResolver maps an event code to the account it posts to.
type AccountResolver interface {
	ResolveDeterminationAccount(ctx context.Context, eventCode string, branch domain.BranchContext) (*domain.Account, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient store failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Locker serialises work on a key across processes.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// EventPublisher delivers ledger events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...*domain.OutboxEvent) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete.
	Release(ctx context.Context, key string) error
}
