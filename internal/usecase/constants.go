package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultRuleCacheTTL is how long a resolved accounting rule stays cached.
	DefaultRuleCacheTTL = 5 * time.Minute

	// DefaultReportWorkers bounds concurrent report generations.
	DefaultReportWorkers = 4

	// publishTimeout bounds post-commit event delivery.
	publishTimeout = 5 * time.Second

	// Default event codes per posting operation.
	EventCodeTransfer             = "TRANSFER"
	EventCodeCashRequisition      = "CashRequisition"
	EventCodeCollectionCommission = "DailyCollectionCommission"
)
