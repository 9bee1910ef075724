package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/adapter/http/handler"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	PostingHandler     *handler.PostingHandler
	TransactionHandler *handler.TransactionHandler
	RuleHandler        *handler.RuleHandler
	ReportHandler      *handler.ReportHandler
	LedgerHandler      *handler.LedgerHandler
	AdminHandler       *handler.AdminHandler
	HealthHandler      *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.BranchContext)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotency.Wrap)
		}

		// Postings
		r.Route("/postings", func(r chi.Router) {
			r.Post("/auto", cfg.PostingHandler.AutoPost)
			r.Post("/cash-requisitions", cfg.PostingHandler.CashRequisition)
			r.Post("/commissions", cfg.PostingHandler.Commission)
			r.Post("/adjustments", cfg.PostingHandler.Adjustment)
			r.Post("/transfers", cfg.PostingHandler.Transfer)
		})

		// Committed references
		r.Route("/transactions/{reference}", func(r chi.Router) {
			r.Get("/", cfg.TransactionHandler.Get)
			r.Get("/exists", cfg.TransactionHandler.Exists)
			r.Get("/entries", cfg.TransactionHandler.Entries)
			r.Get("/audit", cfg.TransactionHandler.Audit)
			r.Post("/reverse", cfg.TransactionHandler.Reverse)
		})

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/entries", cfg.AccountHandler.Entries)
			r.Post("/{id}/retire", cfg.AccountHandler.Retire)
		})

		// Accounting rules
		r.Route("/rules", func(r chi.Router) {
			r.Post("/", cfg.RuleHandler.Create)
			r.Get("/", cfg.RuleHandler.List)
			r.Get("/{eventCode}", cfg.RuleHandler.Get)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/trial-balance", cfg.ReportHandler.TrialBalance)
			r.Get("/balance-sheet", cfg.ReportHandler.BalanceSheet)
			r.Get("/income-statement", cfg.ReportHandler.IncomeStatement)
			r.Get("/snapshots", cfg.ReportHandler.Snapshots)
		})

		// Ledger-wide checks
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
			r.Get("/reconciliation", cfg.LedgerHandler.Reconcile)
			r.Get("/reconciliation/{id}", cfg.LedgerHandler.ReconcileAccount)
			r.Post("/outbox/flush", cfg.LedgerHandler.FlushOutbox)
		})

		// Administrative removal
		r.Route("/admin", func(r chi.Router) {
			r.Delete("/entries", cfg.AdminHandler.RemoveEntries)
			r.Delete("/accounts", cfg.AdminHandler.RemoveAccounts)
		})
	})

	return r
}
