package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/reporting"
)

// ReportUseCase generates trial balances and financial statements. Reports
// only read the ledger; concurrent generations are bounded by workers.
type ReportUseCase struct {
	accountRepo  AccountRepository
	entryRepo    EntryRepository
	branchRepo   BranchRepository
	snapshotRepo ReportSnapshotRepository
	idGen        IDGenerator
	workers      *semaphore.Weighted
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	branchRepo BranchRepository,
	snapshotRepo ReportSnapshotRepository,
	idGen IDGenerator,
	workers int,
	logger zerolog.Logger,
) *ReportUseCase {
	if workers <= 0 {
		workers = DefaultReportWorkers
	}

	return &ReportUseCase{
		accountRepo:  accountRepo,
		entryRepo:    entryRepo,
		branchRepo:   branchRepo,
		snapshotRepo: snapshotRepo,
		idGen:        idGen,
		workers:      semaphore.NewWeighted(int64(workers)),
		logger:       logger,
	}
}

// WithMetrics enables Prometheus instrumentation.
func (uc *ReportUseCase) WithMetrics(m *metrics.Metrics) *ReportUseCase {
	uc.metrics = m
	return uc
}

// TrialBalanceInput represents input for a trial balance.
type TrialBalanceInput struct {
	Period domain.ReportPeriod
	Filter domain.TrialBalanceFilter
}

// StatementInput represents input for a balance sheet or income statement.
// EntityID is a branch id at Branch level and a zone id at Zone level; it is
// only a label at HeadOffice level.
type StatementInput struct {
	EntityID string
	Level    domain.QueryLevel
	Period   domain.ReportPeriod
	Persist  bool
}

// GenerateTrialBalance returns the 4-column trial balance.
func (uc *ReportUseCase) GenerateTrialBalance(ctx context.Context, input TrialBalanceInput) (*domain.TrialBalance4Column, error) {
	var tb *domain.TrialBalance4Column

	err := uc.run(ctx, "trial_balance", func(ctx context.Context) error {
		accounts, entries, err := uc.loadForTrialBalance(ctx, input)
		if err != nil {
			return err
		}

		tb, err = reporting.TrialBalance4(ctx, accounts, entries, input.Period)

		return err
	})
	if err != nil {
		return nil, err
	}

	return tb, nil
}

// GenerateTrialBalance6 returns the 6-column trial balance.
func (uc *ReportUseCase) GenerateTrialBalance6(ctx context.Context, input TrialBalanceInput) (*domain.TrialBalance6Column, error) {
	var tb *domain.TrialBalance6Column

	err := uc.run(ctx, "trial_balance_6", func(ctx context.Context) error {
		accounts, entries, err := uc.loadForTrialBalance(ctx, input)
		if err != nil {
			return err
		}

		tb, err = reporting.TrialBalance6(ctx, accounts, entries, input.Period)

		return err
	})
	if err != nil {
		return nil, err
	}

	return tb, nil
}

// GenerateBalanceSheet returns the balance sheet as of the end of the period
// and optionally appends a snapshot of it.
func (uc *ReportUseCase) GenerateBalanceSheet(ctx context.Context, input StatementInput) (*domain.BalanceSheet, error) {
	var sheet *domain.BalanceSheet

	err := uc.run(ctx, string(domain.ReportKindBalanceSheet), func(ctx context.Context) error {
		branchIDs, err := uc.scope(ctx, input.Level, input.EntityID)
		if err != nil {
			return err
		}

		accounts, entries, err := uc.load(ctx, domain.AccountFilter{BranchIDs: branchIDs, IncludeRetired: true}, input.Period)
		if err != nil {
			return err
		}

		sheet, err = reporting.BalanceSheet(ctx, input.EntityID, input.Level, accounts, entries, input.Period)
		if err != nil {
			return err
		}

		if input.Persist {
			return uc.persist(ctx, domain.ReportKindBalanceSheet, input, sheet)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return sheet, nil
}

// GenerateIncomeExpenseStatement returns income and expense activity over
// the period and optionally appends a snapshot of it.
func (uc *ReportUseCase) GenerateIncomeExpenseStatement(ctx context.Context, input StatementInput) (*domain.IncomeExpenseStatement, error) {
	var stmt *domain.IncomeExpenseStatement

	err := uc.run(ctx, string(domain.ReportKindIncomeStatement), func(ctx context.Context) error {
		branchIDs, err := uc.scope(ctx, input.Level, input.EntityID)
		if err != nil {
			return err
		}

		filter := domain.AccountFilter{
			BranchIDs:      branchIDs,
			Categories:     []domain.AccountCategory{domain.CategoryIncome, domain.CategoryExpense},
			IncludeRetired: true,
		}

		accounts, entries, err := uc.load(ctx, filter, input.Period)
		if err != nil {
			return err
		}

		stmt, err = reporting.IncomeExpenseStatement(ctx, input.Level, input.EntityID, accounts, entries, input.Period)
		if err != nil {
			return err
		}

		if input.Persist {
			return uc.persist(ctx, domain.ReportKindIncomeStatement, input, stmt)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stmt, nil
}

// ListSnapshots returns persisted reports of a kind, newest first.
func (uc *ReportUseCase) ListSnapshots(ctx context.Context, kind domain.ReportKind, limit int) ([]*domain.ReportSnapshot, error) {
	limit, _, err := domain.ValidatePagination(limit, 0)
	if err != nil {
		return nil, err
	}

	return uc.snapshotRepo.List(ctx, kind, limit)
}

// run acquires a worker slot and records metrics around one generation.
func (uc *ReportUseCase) run(ctx context.Context, report string, fn func(ctx context.Context) error) error {
	if err := uc.workers.Acquire(ctx, 1); err != nil {
		return err
	}
	defer uc.workers.Release(1)

	if uc.metrics != nil {
		uc.metrics.ReportsInFlight.Inc()
		defer uc.metrics.ReportsInFlight.Dec()
	}

	started := time.Now()

	if err := fn(ctx); err != nil {
		uc.logger.Warn().Err(err).Str("report", report).Msg("report generation failed")
		return err
	}

	if uc.metrics != nil {
		uc.metrics.ReportsGenerated.WithLabelValues(report).Inc()
		uc.metrics.ReportDuration.WithLabelValues(report).Observe(time.Since(started).Seconds())
	}

	uc.logger.Debug().
		Str("report", report).
		Dur("took", time.Since(started)).
		Msg("report generated")

	return nil
}

func (uc *ReportUseCase) loadForTrialBalance(ctx context.Context, input TrialBalanceInput) ([]*domain.Account, []*domain.Entry, error) {
	filter := domain.AccountFilter{
		BranchIDs:      nonEmpty(input.Filter.BranchIDs),
		AccountIDs:     input.Filter.AccountIDs,
		Categories:     input.Filter.Categories,
		IncludeRetired: true,
	}

	return uc.load(ctx, filter, input.Period)
}

// load reads the accounts in scope and every entry on them up to the end of
// the period. Reversed originals are included so that they net against
// their reversal rows.
func (uc *ReportUseCase) load(ctx context.Context, filter domain.AccountFilter, period domain.ReportPeriod) ([]*domain.Account, []*domain.Entry, error) {
	if err := period.Validate(); err != nil {
		return nil, nil, err
	}

	// A scope that names no branch, such as an empty zone, covers nothing.
	if filter.BranchIDs != nil && len(filter.BranchIDs) == 0 {
		return nil, nil, nil
	}

	_, end := period.Bounds()

	entryFilter := domain.EntryFilter{
		To:             &end,
		AccountIDs:     filter.AccountIDs,
		IncludeDeleted: true,
	}

	// An entry records the branch that requested the posting, not the one
	// owning the account, so branch scope is resolved to account ids first.
	if len(filter.BranchIDs) > 0 {
		accounts, err := uc.accountRepo.List(ctx, filter)
		if err != nil {
			return nil, nil, fmt.Errorf("load accounts: %w", err)
		}

		if len(accounts) == 0 {
			return accounts, nil, nil
		}

		entryFilter.AccountIDs = accountIDs(accounts)

		entries, err := uc.entryRepo.Find(ctx, entryFilter)
		if err != nil {
			return nil, nil, fmt.Errorf("load entries: %w", err)
		}

		return accounts, entries, nil
	}

	var (
		accounts []*domain.Account
		entries  []*domain.Entry
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		accounts, err = uc.accountRepo.List(gctx, filter)
		if err != nil {
			return fmt.Errorf("load accounts: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error
		entries, err = uc.entryRepo.Find(gctx, entryFilter)
		if err != nil {
			return fmt.Errorf("load entries: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return accounts, entries, nil
}

// scope returns the branches a statement covers. Nil means every branch;
// an empty, non-nil slice means none.
func (uc *ReportUseCase) scope(ctx context.Context, level domain.QueryLevel, entityID string) ([]string, error) {
	switch level {
	case domain.QueryLevelBranch:
		if entityID == "" {
			return nil, fmt.Errorf("%w: branch id is required", domain.ErrInvalidQueryLevel)
		}

		return []string{entityID}, nil
	case domain.QueryLevelZone:
		if entityID == "" {
			return nil, fmt.Errorf("%w: zone id is required", domain.ErrInvalidQueryLevel)
		}

		branches, err := uc.branchRepo.ListByZone(ctx, entityID)
		if err != nil {
			return nil, err
		}

		ids := make([]string, 0, len(branches))
		for _, b := range branches {
			ids = append(ids, b.ID)
		}

		return ids, nil
	case domain.QueryLevelHeadOffice:
		return nil, nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrInvalidQueryLevel, level)
}

func (uc *ReportUseCase) persist(ctx context.Context, kind domain.ReportKind, input StatementInput, report any) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSnapshotPersistFailure, err)
	}

	snapshot := &domain.ReportSnapshot{
		ID:         uc.idGen.Generate(),
		Kind:       kind,
		EntityID:   input.EntityID,
		EntityType: input.Level,
		Period:     input.Period,
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	}

	if err := uc.snapshotRepo.Create(ctx, snapshot); err != nil {
		uc.logger.Error().Err(err).Str("kind", string(kind)).Str("entity_id", input.EntityID).Msg("failed to persist report snapshot")
		return fmt.Errorf("%w: %w", domain.ErrSnapshotPersistFailure, err)
	}

	return nil
}

func nonEmpty(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}

	return ids
}
