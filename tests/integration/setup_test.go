package integration

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/adapter/repository/postgres"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
	"github.com/iho/bankledger/tests/testutil"
)

// ledger bundles the use cases wired against a real database.
type ledger struct {
	db        *testutil.TestDB
	accounts  *postgres.AccountRepository
	entries   *postgres.EntryRepository
	outbox    *postgres.OutboxRepository
	posting   *usecase.PostingUseCase
	reversal  *usecase.ReversalUseCase
	reports   *usecase.ReportUseCase
	ledgerUC  *usecase.LedgerUseCase
	reconUC   *usecase.ReconciliationUseCase
	accountUC *usecase.AccountUseCase
}

// newLedger connects to the test database, truncates it and wires the
// posting stack. publisher may be nil.
func newLedger(t *testing.T, publisher usecase.EventPublisher) *ledger {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	logger := zerolog.Nop()

	accountRepo := postgres.NewAccountRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	postingRepo := postgres.NewPostingRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(logger)

	resolver := usecase.NewRuleResolver(postgres.NewRuleRepository(pool), accountRepo, nil, time.Minute, logger)

	return &ledger{
		db:       testDB,
		accounts: accountRepo,
		entries:  entryRepo,
		outbox:   outboxRepo,
		posting: usecase.NewPostingUseCase(txManager, accountRepo, entryRepo, postingRepo, resolver, idGen, logger).
			WithRetrier(retrier).
			WithOutbox(outboxRepo, publisher).
			WithAudit(auditRepo),
		reversal: usecase.NewReversalUseCase(txManager, accountRepo, entryRepo, postingRepo, idGen, logger).
			WithRetrier(retrier).
			WithOutbox(outboxRepo, publisher).
			WithAudit(auditRepo),
		reports: usecase.NewReportUseCase(accountRepo, entryRepo, postgres.NewBranchRepository(pool),
			postgres.NewReportSnapshotRepository(pool), idGen, 4, logger),
		ledgerUC:  usecase.NewLedgerUseCase(ledgerRepo),
		reconUC:   usecase.NewReconciliationUseCase(accountRepo, entryRepo, ledgerRepo),
		accountUC: usecase.NewAccountUseCase(txManager, accountRepo, idGen, logger),
	}
}

func (l *ledger) account(t *testing.T, branchID, number string, category domain.AccountCategory, balance int64) *domain.Account {
	t.Helper()

	return l.db.CreateTestAccount(context.Background(), testutil.AccountSpec{
		AccountNumber: number,
		BranchID:      branchID,
		BranchCode:    branchID,
		Category:      category,
		Balance:       decimal.NewFromInt(balance),
	})
}

func (l *ledger) requireBalance(t *testing.T, accountID string, want int64) {
	t.Helper()

	acc, err := l.accounts.GetByID(context.Background(), accountID)
	if err != nil {
		t.Fatalf("failed to get account %s: %v", accountID, err)
	}

	if !acc.Balance.Equal(decimal.NewFromInt(want)) {
		t.Errorf("expected account %s balance %d, got %s", acc.AccountNumber, want, acc.Balance)
	}
}

func (l *ledger) requireConsistent(t *testing.T) {
	t.Helper()

	report, err := l.ledgerUC.CheckConsistency(context.Background())
	if err != nil {
		t.Fatalf("consistency check failed: %v", err)
	}

	if !report.Consistent {
		t.Errorf("ledger inconsistent: debits %s credits %s unbalanced %v",
			report.TotalDebit, report.TotalCredit, report.UnbalancedReferences)
	}
}

func branchContext(branchID string) domain.BranchContext {
	return domain.BranchContext{BranchID: branchID, BranchCode: branchID, UserID: "integration"}
}
