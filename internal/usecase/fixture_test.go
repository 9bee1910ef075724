package usecase_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
	"github.com/iho/bankledger/internal/usecase/mocks"
)

var branchB1 = domain.BranchContext{BranchID: "B1", BranchCode: "001", UserID: "teller-7", RequestID: "req-1"}

// ledgerFixture wires the posting and reversal use cases to in-memory stores.
type ledgerFixture struct {
	accounts  *mocks.MockAccountRepository
	entries   *mocks.MockEntryRepository
	postings  *mocks.MockPostingRepository
	rules     *mocks.MockRuleRepository
	outbox    *mocks.MockOutboxRepository
	audit     *mocks.MockAuditRepository
	txManager *mocks.MockTransactionManager
	publisher *mocks.MockEventPublisher
	locker    *mocks.MockLocker
	idGen     *mocks.MockIDGenerator

	posting  *usecase.PostingUseCase
	reversal *usecase.ReversalUseCase
	entry    *usecase.EntryUseCase
}

func testAccount(id, chart string, category domain.AccountCategory, balance int64) *domain.Account {
	return &domain.Account{
		ID:             id,
		AccountNumber:  "N-" + id,
		Name:           "Account " + id,
		BranchID:       "B1",
		BranchCode:     "001",
		ChartAccountID: chart,
		Category:       category,
		Balance:        decimal.NewFromInt(balance),
	}
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	f := &ledgerFixture{
		accounts: mocks.NewMockAccountRepository(
			testAccount("acc-a", "CH-CASH", domain.CategoryAsset, 1000),
			testAccount("acc-b", "CH-BANK", domain.CategoryAsset, 500),
			testAccount("acc-vault", "CH-VAULT", domain.CategoryAsset, 0),
			testAccount("acc-fee", "CH-FEE", domain.CategoryIncome, 0),
			testAccount("acc-exp", "CH-OPEX", domain.CategoryExpense, 0),
			testAccount("acc-comm", "CH-COMM", domain.CategoryExpense, 0),
			testAccount("acc-agent", "CH-AGENT", domain.CategoryLiability, 0),
		),
		entries:  mocks.NewMockEntryRepository(),
		postings: mocks.NewMockPostingRepository(),
		rules: mocks.NewMockRuleRepository(
			&domain.AccountingRule{EventCode: usecase.EventCodeCashRequisition, DeterminationAccountID: "CH-VAULT"},
			&domain.AccountingRule{EventCode: usecase.EventCodeCollectionCommission, DeterminationAccountID: "CH-COMM"},
			&domain.AccountingRule{EventCode: "FEE_INCOME", DeterminationAccountID: "CH-FEE"},
			&domain.AccountingRule{EventCode: "OfficeExpense", DeterminationAccountID: "CH-OPEX"},
			&domain.AccountingRule{EventCode: "BANK_SWEEP", DeterminationAccountID: "CH-BANK"},
		),
		outbox:    &mocks.MockOutboxRepository{},
		audit:     &mocks.MockAuditRepository{},
		txManager: mocks.NewMockTransactionManager(),
		publisher: &mocks.MockEventPublisher{},
		locker:    &mocks.MockLocker{},
		idGen:     mocks.NewMockIDGenerator(),
	}

	logger := zerolog.Nop()
	resolver := usecase.NewRuleResolver(f.rules, f.accounts, nil, 0, logger)

	f.posting = usecase.NewPostingUseCase(f.txManager, f.accounts, f.entries, f.postings, resolver, f.idGen, logger).
		WithLocker(f.locker).
		WithOutbox(f.outbox, f.publisher).
		WithAudit(f.audit)

	f.reversal = usecase.NewReversalUseCase(f.txManager, f.accounts, f.entries, f.postings, f.idGen, logger).
		WithLocker(f.locker).
		WithOutbox(f.outbox, f.publisher).
		WithAudit(f.audit)

	f.entry = usecase.NewEntryUseCase(f.entries, f.postings, f.audit)

	return f
}

func (f *ledgerFixture) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()

	acc := f.accounts.Stored(id)
	if acc == nil {
		t.Fatalf("account %s not stored", id)
	}

	return acc.Balance
}

// sums returns total debits and credits of the stored entries of a reference.
func sums(entries []*domain.Entry) (decimal.Decimal, decimal.Decimal) {
	dr, cr := decimal.Zero, decimal.Zero
	for _, e := range entries {
		dr = dr.Add(e.DrAmount)
		cr = cr.Add(e.CrAmount)
	}
	return dr, cr
}
