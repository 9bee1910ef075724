package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func copyEntry(e *domain.Entry) *domain.Entry {
	c := *e
	return &c
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// MockAccountRepository is an in-memory AccountRepository. It hands out
// copies so that callers cannot change stored state without a write.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc             func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc            func(ctx context.Context, id string) (*domain.Account, error)
	GetByChartPositionFunc func(ctx context.Context, chartAccountID, branchID, branchCode string) (*domain.Account, error)
	GetByIDsForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalanceFunc      func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc               func(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error)
	RetireFunc             func(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error
	RemoveFunc             func(ctx context.Context, tx usecase.Transaction, ids []string) (int64, error)
}

func NewMockAccountRepository(accounts ...*domain.Account) *MockAccountRepository {
	m := &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
	for _, a := range accounts {
		m.accounts[a.ID] = copyAccount(a)
	}
	return m
}

// Stored returns a copy of the stored account, or nil.
func (m *MockAccountRepository) Stored(id string) *domain.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return copyAccount(acc)
	}
	return nil
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = copyAccount(account)
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return copyAccount(acc), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByChartPosition(ctx context.Context, chartAccountID, branchID, branchCode string) (*domain.Account, error) {
	if m.GetByChartPositionFunc != nil {
		return m.GetByChartPositionFunc(ctx, chartAccountID, branchID, branchCode)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.sortedLocked() {
		inBranch := acc.BranchID == branchID
		if branchID == "" {
			inBranch = acc.BranchCode == branchCode
		}
		if acc.ChartAccountID == chartAccountID && inBranch && !acc.Retired {
			return copyAccount(acc), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, copyAccount(acc))
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = balance
	acc.Version++
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := []*domain.Account{}
	for _, acc := range m.sortedLocked() {
		if len(filter.BranchIDs) > 0 && !contains(filter.BranchIDs, acc.BranchID) {
			continue
		}
		if len(filter.AccountIDs) > 0 && !contains(filter.AccountIDs, acc.ID) {
			continue
		}
		if len(filter.Categories) > 0 && !contains(filter.Categories, acc.Category) {
			continue
		}
		if acc.Retired && !filter.IncludeRetired {
			continue
		}
		accounts = append(accounts, copyAccount(acc))
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(accounts) {
			return []*domain.Account{}, nil
		}
		accounts = accounts[filter.Offset:]
	}
	if filter.Limit > 0 && len(accounts) > filter.Limit {
		accounts = accounts[:filter.Limit]
	}
	return accounts, nil
}

func (m *MockAccountRepository) Retire(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	if m.RetireFunc != nil {
		return m.RetireFunc(ctx, tx, id, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Retired = true
	acc.UpdatedAt = at
	return nil
}

func (m *MockAccountRepository) Remove(ctx context.Context, tx usecase.Transaction, ids []string) (int64, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, tx, ids)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := m.accounts[id]; ok {
			delete(m.accounts, id)
			n++
		}
	}
	return n, nil
}

func (m *MockAccountRepository) sortedLocked() []*domain.Account {
	out := make([]*domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MockEntryRepository is an in-memory EntryRepository that keeps insertion order.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.Entry

	CreateBatchFunc                   func(ctx context.Context, tx usecase.Transaction, entries []*domain.Entry) error
	GetByReferenceFunc                func(ctx context.Context, referenceID string) ([]*domain.Entry, error)
	GetActiveByReferenceForUpdateFunc func(ctx context.Context, tx usecase.Transaction, referenceID string) ([]*domain.Entry, error)
	GetByAccountFunc                  func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
	FindFunc                          func(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error)
	MarkReversedFunc                  func(ctx context.Context, tx usecase.Transaction, ids []string) error
}

func NewMockEntryRepository(entries ...*domain.Entry) *MockEntryRepository {
	m := &MockEntryRepository{}
	for _, e := range entries {
		m.entries = append(m.entries, copyEntry(e))
	}
	return m
}

// All returns copies of every stored entry.
func (m *MockEntryRepository) All() []*domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, copyEntry(e))
	}
	return out
}

func (m *MockEntryRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, entries []*domain.Entry) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, tx, entries)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.entries = append(m.entries, copyEntry(e))
	}
	return nil
}

func (m *MockEntryRepository) GetByReference(ctx context.Context, referenceID string) ([]*domain.Entry, error) {
	if m.GetByReferenceFunc != nil {
		return m.GetByReferenceFunc(ctx, referenceID)
	}
	return m.filter(func(e *domain.Entry) bool { return e.ReferenceID == referenceID }), nil
}

func (m *MockEntryRepository) GetActiveByReferenceForUpdate(ctx context.Context, tx usecase.Transaction, referenceID string) ([]*domain.Entry, error) {
	if m.GetActiveByReferenceForUpdateFunc != nil {
		return m.GetActiveByReferenceForUpdateFunc(ctx, tx, referenceID)
	}
	return m.filter(func(e *domain.Entry) bool {
		return e.ReferenceID == referenceID && !e.IsDeleted && e.Status == domain.EntryStatusPosted
	}), nil
}

func (m *MockEntryRepository) ExistsByReference(ctx context.Context, referenceID string) (bool, error) {
	entries, err := m.GetByReference(ctx, referenceID)
	return len(entries) > 0, err
}

func (m *MockEntryRepository) GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	if m.GetByAccountFunc != nil {
		return m.GetByAccountFunc(ctx, accountID, limit, offset)
	}
	entries := m.filter(func(e *domain.Entry) bool { return e.AccountID == accountID })
	if offset >= len(entries) {
		return []*domain.Entry{}, nil
	}
	entries = entries[offset:]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *MockEntryRepository) Find(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, filter)
	}
	return m.filter(func(e *domain.Entry) bool {
		if filter.From != nil && e.TransactionDate.Before(*filter.From) {
			return false
		}
		if filter.To != nil && !e.TransactionDate.Before(*filter.To) {
			return false
		}
		if len(filter.BranchIDs) > 0 && !contains(filter.BranchIDs, e.BranchID) {
			return false
		}
		if len(filter.AccountIDs) > 0 && !contains(filter.AccountIDs, e.AccountID) {
			return false
		}
		return filter.IncludeDeleted || !e.IsDeleted
	}), nil
}

func (m *MockEntryRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range m.filter(func(e *domain.Entry) bool { return e.AccountID == accountID }) {
		debit = debit.Add(e.DrAmount)
		credit = credit.Add(e.CrAmount)
	}
	return debit, credit, nil
}

func (m *MockEntryRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, ids []string) error {
	if m.MarkReversedFunc != nil {
		return m.MarkReversedFunc(ctx, tx, ids)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if contains(ids, e.ID) {
			e.MarkReversed()
		}
	}
	return nil
}

func (m *MockEntryRepository) Remove(ctx context.Context, tx usecase.Transaction, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	var n int64
	for _, e := range m.entries {
		if contains(ids, e.ID) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return n, nil
}

func (m *MockEntryRepository) filter(keep func(e *domain.Entry) bool) []*domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*domain.Entry{}
	for _, e := range m.entries {
		if keep(e) {
			out = append(out, copyEntry(e))
		}
	}
	return out
}

// MockPostingRepository is an in-memory PostingRepository with a unique reference.
type MockPostingRepository struct {
	mu       sync.RWMutex
	postings map[string]*domain.Posting

	CreateFunc func(ctx context.Context, tx usecase.Transaction, posting *domain.Posting) error
}

func NewMockPostingRepository() *MockPostingRepository {
	return &MockPostingRepository{postings: make(map[string]*domain.Posting)}
}

func (m *MockPostingRepository) Create(ctx context.Context, tx usecase.Transaction, posting *domain.Posting) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, posting)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.postings[posting.ReferenceID]; ok {
		return domain.ErrDuplicateTransaction
	}
	c := *posting
	m.postings[posting.ReferenceID] = &c
	return nil
}

func (m *MockPostingRepository) GetByReference(ctx context.Context, referenceID string) (*domain.Posting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.postings[referenceID]; ok {
		c := *p
		return &c, nil
	}
	return nil, domain.ErrEntriesNotFound
}

// Count returns the number of stored postings.
func (m *MockPostingRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.postings)
}

// MockRuleRepository is an in-memory RuleRepository.
type MockRuleRepository struct {
	mu    sync.RWMutex
	rules map[string]*domain.AccountingRule
	calls int

	GetByEventCodeFunc func(ctx context.Context, eventCode string) (*domain.AccountingRule, error)
}

func NewMockRuleRepository(rules ...*domain.AccountingRule) *MockRuleRepository {
	m := &MockRuleRepository{rules: make(map[string]*domain.AccountingRule)}
	for _, r := range rules {
		m.rules[r.EventCode] = r
	}
	return m
}

// Calls returns how many times GetByEventCode was called.
func (m *MockRuleRepository) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

func (m *MockRuleRepository) GetByEventCode(ctx context.Context, eventCode string) (*domain.AccountingRule, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.GetByEventCodeFunc != nil {
		return m.GetByEventCodeFunc(ctx, eventCode)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rules[eventCode]; ok {
		c := *r
		return &c, nil
	}
	return nil, domain.ErrRuleNotFound
}

func (m *MockRuleRepository) Create(ctx context.Context, rule *domain.AccountingRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *rule
	m.rules[rule.EventCode] = &c
	return nil
}

func (m *MockRuleRepository) List(ctx context.Context) ([]*domain.AccountingRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AccountingRule, 0, len(m.rules))
	for _, r := range m.rules {
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventCode < out[j].EventCode })
	return out, nil
}

// MockBranchRepository is an in-memory BranchRepository.
type MockBranchRepository struct {
	Branches []*domain.Branch
}

func (m *MockBranchRepository) ListByZone(ctx context.Context, zoneID string) ([]*domain.Branch, error) {
	out := []*domain.Branch{}
	for _, b := range m.Branches {
		if b.ZoneID == zoneID {
			out = append(out, b)
		}
	}
	return out, nil
}

// MockReportSnapshotRepository is an in-memory ReportSnapshotRepository.
type MockReportSnapshotRepository struct {
	mu        sync.Mutex
	Snapshots []*domain.ReportSnapshot

	CreateFunc func(ctx context.Context, snapshot *domain.ReportSnapshot) error
}

func (m *MockReportSnapshotRepository) Create(ctx context.Context, snapshot *domain.ReportSnapshot) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, snapshot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Snapshots = append(m.Snapshots, snapshot)
	return nil
}

func (m *MockReportSnapshotRepository) List(ctx context.Context, kind domain.ReportKind, limit int) ([]*domain.ReportSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.ReportSnapshot{}
	for i := len(m.Snapshots) - 1; i >= 0 && len(out) < limit; i-- {
		if m.Snapshots[i].Kind == kind {
			out = append(out, m.Snapshots[i])
		}
	}
	return out, nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	CheckConsistencyFunc     func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
	UnbalancedReferencesFunc func(ctx context.Context, limit int) ([]string, error)
}

func (m *MockLedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx)
	}
	return decimal.Zero, decimal.Zero, nil
}

func (m *MockLedgerRepository) UnbalancedReferences(ctx context.Context, limit int) ([]string, error) {
	if m.UnbalancedReferencesFunc != nil {
		return m.UnbalancedReferencesFunc(ctx, limit)
	}
	return nil, nil
}

// MockOutboxRepository is an in-memory OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.Mutex
	Events []*domain.OutboxEvent
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.OutboxEvent{}
	for _, e := range m.Events {
		if !e.Published && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			at := publishedAt
			e.PublishedAt = &at
		}
	}
	return nil
}

// MockAuditRepository is an in-memory AuditRepository.
type MockAuditRepository struct {
	mu   sync.Mutex
	Logs []*domain.AuditLog
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.AuditLog{}
	for _, l := range m.Logs {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			out = append(out, l)
		}
	}
	return out, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
	// CommitErr is returned by Commit of every transaction begun.
	CommitErr error

	mu      sync.Mutex
	Commits int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{
		CommitFunc: func(ctx context.Context) error {
			if m.CommitErr != nil {
				return m.CommitErr
			}
			m.mu.Lock()
			m.Commits++
			m.mu.Unlock()
			return nil
		},
	}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mu        sync.Mutex
	Published []*domain.OutboxEvent
	Err       error
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...*domain.OutboxEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, events...)
	return nil
}

// MockLocker runs fn directly and records the keys it was asked to lock.
type MockLocker struct {
	mu   sync.Mutex
	Keys []string
	Err  error
}

func (m *MockLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.Keys = append(m.Keys, key)
	m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	ReleaseFunc     func(ctx context.Context, key string) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

var (
	_ usecase.AccountRepository        = (*MockAccountRepository)(nil)
	_ usecase.EntryRepository          = (*MockEntryRepository)(nil)
	_ usecase.PostingRepository        = (*MockPostingRepository)(nil)
	_ usecase.RuleRepository           = (*MockRuleRepository)(nil)
	_ usecase.BranchRepository         = (*MockBranchRepository)(nil)
	_ usecase.ReportSnapshotRepository = (*MockReportSnapshotRepository)(nil)
	_ usecase.LedgerRepository         = (*MockLedgerRepository)(nil)
	_ usecase.OutboxRepository         = (*MockOutboxRepository)(nil)
	_ usecase.AuditRepository          = (*MockAuditRepository)(nil)
	_ usecase.TransactionManager       = (*MockTransactionManager)(nil)
	_ usecase.IDGenerator              = (*MockIDGenerator)(nil)
	_ usecase.EventPublisher           = (*MockEventPublisher)(nil)
	_ usecase.Locker                   = (*MockLocker)(nil)
	_ usecase.IdempotencyStore         = (*MockIdempotencyStore)(nil)
)
