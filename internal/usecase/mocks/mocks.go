package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/usecase"
)

// ErrTxClosed is returned when committing or rolling back a finished transaction.
var ErrTxClosed = errors.New("tx is closed")

// ledgerState is the shared in-memory storage behind the mock repositories.
type ledgerState struct {
	mu           sync.RWMutex
	accounts     map[string]*domain.Account
	byName       map[string]string
	lots         map[string]*domain.Lot
	lotSeq       map[string]int
	transactions []*domain.TransactionRecord
	seq          int
	clock        time.Time

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func (s *ledgerState) accountLock(id string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// MockLedger bundles in-memory account, lot and transaction repositories
// sharing one state. Writes issued with a *MockTransaction are applied on
// Commit only; GetByNameForUpdate holds a per-account lock until the
// transaction ends.
type MockLedger struct {
	Accounts     *MockAccountRepository
	Lots         *MockLotRepository
	Transactions *MockTransactionRepository
	Prices       *MockTradePriceSource
	TxManager    *MockTransactionManager

	state *ledgerState
}

// NewMockLedger creates an empty MockLedger.
func NewMockLedger() *MockLedger {
	state := &ledgerState{
		accounts: make(map[string]*domain.Account),
		byName:   make(map[string]string),
		lots:     make(map[string]*domain.Lot),
		lotSeq:   make(map[string]int),
		locks:    make(map[string]*sync.Mutex),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	return &MockLedger{
		Accounts:     &MockAccountRepository{state: state},
		Lots:         &MockLotRepository{state: state},
		Transactions: &MockTransactionRepository{state: state},
		Prices:       &MockTradePriceSource{state: state},
		TxManager:    NewMockTransactionManager(),
		state:        state,
	}
}

// Seed stores an account directly.
func (l *MockLedger) Seed(account *domain.Account) *domain.Account {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	cp := *account
	l.state.accounts[cp.ID] = &cp
	l.state.byName[cp.Name] = cp.ID
	return account
}

// SeedLot stores a lot directly.
func (l *MockLedger) SeedLot(lot *domain.Lot) {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	l.state.insertLot(lot)
}

// Balance returns the committed balance of the named account.
func (l *MockLedger) Balance(name string) decimal.Decimal {
	l.state.mu.RLock()
	defer l.state.mu.RUnlock()
	if id, ok := l.state.byName[name]; ok {
		return l.state.accounts[id].Balance
	}
	return decimal.Zero
}

// LotQuantity returns the committed quantity of a lot and whether it exists.
func (l *MockLedger) LotQuantity(id string) (decimal.Decimal, bool) {
	l.state.mu.RLock()
	defer l.state.mu.RUnlock()
	lot, ok := l.state.lots[id]
	if !ok {
		return decimal.Zero, false
	}
	return lot.Quantity, true
}

// Records returns a copy of every committed transaction record in insertion order.
func (l *MockLedger) Records() []domain.TransactionRecord {
	l.state.mu.RLock()
	defer l.state.mu.RUnlock()
	out := make([]domain.TransactionRecord, len(l.state.transactions))
	for i, rec := range l.state.transactions {
		out[i] = *rec
	}
	return out
}

// LotCount returns the number of committed lots.
func (l *MockLedger) LotCount() int {
	l.state.mu.RLock()
	defer l.state.mu.RUnlock()
	return len(l.state.lots)
}

func (s *ledgerState) insertLot(lot *domain.Lot) {
	cp := *lot
	s.seq++
	s.lots[cp.ID] = &cp
	s.lotSeq[cp.ID] = s.seq
}

// apply runs op now when tx is nil, otherwise stages it until Commit.
func (s *ledgerState) apply(tx usecase.Transaction, op func()) {
	locked := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		op()
	}
	if mt, ok := tx.(*MockTransaction); ok && mt != nil {
		mt.stage(locked)
		return
	}
	locked()
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	state *ledgerState

	CreateFunc             func(ctx context.Context, account *domain.Account) error
	GetByNameFunc          func(ctx context.Context, name string) (*domain.Account, error)
	GetByNameForUpdateFunc func(ctx context.Context, tx usecase.Transaction, name string) (*domain.Account, error)
	UpdateBalanceFunc      func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc               func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ResetFunc              func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if _, ok := m.state.byName[account.Name]; ok {
		return domain.ErrAccountExists
	}
	cp := *account
	m.state.accounts[cp.ID] = &cp
	m.state.byName[cp.Name] = cp.ID
	return nil
}

func (m *MockAccountRepository) GetByName(ctx context.Context, name string) (*domain.Account, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()
	id, ok := m.state.byName[name]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *m.state.accounts[id]
	return &cp, nil
}

func (m *MockAccountRepository) GetByNameForUpdate(ctx context.Context, tx usecase.Transaction, name string) (*domain.Account, error) {
	if m.GetByNameForUpdateFunc != nil {
		return m.GetByNameForUpdateFunc(ctx, tx, name)
	}

	m.state.mu.RLock()
	id, ok := m.state.byName[name]
	m.state.mu.RUnlock()
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	if mt, ok := tx.(*MockTransaction); ok && mt != nil {
		lock := m.state.accountLock(id)
		lock.Lock()
		mt.onRelease(lock.Unlock)
	}

	return m.GetByName(ctx, name)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.state.apply(tx, func() {
		if acc, ok := m.state.accounts[id]; ok {
			acc.Balance = balance
			acc.UpdatedAt = updatedAt
		}
	})
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.state.accounts))
	for _, acc := range m.state.accounts {
		cp := *acc
		accounts = append(accounts, &cp)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	if offset >= len(accounts) {
		return []*domain.Account{}, nil
	}
	accounts = accounts[offset:]
	if limit > 0 && limit < len(accounts) {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

func (m *MockAccountRepository) Reset(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, tx, id, balance, updatedAt)
	}
	m.state.apply(tx, func() {
		for lotID, lot := range m.state.lots {
			if lot.AccountID == id {
				delete(m.state.lots, lotID)
				delete(m.state.lotSeq, lotID)
			}
		}
		kept := m.state.transactions[:0]
		for _, rec := range m.state.transactions {
			if rec.AccountID != id {
				kept = append(kept, rec)
			}
		}
		m.state.transactions = kept
		if acc, ok := m.state.accounts[id]; ok {
			acc.Balance = balance
			acc.StartingBalance = balance
			acc.UpdatedAt = updatedAt
		}
	})
	return nil
}

// MockLotRepository is a mock implementation of LotRepository.
type MockLotRepository struct {
	state *ledgerState

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, lot *domain.Lot) error
	ListForSaleFunc    func(ctx context.Context, tx usecase.Transaction, accountID, symbol string) ([]*domain.Lot, error)
	ListByAccountFunc  func(ctx context.Context, accountID string) ([]*domain.Lot, error)
	UpdateQuantityFunc func(ctx context.Context, tx usecase.Transaction, id string, quantity decimal.Decimal, updatedAt time.Time) error
	DeleteFunc         func(ctx context.Context, tx usecase.Transaction, id string) error
}

func (m *MockLotRepository) Create(ctx context.Context, tx usecase.Transaction, lot *domain.Lot) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, lot)
	}
	m.state.apply(tx, func() { m.state.insertLot(lot) })
	return nil
}

func (m *MockLotRepository) ListForSale(ctx context.Context, tx usecase.Transaction, accountID, symbol string) ([]*domain.Lot, error) {
	if m.ListForSaleFunc != nil {
		return m.ListForSaleFunc(ctx, tx, accountID, symbol)
	}
	lots := m.collect(func(l *domain.Lot) bool { return l.AccountID == accountID && l.Symbol == symbol })
	sort.SliceStable(lots, func(i, j int) bool {
		return lots[i].AcquisitionPrice.LessThan(lots[j].AcquisitionPrice)
	})
	return lots, nil
}

func (m *MockLotRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Lot, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}
	lots := m.collect(func(l *domain.Lot) bool { return l.AccountID == accountID })
	sort.SliceStable(lots, func(i, j int) bool {
		if lots[i].Symbol != lots[j].Symbol {
			return lots[i].Symbol < lots[j].Symbol
		}
		return lots[i].AcquisitionPrice.LessThan(lots[j].AcquisitionPrice)
	})
	return lots, nil
}

// collect returns copies of matching lots in insertion order.
func (m *MockLotRepository) collect(match func(*domain.Lot) bool) []*domain.Lot {
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()
	lots := make([]*domain.Lot, 0)
	for _, lot := range m.state.lots {
		if match(lot) {
			cp := *lot
			lots = append(lots, &cp)
		}
	}
	sort.Slice(lots, func(i, j int) bool { return m.state.lotSeq[lots[i].ID] < m.state.lotSeq[lots[j].ID] })
	return lots
}

func (m *MockLotRepository) UpdateQuantity(ctx context.Context, tx usecase.Transaction, id string, quantity decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateQuantityFunc != nil {
		return m.UpdateQuantityFunc(ctx, tx, id, quantity, updatedAt)
	}
	m.state.apply(tx, func() {
		if lot, ok := m.state.lots[id]; ok {
			lot.Quantity = quantity
			lot.UpdatedAt = updatedAt
		}
	})
	return nil
}

func (m *MockLotRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.state.apply(tx, func() {
		delete(m.state.lots, id)
		delete(m.state.lotSeq, id)
	})
	return nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	state *ledgerState

	AppendFunc              func(ctx context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error
	ListByAccountFunc       func(ctx context.Context, accountID string) ([]*domain.TransactionRecord, error)
	ListRecentByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.TransactionRecord, error)
}

func (m *MockTransactionRepository) Append(ctx context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, record)
	}
	m.state.apply(tx, func() {
		m.state.clock = m.state.clock.Add(time.Millisecond)
		cp := *record
		cp.Timestamp = m.state.clock
		m.state.transactions = append(m.state.transactions, &cp)
	})
	return nil
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.TransactionRecord, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()
	records := make([]*domain.TransactionRecord, 0)
	for _, rec := range m.state.transactions {
		if rec.AccountID == accountID {
			cp := *rec
			records = append(records, &cp)
		}
	}
	return records, nil
}

func (m *MockTransactionRepository) ListRecentByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TransactionRecord, error) {
	if m.ListRecentByAccountFunc != nil {
		return m.ListRecentByAccountFunc(ctx, accountID, limit, offset)
	}
	all, _ := m.ListByAccount(ctx, accountID)
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if offset >= len(all) {
		return []*domain.TransactionRecord{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// MockTradePriceSource resolves the latest price from the most recent
// committed transaction of the symbol across all accounts.
type MockTradePriceSource struct {
	state *ledgerState
	mu    sync.Mutex
	calls int

	LatestPriceFunc func(ctx context.Context, symbol string) (decimal.NullDecimal, error)
}

func (m *MockTradePriceSource) LatestPrice(ctx context.Context, symbol string) (decimal.NullDecimal, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.LatestPriceFunc != nil {
		return m.LatestPriceFunc(ctx, symbol)
	}
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()
	for i := len(m.state.transactions) - 1; i >= 0; i-- {
		if rec := m.state.transactions[i]; rec.Symbol == symbol {
			return decimal.NewNullDecimal(rec.Price), nil
		}
	}
	return decimal.NullDecimal{}, nil
}

// Calls returns the number of LatestPrice calls.
func (m *MockTradePriceSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu           sync.Mutex
	transactions []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	m.mu.Lock()
	m.transactions = append(m.transactions, tx)
	m.mu.Unlock()
	return tx, nil
}

// Last returns the most recently begun transaction, or nil.
func (m *MockTransactionManager) Last() *MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.transactions) == 0 {
		return nil
	}
	return m.transactions[len(m.transactions)-1]
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	mu         sync.Mutex
	pending    []func()
	release    []func()
	closed     bool
	committed  bool
	rolledBack bool

	CommitFunc func(ctx context.Context) error
}

func (m *MockTransaction) stage(op func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, op)
}

func (m *MockTransaction) onRelease(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release = append(m.release, fn)
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrTxClosed
	}
	for _, op := range m.pending {
		op()
	}
	m.committed = true
	m.finish()
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrTxClosed
	}
	m.rolledBack = true
	m.finish()
	return nil
}

func (m *MockTransaction) finish() {
	m.closed = true
	m.pending = nil
	for _, fn := range m.release {
		fn()
	}
	m.release = nil
}

// Committed reports whether Commit succeeded.
func (m *MockTransaction) Committed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.committed
}

// RolledBack reports whether the transaction was rolled back before commit.
func (m *MockTransaction) RolledBack() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rolledBack
}

// Staged returns the number of writes waiting for Commit.
func (m *MockTransaction) Staged() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
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
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockRetrier runs the operation up to Attempts times while it fails with a
// retryable error.
type MockRetrier struct {
	Attempts    int
	IsRetryable func(error) bool

	mu    sync.Mutex
	calls int
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	attempts := m.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		m.mu.Lock()
		m.calls++
		m.mu.Unlock()
		err = operation()
		if err == nil || m.IsRetryable == nil || !m.IsRetryable(err) {
			return err
		}
	}
	return err
}

// Calls returns how many times the operation ran.
func (m *MockRetrier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
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

// Get returns the stored value for key.
func (m *MockIdempotencyStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}
