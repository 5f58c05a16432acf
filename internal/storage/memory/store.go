package memory

import (
	"context" // Request scoped context
	"sync"    // Serializes units of work
	"time"    // Row timestamps

	"auth_pay_service/internal/domain"  // Domain models
	"auth_pay_service/internal/storage" // Ledger store contract

	"github.com/shopspring/decimal" // Decimal amounts
)

// Store is an in-memory Ledger Store. Units of work run one at a time and
// their writes are staged until fn returns nil.
type Store struct {
	mu           sync.Mutex                    // held for the whole unit of work
	users        map[uint]domain.User          // users by ID
	accounts     map[uint]domain.Account       // accounts by ID
	transactions map[string]domain.Transaction // transactions by idempotency key
	nextTxID     uint                          // last assigned transaction row ID
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		users:        make(map[uint]domain.User),
		accounts:     make(map[uint]domain.Account),
		transactions: make(map[string]domain.Transaction),
	}
}

// PutUser seeds a user
func (m *Store) PutUser(u domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// PutAccount seeds an account
func (m *Store) PutAccount(a domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.ID] = a
}

// Account returns a copy of the committed account
func (m *Store) Account(id uint) (domain.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	return a, ok
}

// Transactions returns copies of all committed transactions
func (m *Store) Transactions() []domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Transaction, 0, len(m.transactions))
	for _, t := range m.transactions {
		out = append(out, t)
	}
	return out
}

// WithinTx stages writes in a memTx and applies them only when fn succeeds.
// A panic in fn leaves the committed state untouched.
func (m *Store) WithinTx(ctx context.Context, fn func(tx storage.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		store:    m,
		credits:  make(map[uint]decimal.Decimal),
		inserted: make(map[string]domain.Transaction),
		nextID:   m.nextTxID,
	}
	if err := fn(tx); err != nil {
		return err // nothing staged is applied
	}
	for id, amount := range tx.credits {
		a := m.accounts[id]
		a.Balance = a.Balance.Add(amount)
		m.accounts[id] = a
	}
	for key, t := range tx.inserted {
		m.transactions[key] = t
	}
	m.nextTxID = tx.nextID
	return nil
}

type memTx struct {
	store    *Store
	credits  map[uint]decimal.Decimal
	inserted map[string]domain.Transaction
	nextID   uint
}

func (t *memTx) FindUser(id uint) (*domain.User, error) {
	u, ok := t.store.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (t *memTx) FindAccount(id uint) (*domain.Account, error) {
	a, ok := t.store.accounts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if credit, ok := t.credits[id]; ok {
		a.Balance = a.Balance.Add(credit)
	}
	return &a, nil
}

func (t *memTx) InsertTransaction(tr *domain.Transaction) error {
	if _, ok := t.store.transactions[tr.TransactionID]; ok {
		return storage.ErrDuplicateKey
	}
	if _, ok := t.inserted[tr.TransactionID]; ok {
		return storage.ErrDuplicateKey
	}
	t.nextID++
	tr.ID = t.nextID
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = time.Now()
	}
	t.inserted[tr.TransactionID] = *tr
	return nil
}

func (t *memTx) IncrementAccountBalance(id uint, amount decimal.Decimal) error {
	if _, ok := t.store.accounts[id]; !ok {
		return storage.ErrNotFound
	}
	t.credits[id] = t.credits[id].Add(amount)
	return nil
}

var _ storage.LedgerStore = (*Store)(nil)
