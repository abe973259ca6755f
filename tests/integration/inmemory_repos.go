package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"sms-payment-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// --- In-Memory Store ---

// inMemoryStore backs the user and transaction repos with maps. A
// single store-wide mutex stands in for row locks: Begin takes it,
// Commit/Rollback release it, so in-flight transfers serialize the
// same way FOR UPDATE serializes them against PostgreSQL.
type inMemoryStore struct {
	mu     sync.Mutex
	users  map[int64]*domain.User
	txns   []domain.Transaction
	nextID int64
	txnID  int64
}

func newInMemoryStore() *inMemoryStore {
	return &inMemoryStore{
		users:  make(map[int64]*domain.User),
		nextID: 1,
		txnID:  1,
	}
}

// --- In-Memory Transactor ---

type inMemoryTransactor struct {
	store *inMemoryStore
}

func newInMemoryTransactor(store *inMemoryStore) *inMemoryTransactor {
	return &inMemoryTransactor{store: store}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.store.mu.Lock()
	return &inMemoryTx{store: t.store}, nil
}

// inMemoryTx implements pgx.Tx over the store. Mutations queue up and
// apply on Commit; Rollback discards them. Either path releases the
// store lock exactly once.
type inMemoryTx struct {
	pgx.Tx
	store   *inMemoryStore
	pending []func()
	release sync.Once
}

func (t *inMemoryTx) Commit(_ context.Context) error {
	for _, apply := range t.pending {
		apply()
	}
	t.release.Do(t.store.mu.Unlock)
	return nil
}

func (t *inMemoryTx) Rollback(_ context.Context) error {
	t.release.Do(t.store.mu.Unlock)
	return nil
}

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	store *inMemoryStore
}

func newInMemoryUserRepo(store *inMemoryStore) *inMemoryUserRepo {
	return &inMemoryUserRepo{store: store}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return fmt.Errorf("email already exists")
		}
	}
	user.ID = r.store.nextID
	r.store.nextID++
	clone := *user
	r.store.users[user.ID] = &clone
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (r *inMemoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.User, error) {
	// Caller already holds the store lock via Begin.
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (r *inMemoryUserRepo) Debit(ctx context.Context, tx pgx.Tx, id int64, amount decimal.Decimal) error {
	memTx, ok := tx.(*inMemoryTx)
	if !ok {
		return fmt.Errorf("unexpected tx type %T", tx)
	}
	u, exists := r.store.users[id]
	if !exists || u.Balance.LessThan(amount) {
		return fmt.Errorf("debit did not match any row")
	}
	memTx.pending = append(memTx.pending, func() {
		u.Balance = u.Balance.Sub(amount)
		u.UpdatedAt = time.Now().UTC()
	})
	return nil
}

func (r *inMemoryUserRepo) Credit(ctx context.Context, tx pgx.Tx, id int64, amount decimal.Decimal) error {
	memTx, ok := tx.(*inMemoryTx)
	if !ok {
		return fmt.Errorf("unexpected tx type %T", tx)
	}
	u, exists := r.store.users[id]
	if !exists {
		return fmt.Errorf("credit did not match any row")
	}
	memTx.pending = append(memTx.pending, func() {
		u.Balance = u.Balance.Add(amount)
		u.UpdatedAt = time.Now().UTC()
	})
	return nil
}

func (r *inMemoryUserRepo) TopUp(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	u.Balance = u.Balance.Add(amount)
	u.UpdatedAt = time.Now().UTC()
	clone := *u
	return &clone, nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	store *inMemoryStore
}

func newInMemoryTransactionRepo(store *inMemoryStore) *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{store: store}
}

func (r *inMemoryTransactionRepo) Append(ctx context.Context, txn *domain.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	txn.ID = r.store.txnID
	r.store.txnID++
	r.store.txns = append(r.store.txns, *txn)
	return nil
}

func (r *inMemoryTransactionRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.Transaction
	for _, txn := range r.store.txns {
		if txn.SenderID == userID || txn.ReceiverID == userID {
			out = append(out, txn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// countByStatus reports how many records exist for a sender with the
// given status. Test helper, not part of any port.
func (r *inMemoryTransactionRepo) countByStatus(senderID int64, status domain.TransferStatus) int {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n := 0
	for _, txn := range r.store.txns {
		if txn.SenderID == senderID && txn.Status == status {
			n++
		}
	}
	return n
}
