package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"bookkeeping/models"
	"bookkeeping/service"
)

// MemoryTransactionStore 内存账本存储，按写入顺序保存
type MemoryTransactionStore struct {
	mu    sync.Mutex
	order []string
	rows  map[string]models.Transaction
	now   func() time.Time
}

// NewMemoryTransactionStore 创建内存账本存储
func NewMemoryTransactionStore() *MemoryTransactionStore {
	return &MemoryTransactionStore{rows: map[string]models.Transaction{}, now: time.Now}
}

func (s *MemoryTransactionStore) GetAll(ctx context.Context) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).GetAll(ctx)
}

func (s *MemoryTransactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).Get(ctx, id)
}

func (s *MemoryTransactionStore) Put(ctx context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).Put(ctx, tx)
}

func (s *MemoryTransactionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).Delete(ctx, id)
}

func (s *MemoryTransactionStore) ClearLinks(ctx context.Context, expenseID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).ClearLinks(ctx, expenseID)
}

func (s *MemoryTransactionStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rows)), nil
}

// Transaction 持锁执行 fn，出错时恢复到执行前的快照
func (s *MemoryTransactionStore) Transaction(ctx context.Context, fn func(service.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := append([]string(nil), s.order...)
	rows := make(map[string]models.Transaction, len(s.rows))
	for id, tx := range s.rows {
		rows[id] = tx.Clone()
	}

	if err := fn((*memTx)(s)); err != nil {
		s.order = order
		s.rows = rows
		return err
	}
	return nil
}

// memTx 调用方已持有锁的视图
type memTx MemoryTransactionStore

func (s *memTx) GetAll(context.Context) ([]models.Transaction, error) {
	out := make([]models.Transaction, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.rows[id].Clone())
	}
	return out, nil
}

func (s *memTx) Get(_ context.Context, id string) (*models.Transaction, error) {
	tx, ok := s.rows[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	c := tx.Clone()
	return &c, nil
}

func (s *memTx) Put(_ context.Context, tx *models.Transaction) error {
	now := s.now()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now
	if _, ok := s.rows[tx.ID]; !ok {
		s.order = append(s.order, tx.ID)
	}
	s.rows[tx.ID] = tx.Clone()
	return nil
}

func (s *memTx) Delete(_ context.Context, id string) error {
	if _, ok := s.rows[id]; !ok {
		return service.ErrNotFound
	}
	delete(s.rows, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memTx) ClearLinks(_ context.Context, expenseID string) (int64, error) {
	var n int64
	for id, tx := range s.rows {
		if tx.IsIncome() && tx.LinkedTo() == expenseID {
			tx.LinkedExpenseID = nil
			tx.UpdatedAt = s.now()
			s.rows[id] = tx
			n++
		}
	}
	return n, nil
}

func (s *memTx) Count(context.Context) (int64, error) {
	return int64(len(s.rows)), nil
}

func (s *memTx) Transaction(ctx context.Context, fn func(service.Store) error) error {
	return fn(s)
}

// MemoryUserStore 内存用户存储
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
	now   func() time.Time
}

// NewMemoryUserStore 创建内存用户存储
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: map[string]models.User{}, now: time.Now}
}

// List 按创建时间返回全部用户
func (s *MemoryUserStore) List(context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryUserStore) Get(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, service.ErrNotFound
}

func (s *MemoryUserStore) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return service.ErrNotFound
	}
	delete(s.users, id)
	return nil
}
