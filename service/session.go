package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"bookkeeping/models"

	"github.com/google/uuid"
)

// Session 登录会话：登录时创建，登出时销毁
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"user_id" gorm:"index;size:20;not null"`
	Username  string    `json:"username" gorm:"size:50;not null"`
	Role      string    `json:"role" gorm:"size:20;not null"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
}

// TableName 设置表名
func (Session) TableName() string {
	return "sessions"
}

// IsAdmin 会话用户是否为管理员
func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// SessionManager 会话表
// 使用数据库存储时多个实例共享会话，重启后会话仍然有效；未配置存储时只在本进程内有效
type SessionManager struct {
	ttl   time.Duration
	now   func() time.Time
	store SessionStore
}

// NewSessionManager 创建会话管理器，ttl 为会话有效期；store 为 nil 时使用进程内存储
func NewSessionManager(ttl time.Duration, store SessionStore) *SessionManager {
	if store == nil {
		store = newMemorySessionStore()
	}
	return &SessionManager{ttl: ttl, now: time.Now, store: store}
}

// Create 为用户创建新会话
func (m *SessionManager) Create(ctx context.Context, user *models.User) (Session, error) {
	now := m.now()
	s := Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, &s); err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return s, nil
}

// Get 获取有效会话，不存在或已过期返回 ErrNotFound
func (m *SessionManager) Get(ctx context.Context, id string) (Session, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return Session{}, fmt.Errorf("%w: 会话 %s: %w", ErrNotFound, id, err)
	}
	if !m.now().Before(s.ExpiresAt) {
		return Session{}, fmt.Errorf("%w: 会话 %s 已过期", ErrNotFound, id)
	}
	return *s, nil
}

// Destroy 销毁会话
func (m *SessionManager) Destroy(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// DestroyUser 销毁某用户的全部会话（用户被删除或改角色时）
func (m *SessionManager) DestroyUser(ctx context.Context, userID string) (int64, error) {
	return m.store.DeleteByUser(ctx, userID)
}

// Sweep 清理过期会话
func (m *SessionManager) Sweep(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx, m.now())
}

// Run 定期清理过期会话，直到 ctx 结束
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Sweep(ctx); err != nil {
				log.Printf("清理过期会话失败: %v", err)
			}
		}
	}
}

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: map[string]Session{}}
}

func (s *memorySessionStore) Save(_ context.Context, session *Session) error {
	s.mu.Lock()
	s.sessions[session.ID] = *session
	s.mu.Unlock()
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (s *memorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

func (s *memorySessionStore) DeleteByUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

func (s *memorySessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}
