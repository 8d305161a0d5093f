package service

import (
	"context"
	"time"

	"bookkeeping/models"
)

// Store 交易记录的持久化存储，按 ID 唯一
// 记录不存在时 Get/Delete 返回 ErrNotFound
type Store interface {
	GetAll(ctx context.Context) ([]models.Transaction, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	// Put 按 ID 插入或覆盖
	Put(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, id string) error
	// ClearLinks 清除所有指向 expenseID 的收入关联，返回受影响的记录数
	ClearLinks(ctx context.Context, expenseID string) (int64, error)
	Count(ctx context.Context) (int64, error)
	// Transaction 在同一事务中执行 fn，fn 返回错误时全部回滚
	Transaction(ctx context.Context, fn func(Store) error) error
}

// UserStore 用户目录的持久化存储
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// SessionStore 登录会话的持久化存储
// 记录不存在时 Get 返回 ErrNotFound，Delete 对不存在的会话不报错
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ChangeKind 账本变更类型
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
	ChangeLinked  ChangeKind = "linked"
)

// ChangeNotifier 账本变更后的通知出口（如 AMQP 广播），可为空
type ChangeNotifier interface {
	NotifyChanged(ctx context.Context, kind ChangeKind, id string) error
}
