package database

import (
	"context"
	"errors"
	"time"

	"bookkeeping/models"
	"bookkeeping/service"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTransactionStore 基于 gorm 的账本存储
type GormTransactionStore struct {
	db *gorm.DB
}

// NewGormTransactionStore 创建账本存储
func NewGormTransactionStore(db *gorm.DB) *GormTransactionStore {
	return &GormTransactionStore{db: db}
}

// GetAll 按日期倒序返回全部记录
func (s *GormTransactionStore) GetAll(ctx context.Context) ([]models.Transaction, error) {
	var list []models.Transaction
	if err := s.db.WithContext(ctx).Order("date DESC").Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormTransactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// Put 按主键插入或整行覆盖
func (s *GormTransactionStore) Put(ctx context.Context, tx *models.Transaction) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(tx).Error
}

func (s *GormTransactionStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Transaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *GormTransactionStore) ClearLinks(ctx context.Context, expenseID string) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("type = ? AND linked_expense_id = ?", models.TransactionIncome, expenseID).
		Update("linked_expense_id", nil)
	return result.RowsAffected, result.Error
}

func (s *GormTransactionStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).Count(&n).Error
	return n, err
}

// Transaction 在数据库事务中执行 fn
func (s *GormTransactionStore) Transaction(ctx context.Context, fn func(service.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormTransactionStore{db: tx})
	})
}

// GormUserStore 基于 gorm 的用户存储
type GormUserStore struct {
	db *gorm.DB
}

// NewGormUserStore 创建用户存储
func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormUserStore) Get(ctx context.Context, id string) (*models.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *GormUserStore) Save(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

func (s *GormUserStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *GormUserStore) first(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GormSessionStore 基于 gorm 的会话存储，多个实例共享
type GormSessionStore struct {
	db *gorm.DB
}

// NewGormSessionStore 创建会话存储
func NewGormSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{db: db}
}

func (s *GormSessionStore) Save(ctx context.Context, session *service.Session) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *GormSessionStore) Get(ctx context.Context, id string) (*service.Session, error) {
	var session service.Session
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *GormSessionStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&service.Session{}).Error
}

func (s *GormSessionStore) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	result := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&service.Session{})
	return result.RowsAffected, result.Error
}

func (s *GormSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&service.Session{})
	return result.RowsAffected, result.Error
}
