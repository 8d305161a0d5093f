package database

import (
	"context"
	"fmt"
	"log"

	"bookkeeping/config"
	"bookkeeping/models"
	"bookkeeping/service"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Stores 账本、用户目录与会话的存储
// 内存存储时 Sessions 为 nil，会话只在本进程内有效
type Stores struct {
	Transactions service.Store
	Users        service.UserStore
	Sessions     service.SessionStore

	db *gorm.DB
}

// Open 按配置打开存储：mysql 或 memory
// 账本为空且开启 seed_sample_data 时写入示例数据
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	var stores *Stores
	switch cfg.Database.Driver {
	case "memory":
		stores = &Stores{
			Transactions: NewMemoryTransactionStore(),
			Users:        NewMemoryUserStore(),
		}
		log.Println("使用内存存储，数据不会持久化")
	case "mysql":
		db, err := openMySQL(cfg)
		if err != nil {
			return nil, err
		}
		stores = &Stores{
			Transactions: NewGormTransactionStore(db),
			Users:        NewGormUserStore(db),
			Sessions:     NewGormSessionStore(db),
			db:           db,
		}
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}

	if cfg.Ledger.SeedSampleData {
		if err := SeedSampleData(ctx, stores.Transactions); err != nil {
			return nil, err
		}
	}

	log.Println("数据库初始化成功")
	return stores, nil
}

// Close 关闭底层连接
func (s *Stores) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func openMySQL(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Info
	if cfg.Server.Mode == "release" {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(10)  // 最大空闲连接数
	sqlDB.SetMaxOpenConns(100) // 最大打开连接数

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate 自动迁移数据库表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&service.Session{},
	); err != nil {
		return fmt.Errorf("迁移数据库表失败: %w", err)
	}
	return nil
}
