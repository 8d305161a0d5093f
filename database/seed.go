package database

import (
	"context"
	"fmt"
	"log"

	"bookkeeping/models"
	"bookkeeping/service"

	"github.com/shopspring/decimal"
)

// SampleTransactions 示例账本数据，归属管理员
func SampleTransactions() []models.Transaction {
	rows := []struct {
		id, typ, amount, date, category, description string
	}{
		{"1", "income", "1409738.66", "2024-11-01", "亚马逊销售款", "亚马逊销售款"},
		{"2", "expense", "1103706.80", "2024-06-02", "九家美国金品店", "亚马逊采购款"},
		{"3", "income", "986543.21", "2024-10-15", "亚马逊销售款", "10月份销售收入"},
		{"4", "expense", "876543.21", "2024-09-20", "九家美国金品店", "9月份采购支出"},
		{"5", "income", "765432.10", "2024-08-25", "亚马逊销售款", "8月份销售收入"},
		{"6", "expense", "654321.09", "2024-07-30", "九家美国金品店", "7月份采购支出"},
		{"7", "income", "543210.98", "2024-07-15", "亚马逊销售款", "7月份销售收入"},
		{"8", "expense", "432109.87", "2024-06-20", "九家美国金品店", "6月份采购支出"},
		{"9", "income", "321098.76", "2024-06-05", "亚马逊销售款", "6月份销售收入"},
		{"10", "expense", "210987.65", "2024-05-25", "九家美国金品店", "5月份采购支出"},
	}

	out := make([]models.Transaction, 0, len(rows))
	for _, r := range rows {
		date, _ := models.ParseDate(r.date)
		out = append(out, models.Transaction{
			ID:          r.id,
			Type:        models.TransactionType(r.typ),
			Amount:      decimal.RequireFromString(r.amount),
			Date:        date,
			Category:    r.category,
			Description: r.description,
			UserID:      models.ReservedAdminID,
		})
	}
	return out
}

// SeedSampleData 账本为空时写入示例数据
func SeedSampleData(ctx context.Context, store service.Store) error {
	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("统计账本记录失败: %w", err)
	}
	if count > 0 {
		return nil
	}

	samples := SampleTransactions()
	err = store.Transaction(ctx, func(s service.Store) error {
		for i := range samples {
			if err := s.Put(ctx, &samples[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("写入示例数据失败: %w", err)
	}
	log.Printf("已写入 %d 条示例账本数据", len(samples))
	return nil
}
