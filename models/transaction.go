package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType 交易类型
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// IsValid 是否为合法的交易类型
func (t TransactionType) IsValid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// ExcelRows 支出记录附带的表格数据（导入产物，按表头取值）
type ExcelRows []map[string]string

// Transaction 收支记录模型
// 收入记录可通过 LinkedExpenseID 关联一条被其收回的支出记录
type Transaction struct {
	ID              string          `json:"id" gorm:"primaryKey;size:36"`
	Type            TransactionType `json:"type" gorm:"size:10;not null;index"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`
	Date            Date            `json:"date" gorm:"not null;index"`
	Category        string          `json:"category" gorm:"size:100"`
	Description     string          `json:"description" gorm:"size:255"`
	LinkedExpenseID *string         `json:"linked_expense_id,omitempty" gorm:"size:36;index"`
	ExcelData       ExcelRows       `json:"excel_data,omitempty" gorm:"serializer:json;type:json"`
	UserID          string          `json:"user_id" gorm:"size:20;index"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// IsIncome 是否为收入
func (t *Transaction) IsIncome() bool { return t.Type == TransactionIncome }

// IsExpense 是否为支出
func (t *Transaction) IsExpense() bool { return t.Type == TransactionExpense }

// LinkedTo 返回关联的支出ID，未关联时返回空串
func (t *Transaction) LinkedTo() string {
	if t.LinkedExpenseID == nil {
		return ""
	}
	return *t.LinkedExpenseID
}

// Clone 深拷贝，缓存对外只暴露副本
func (t Transaction) Clone() Transaction {
	c := t
	if t.LinkedExpenseID != nil {
		id := *t.LinkedExpenseID
		c.LinkedExpenseID = &id
	}
	if t.ExcelData != nil {
		c.ExcelData = make(ExcelRows, len(t.ExcelData))
		for i, row := range t.ExcelData {
			r := make(map[string]string, len(row))
			for k, v := range row {
				r[k] = v
			}
			c.ExcelData[i] = r
		}
	}
	return c
}
