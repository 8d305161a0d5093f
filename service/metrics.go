package service

import (
	"fmt"

	"bookkeeping/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Metrics 支出被收入收回后的收益指标，比率单位为百分比
type Metrics struct {
	RecoveredAmount   decimal.Decimal `json:"recovered_amount"`
	UnrecoveredAmount decimal.Decimal `json:"unrecovered_amount"`
	ProfitRate        decimal.Decimal `json:"profit_rate"`
	MonthDiff         int             `json:"month_diff"`
	MonthlyRate       decimal.Decimal `json:"monthly_rate"`
}

// Calculate 计算支出 expense 与收回它的收入 income 之间的收益指标
//
//	收回金额 = 收入金额
//	未收回金额 = max(0, 支出金额 - 收回金额)
//	收益率 = (收回金额 - 支出金额) / 支出金额 × 100
//	月数 = max(1, 两个日期间的完整自然月数)
//	月化收益率 = 收益率 / 月数
func Calculate(expense, income models.Transaction) (Metrics, error) {
	if !expense.IsExpense() || !income.IsIncome() {
		return Metrics{}, fmt.Errorf("%w: 需要一条支出和一条收入", ErrInvalidTransaction)
	}
	if expense.Amount.IsZero() {
		return Metrics{}, ErrInvalidOperand
	}

	recovered := income.Amount
	unrecovered := decimal.Max(decimal.Zero, expense.Amount.Sub(recovered))
	profitRate := recovered.Sub(expense.Amount).Div(expense.Amount).Mul(hundred)

	months := WholeMonthsBetween(expense.Date, income.Date)
	if months < 1 {
		months = 1
	}

	return Metrics{
		RecoveredAmount:   recovered,
		UnrecoveredAmount: unrecovered,
		ProfitRate:        profitRate,
		MonthDiff:         months,
		MonthlyRate:       profitRate.Div(decimal.NewFromInt(int64(months))),
	}, nil
}

// Round 比率保留 places 位小数，用于展示
func (m Metrics) Round(places int32) Metrics {
	m.ProfitRate = m.ProfitRate.Round(places)
	m.MonthlyRate = m.MonthlyRate.Round(places)
	return m
}

// WholeMonthsBetween from 到 to 之间的完整自然月数，向零取整
// 月末日期按目标月最后一天对齐：1月31日到2月29日记为 1 个月
func WholeMonthsBetween(from, to models.Date) int {
	if to.Before(from) {
		return -WholeMonthsBetween(to, from)
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if from.AddMonths(months).After(to) {
		months--
	}
	return months
}
