package service

import (
	"bookkeeping/models"

	"github.com/shopspring/decimal"
)

// Summary 区间内的收支汇总
type Summary struct {
	Start             models.Date     `json:"start_date"`
	End               models.Date     `json:"end_date"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpense      decimal.Decimal `json:"total_expense"`
	Profit            decimal.Decimal `json:"profit"`
	ProfitRate        decimal.Decimal `json:"profit_rate"`
	MonthlyProfitRate decimal.Decimal `json:"monthly_profit_rate"`
	Months            int             `json:"months"`
	IncomeCount       int             `json:"income_count"`
	ExpenseCount      int             `json:"expense_count"`
}

// Summarize 汇总区间内的收入、支出与利润
// 利润率 = 利润 / 总收入 × 100（无收入时为 0），月均利润率按区间跨越的月数平均；
// 区间未设限的一端取记录中最早/最晚的日期
func Summarize(txs []models.Transaction, rng DateRange) Summary {
	list := Filter(txs, rng, nil)

	s := Summary{
		Start:        rng.Start,
		End:          rng.End,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, tx := range list {
		switch tx.Type {
		case models.TransactionIncome:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
			s.IncomeCount++
		case models.TransactionExpense:
			s.TotalExpense = s.TotalExpense.Add(tx.Amount)
			s.ExpenseCount++
		}
		if rng.Start.IsZero() && (s.Start.IsZero() || tx.Date.Before(s.Start)) {
			s.Start = tx.Date
		}
		if rng.End.IsZero() && (s.End.IsZero() || tx.Date.After(s.End)) {
			s.End = tx.Date
		}
	}

	s.Profit = s.TotalIncome.Sub(s.TotalExpense)
	s.ProfitRate = decimal.Zero
	if !s.TotalIncome.IsZero() {
		s.ProfitRate = s.Profit.Div(s.TotalIncome).Mul(hundred)
	}

	s.Months = 1
	if !s.Start.IsZero() && !s.End.IsZero() {
		if m := WholeMonthsBetween(s.Start, s.End); m > 1 {
			s.Months = m
		}
	}
	s.MonthlyProfitRate = s.ProfitRate.Div(decimal.NewFromInt(int64(s.Months)))
	return s
}

// Round 比率保留 places 位小数，用于展示
func (s Summary) Round(places int32) Summary {
	s.ProfitRate = s.ProfitRate.Round(places)
	s.MonthlyProfitRate = s.MonthlyProfitRate.Round(places)
	return s
}
