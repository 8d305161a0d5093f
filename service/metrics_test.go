package service_test

import (
	"testing"

	"bookkeeping/models"
	"bookkeeping/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		expense     models.Transaction
		income      models.Transaction
		unrecovered string
		profitRate  string
		months      int
		monthlyRate string
	}{
		{
			name:        "盈利",
			expense:     expense(1000, models.NewDate(2024, 1, 1)),
			income:      income(1200, models.NewDate(2024, 4, 1)),
			unrecovered: "0",
			profitRate:  "20",
			months:      3,
			monthlyRate: "6.67",
		},
		{
			name:        "部分收回",
			expense:     expense(1000, models.NewDate(2024, 1, 1)),
			income:      income(400, models.NewDate(2024, 3, 15)),
			unrecovered: "600",
			profitRate:  "-60",
			months:      2,
			monthlyRate: "-30",
		},
		{
			name:        "同月按一个月计",
			expense:     expense(100, models.NewDate(2024, 5, 1)),
			income:      income(110, models.NewDate(2024, 5, 20)),
			unrecovered: "0",
			profitRate:  "10",
			months:      1,
			monthlyRate: "10",
		},
		{
			name:        "收入早于支出按一个月计",
			expense:     expense(100, models.NewDate(2024, 5, 1)),
			income:      income(150, models.NewDate(2024, 1, 1)),
			unrecovered: "0",
			profitRate:  "50",
			months:      1,
			monthlyRate: "50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := service.Calculate(tt.expense, tt.income)
			require.NoError(t, err)
			m = m.Round(2)
			assert.True(t, m.RecoveredAmount.Equal(tt.income.Amount))
			assert.Equal(t, tt.unrecovered, m.UnrecoveredAmount.String())
			assert.Equal(t, tt.profitRate, m.ProfitRate.String())
			assert.Equal(t, tt.months, m.MonthDiff)
			assert.Equal(t, tt.monthlyRate, m.MonthlyRate.String())
			assert.False(t, m.UnrecoveredAmount.IsNegative())
		})
	}
}

func TestCalculate_ZeroExpense(t *testing.T) {
	_, err := service.Calculate(expense(0, models.NewDate(2024, 1, 1)), income(10, models.NewDate(2024, 2, 1)))
	assert.ErrorIs(t, err, service.ErrInvalidOperand)
}

func TestCalculate_WrongTypes(t *testing.T) {
	e := expense(10, models.NewDate(2024, 1, 1))
	_, err := service.Calculate(e, e)
	assert.ErrorIs(t, err, service.ErrInvalidTransaction)
}

func TestCalculate_DecimalPrecision(t *testing.T) {
	e := expense(0, models.NewDate(2024, 1, 1))
	e.Amount = decimal.RequireFromString("0.30")
	i := income(0, models.NewDate(2024, 2, 1))
	i.Amount = decimal.RequireFromString("0.10").Add(decimal.RequireFromString("0.20"))

	m, err := service.Calculate(e, i)
	require.NoError(t, err)
	assert.True(t, m.ProfitRate.IsZero())
	assert.True(t, m.UnrecoveredAmount.IsZero())
}

func TestWholeMonthsBetween(t *testing.T) {
	tests := []struct {
		from, to models.Date
		want     int
	}{
		{models.NewDate(2024, 1, 1), models.NewDate(2024, 4, 1), 3},
		{models.NewDate(2024, 1, 15), models.NewDate(2024, 2, 14), 0},
		{models.NewDate(2024, 1, 15), models.NewDate(2024, 2, 15), 1},
		{models.NewDate(2024, 1, 31), models.NewDate(2024, 2, 29), 1},
		{models.NewDate(2023, 1, 31), models.NewDate(2023, 2, 28), 1},
		{models.NewDate(2023, 11, 20), models.NewDate(2024, 2, 19), 2},
		{models.NewDate(2024, 4, 1), models.NewDate(2024, 1, 1), -3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, service.WholeMonthsBetween(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
