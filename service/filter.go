package service

import (
	"fmt"

	"bookkeeping/models"
)

// DateRange 按天的闭区间，零值端点表示不设限
type DateRange struct {
	Start models.Date
	End   models.Date
}

// DefaultDateRange 最近六个月（含今天）
func DefaultDateRange() DateRange {
	today := models.Today()
	return DateRange{Start: today.AddMonths(-6), End: today}
}

// ParseDateRange 解析 YYYY-MM-DD 格式的起止日期，空字符串表示该端不设限
func ParseDateRange(start, end string) (DateRange, error) {
	var rng DateRange
	var err error
	if start != "" {
		if rng.Start, err = models.ParseDate(start); err != nil {
			return DateRange{}, fmt.Errorf("%w: 开始%v", ErrInvalidDateRange, err)
		}
	}
	if end != "" {
		if rng.End, err = models.ParseDate(end); err != nil {
			return DateRange{}, fmt.Errorf("%w: 结束%v", ErrInvalidDateRange, err)
		}
	}
	if !rng.Start.IsZero() && !rng.End.IsZero() && rng.Start.After(rng.End) {
		return DateRange{}, fmt.Errorf("%w: 开始日期晚于结束日期", ErrInvalidDateRange)
	}
	return rng, nil
}

// Contains 日期是否落在区间内（两端均包含）
func (r DateRange) Contains(d models.Date) bool {
	if !r.Start.IsZero() && d.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && d.After(r.End) {
		return false
	}
	return true
}

// Filter 选出日期落在区间内的记录，typ 不为空时同时按类型过滤；保持输入顺序
func Filter(txs []models.Transaction, rng DateRange, typ *models.TransactionType) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if typ != nil && tx.Type != *typ {
			continue
		}
		if !rng.Contains(tx.Date) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
