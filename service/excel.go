package service

import (
	"fmt"
	"io"
	"strings"

	"bookkeeping/models"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ledgerSheet 导出工作表名
const ledgerSheet = "收支记录"

var ledgerHeaders = []string{"ID", "类型", "金额", "类别", "描述", "日期", "关联支出", "创建人"}

var typeLabels = map[models.TransactionType]string{
	models.TransactionIncome:  "收入",
	models.TransactionExpense: "支出",
}

// FormatAmount 按币种格式化金额，如 "1,000.00 元"
func FormatAmount(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}

// ExportWorkbook 将记录与汇总写成 xlsx 工作簿
func ExportWorkbook(w io.Writer, txs []models.Transaction, s Summary, currency string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return fmt.Errorf("创建工作表失败: %w", err)
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})

	f.SetColWidth(ledgerSheet, "A", "A", 38)
	f.SetColWidth(ledgerSheet, "B", "B", 8)
	f.SetColWidth(ledgerSheet, "C", "C", 15)
	f.SetColWidth(ledgerSheet, "D", "D", 12)
	f.SetColWidth(ledgerSheet, "E", "E", 30)
	f.SetColWidth(ledgerSheet, "F", "F", 12)
	f.SetColWidth(ledgerSheet, "G", "G", 38)
	f.SetColWidth(ledgerSheet, "H", "H", 10)

	for i, header := range ledgerHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(ledgerSheet, cell, header)
		f.SetCellStyle(ledgerSheet, cell, cell, headerStyle)
	}

	for i, tx := range txs {
		row := i + 2
		amount, _ := tx.Amount.Float64()
		f.SetCellValue(ledgerSheet, fmt.Sprintf("A%d", row), tx.ID)
		f.SetCellValue(ledgerSheet, fmt.Sprintf("B%d", row), typeLabels[tx.Type])
		f.SetCellValue(ledgerSheet, fmt.Sprintf("C%d", row), amount)
		f.SetCellValue(ledgerSheet, fmt.Sprintf("D%d", row), tx.Category)
		f.SetCellValue(ledgerSheet, fmt.Sprintf("E%d", row), tx.Description)
		f.SetCellValue(ledgerSheet, fmt.Sprintf("F%d", row), tx.Date.String())
		f.SetCellValue(ledgerSheet, fmt.Sprintf("G%d", row), tx.LinkedTo())
		f.SetCellValue(ledgerSheet, fmt.Sprintf("H%d", row), tx.UserID)
		f.SetCellStyle(ledgerSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), dataStyle)
	}

	// 汇总行
	s = s.Round(2)
	summaryRow := len(txs) + 2
	f.SetCellValue(ledgerSheet, fmt.Sprintf("A%d", summaryRow), "合计")
	f.MergeCell(ledgerSheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("B%d", summaryRow))
	f.SetCellValue(ledgerSheet, fmt.Sprintf("C%d", summaryRow), FormatAmount(s.Profit, currency))
	f.SetCellValue(ledgerSheet, fmt.Sprintf("D%d", summaryRow), fmt.Sprintf(
		"收入 %s / 支出 %s / 利润率 %s%% / 月均 %s%% / 共 %d 条记录",
		FormatAmount(s.TotalIncome, currency), FormatAmount(s.TotalExpense, currency),
		s.ProfitRate.StringFixed(2), s.MonthlyProfitRate.StringFixed(2), len(txs)))
	f.MergeCell(ledgerSheet, fmt.Sprintf("D%d", summaryRow), fmt.Sprintf("H%d", summaryRow))
	f.SetCellStyle(ledgerSheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("H%d", summaryRow), summaryStyle)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("生成 Excel 失败: %w", err)
	}
	return nil
}

// ParseSheet 读取工作簿第一个工作表，首行为表头，其余每行按表头转成一条记录
// 空行跳过，表头为空的列忽略
func ParseSheet(r io.Reader) (models.ExcelRows, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpreadsheet, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: 工作簿没有工作表", ErrInvalidSpreadsheet)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpreadsheet, err)
	}
	if len(rows) == 0 {
		return models.ExcelRows{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	out := make(models.ExcelRows, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(headers))
		for i, cell := range row {
			if i >= len(headers) || headers[i] == "" || cell == "" {
				continue
			}
			record[headers[i]] = cell
		}
		if len(record) == 0 {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}
