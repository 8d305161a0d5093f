package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"bookkeeping/config"
	"bookkeeping/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func newTestEmailService(enabled bool) (*EmailService, *[]*gomail.Message) {
	s := NewEmailService(&config.EmailConfig{Enabled: enabled, Username: "noreply@example.com", From: "记账系统"})
	var sent []*gomail.Message
	s.send = func(m *gomail.Message) error {
		sent = append(sent, m)
		return nil
	}
	return s, &sent
}

func testSummary() Summary {
	return Summary{
		Start:             models.NewDate(2024, 1, 1),
		End:               models.NewDate(2024, 6, 30),
		TotalIncome:       decimal.NewFromInt(1200),
		TotalExpense:      decimal.NewFromInt(1000),
		Profit:            decimal.NewFromInt(200),
		ProfitRate:        decimal.RequireFromString("16.666666"),
		MonthlyProfitRate: decimal.RequireFromString("3.333333"),
		Months:            5,
		IncomeCount:       1,
		ExpenseCount:      1,
	}
}

func TestGenerateReportEmailBody(t *testing.T) {
	s, _ := newTestEmailService(true)
	body := s.generateReportEmailBody("张三", testSummary(), "CNY")
	assert.Contains(t, body, "张三")
	assert.Contains(t, body, "2024-01-01")
	assert.Contains(t, body, "2024-06-30")
	assert.Contains(t, body, "1,200.00")
	assert.Contains(t, body, "16.67%")
	assert.Contains(t, body, "3.33%")
	assert.Contains(t, body, "#059669")
}

func TestGenerateReportEmailBody_NegativeProfit(t *testing.T) {
	s, _ := newTestEmailService(true)
	sum := testSummary()
	sum.Profit = decimal.NewFromInt(-50)
	body := s.generateReportEmailBody("李四", sum, "CNY")
	assert.Contains(t, body, "#dc2626")
}

func TestSendLedgerReport(t *testing.T) {
	s, sent := newTestEmailService(true)
	att := &Attachment{Filename: "ledger.xlsx", Data: []byte("xlsx-bytes")}

	require.NoError(t, s.SendLedgerReport("boss@example.com", "admin", testSummary(), "CNY", att))
	require.Len(t, *sent, 1)

	m := (*sent)[0]
	assert.Equal(t, []string{"boss@example.com"}, m.GetHeader("To"))
	assert.True(t, strings.HasPrefix(m.GetHeader("Subject")[0], "【记账系统】收支报表"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ledger.xlsx")
}

func TestSendLedgerReport_Disabled(t *testing.T) {
	s, sent := newTestEmailService(false)
	err := s.SendLedgerReport("boss@example.com", "admin", testSummary(), "CNY", nil)
	assert.True(t, errors.Is(err, ErrEmailDisabled))
	assert.Empty(t, *sent)
	assert.ErrorIs(t, s.SendTestEmail("boss@example.com"), ErrEmailDisabled)
}

func TestSendEmail_TransportError(t *testing.T) {
	s, _ := newTestEmailService(true)
	s.send = func(*gomail.Message) error { return errors.New("dial tcp: refused") }
	err := s.SendTestEmail("boss@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "发送邮件失败")
}
