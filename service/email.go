package service

import (
	"errors"
	"fmt"
	"io"

	"bookkeeping/config"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled 邮件服务未启用
var ErrEmailDisabled = errors.New("邮件服务未启用，请配置 BOOKKEEPING_EMAIL_ENABLED=true")

// EmailService 邮件服务
type EmailService struct {
	cfg  *config.EmailConfig
	send func(*gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	s.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		return d.DialAndSend(m)
	}
	return s
}

// Enabled 是否已启用
func (s *EmailService) Enabled() bool {
	return s.cfg.Enabled
}

// Attachment 邮件附件
type Attachment struct {
	Filename string
	Data     []byte
}

// SendLedgerReport 发送收支报表，附带导出的工作簿
func (s *EmailService) SendLedgerReport(toEmail, username string, summary Summary, currency string, att *Attachment) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}

	subject := fmt.Sprintf("【记账系统】收支报表 %s ~ %s", summary.Start, summary.End)
	body := s.generateReportEmailBody(username, summary, currency)

	return s.sendEmail(toEmail, subject, body, att)
}

// generateReportEmailBody 生成报表邮件内容
func (s *EmailService) generateReportEmailBody(username string, summary Summary, currency string) string {
	summary = summary.Round(2)
	profitColor := "#059669"
	if summary.Profit.IsNegative() {
		profitColor = "#dc2626"
	}
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        table { width: 100%%; border-collapse: collapse; margin: 20px 0; }
        td { padding: 10px; border-bottom: 1px solid #eee; color: #333; }
        td.value { text-align: right; font-weight: 600; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 记账系统</h1>
        </div>
        <div class="content">
            <p>尊敬的 <strong>%s</strong>，您好！</p>
            <p>以下是 %s 至 %s 的收支汇总，明细见附件。</p>
            <table>
                <tr><td>总收入（%d 笔）</td><td class="value">%s</td></tr>
                <tr><td>总支出（%d 笔）</td><td class="value">%s</td></tr>
                <tr><td>利润</td><td class="value" style="color: %s;">%s</td></tr>
                <tr><td>利润率</td><td class="value">%s%%</td></tr>
                <tr><td>月均利润率（%d 个月）</td><td class="value">%s%%</td></tr>
            </table>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
            <p>© 记账系统 - 您的个人财务管理助手</p>
        </div>
    </div>
</body>
</html>
`, username, summary.Start, summary.End,
		summary.IncomeCount, FormatAmount(summary.TotalIncome, currency),
		summary.ExpenseCount, FormatAmount(summary.TotalExpense, currency),
		profitColor, FormatAmount(summary.Profit, currency),
		summary.ProfitRate.StringFixed(2),
		summary.Months, summary.MonthlyProfitRate.StringFixed(2))
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string, att *Attachment) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	if att != nil {
		data := att.Data
		m.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	if err := s.send(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}

// SendTestEmail 发送测试邮件
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}

	subject := "【记账系统】邮件配置测试"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ 邮件配置成功</h2>
    <p>如果您收到这封邮件，说明邮件服务配置正确。</p>
    <p style="color: #666;">记账系统</p>
</body>
</html>
`
	return s.sendEmail(toEmail, subject, body, nil)
}
