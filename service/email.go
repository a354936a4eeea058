package service

import (
	"fmt"
	"html"
	"time"

	"gopkg.in/gomail.v2"

	"bizbooks/config"
	"bizbooks/models"
)

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 是否已启用邮件
func (s *EmailService) Enabled() bool {
	return s.cfg != nil && s.cfg.Enabled
}

// SendInvoiceReminder 向客户发送发票付款提醒
func (s *EmailService) SendInvoiceReminder(toEmail, businessName, currency string, inv models.Invoice) error {
	if !s.Enabled() {
		return fmt.Errorf("邮件服务未启用，请配置 BIZBOOKS_EMAIL_ENABLED=true")
	}
	if inv.IsPaid() {
		return fmt.Errorf("发票 %s 已付款，无需提醒", inv.InvoiceNumber)
	}

	subject := fmt.Sprintf("Payment reminder: invoice %s", inv.InvoiceNumber)
	body := s.generateReminderBody(businessName, currency, inv)

	return s.sendEmail(toEmail, subject, body)
}

// generateReminderBody 生成付款提醒邮件内容
func (s *EmailService) generateReminderBody(businessName, currency string, inv models.Invoice) string {
	due := "on receipt"
	if inv.DueDate != nil {
		due = inv.DueDate.Format("2006-01-02")
	}
	overdue := ""
	if inv.DueDate != nil && time.Now().After(*inv.DueDate) {
		overdue = `<p class="warning">This invoice is now overdue.</p>`
	}

	var rows string
	for _, it := range inv.Items {
		rows += fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(it.Description),
			it.Quantity.String(),
			it.Price.StringFixed(2),
			it.LineTotal().StringFixed(2))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; }
        .header { background: #2563eb; color: white; padding: 24px; text-align: center; }
        .content { padding: 30px; color: #333; line-height: 1.6; }
        table { width: 100%%; border-collapse: collapse; margin: 16px 0; }
        td, th { border-bottom: 1px solid #eee; padding: 8px; text-align: left; }
        .total { font-size: 20px; font-weight: bold; color: #1d4ed8; }
        .warning { color: #b91c1c; font-weight: bold; }
        .footer { background: #f8f9fa; padding: 16px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>%s</h1></div>
        <div class="content">
            <p>Dear %s,</p>
            <p>This is a friendly reminder that invoice <strong>%s</strong> is due %s.</p>
            %s
            <table>
                <tr><th>Description</th><th>Qty</th><th>Price</th><th>Amount</th></tr>
                %s
            </table>
            <p>Subtotal: %s %s<br>Tax: %s %s</p>
            <p class="total">Amount due: %s %s</p>
        </div>
        <div class="footer"><p>This message was sent automatically, please do not reply.</p></div>
    </div>
</body>
</html>
`,
		html.EscapeString(businessName),
		html.EscapeString(inv.ClientName),
		html.EscapeString(inv.InvoiceNumber),
		due,
		overdue,
		rows,
		currency, inv.Subtotal.StringFixed(2),
		currency, inv.TaxAmount.StringFixed(2),
		currency, inv.Total.StringFixed(2))
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}
