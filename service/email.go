package service

import (
	"fmt"
	"html"

	"vereinskasse/config"

	"gopkg.in/gomail.v2"
)

// Mailer 通知邮件发送接口，便于测试替换
type Mailer interface {
	SendBookingNotification(toEmail, memberName, message string) error
}

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 邮件服务是否启用
func (s *EmailService) Enabled() bool {
	return s.cfg != nil && s.cfg.Enabled
}

// SendBookingNotification 把快速录入产生的通知抄送到成员邮箱
func (s *EmailService) SendBookingNotification(toEmail, memberName, message string) error {
	if !s.Enabled() {
		return fmt.Errorf("邮件服务未启用，请配置 CLUB_EMAIL_ENABLED=true")
	}

	subject := "[Vereinskasse] Neue Buchung auf deinem Konto"
	body := s.generateBookingEmailBody(memberName, message)

	return s.sendEmail(toEmail, subject, body)
}

// generateBookingEmailBody 生成通知邮件内容
func (s *EmailService) generateBookingEmailBody(memberName, message string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #7c3aed, #6d28d9); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .message { background: #f5f3ff; border-left: 4px solid #7c3aed; padding: 15px; border-radius: 4px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Vereinskasse</h1>
        </div>
        <div class="content">
            <p>Hallo <strong>%s</strong>,</p>
            <div class="message"><p>%s</p></div>
            <p>Falls diese Buchung nicht stimmt, melde dich bitte beim Vorstand.</p>
        </div>
        <div class="footer">
            <p>Diese E-Mail wurde automatisch versendet.</p>
        </div>
    </div>
</body>
</html>
`, html.EscapeString(memberName), html.EscapeString(message))
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
