package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"plate-plan.backend/internal/config"
)

// Sender delivers outgoing application mail
type Sender interface {
	SendVerificationEmail(to, username, token string) error
}

// SMTPSender sends mail through the configured SMTP relay
type SMTPSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

var dialAndSend = func(d *gomail.Dialer, m *gomail.Message) error {
	return d.DialAndSend(m)
}

// SendVerificationEmail sends the email-ownership verification message
func (s *SMTPSender) SendVerificationEmail(to, username, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Verify your Plate-Plan email")
	m.SetBody("text/html", verificationBody(username, token))

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	return dialAndSend(d, m)
}

func verificationBody(username, token string) string {
	return fmt.Sprintf(`<p>Hi %s,</p>
<p>Welcome to Plate-Plan. Confirm your email address by submitting the token below within 24 hours:</p>
<p><strong>%s</strong></p>
<p>If you did not create this account, ignore this message.</p>`, username, token)
}
