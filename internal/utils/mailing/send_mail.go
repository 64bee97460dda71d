package mailing

import (
	"fmt"
	"html"
	"strconv"

	"foodgram/internal/utils"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

// Mailer sends transactional mail. The SMTP implementation is disabled when
// SMTP_HOST is empty.
type Mailer interface {
	Enabled() bool
	SendMail(toEmail string, subject string, body string) error
}

type smtpMailer struct {
	cfg MailConfig
}

func NewMailer(cfg MailConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Enabled() bool {
	return m.cfg.SMTPHost != ""
}

func (m *smtpMailer) SendMail(toEmail string, subject string, body string) error {
	message := gomail.NewMessage()
	message.SetAddressHeader("From", m.cfg.SMTPEmail, m.cfg.SMTPSender)
	message.SetHeader("To", toEmail)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)

	port, err := strconv.Atoi(m.cfg.SMTPPort)
	if err != nil {
		return fmt.Errorf("invalid SMTP port %q: %w", m.cfg.SMTPPort, err)
	}
	dialer := gomail.NewDialer(m.cfg.SMTPHost, port, m.cfg.SMTPEmail, m.cfg.SMTPPassword)

	return dialer.DialAndSend(message)
}

// WelcomeBody renders the sign-up mail.
func WelcomeBody(appURL, username string) string {
	return fmt.Sprintf(
		`<p>Hi %s,</p><p>Welcome to Foodgram. Start sharing recipes at <a href="%s">%s</a>.</p>`,
		html.EscapeString(username), appURL, appURL,
	)
}
