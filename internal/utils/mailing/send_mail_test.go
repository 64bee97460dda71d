package mailing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailer_Enabled(t *testing.T) {
	assert.False(t, NewMailer(MailConfig{}).Enabled())
	assert.True(t, NewMailer(MailConfig{SMTPHost: "smtp.example.com"}).Enabled())
}

func TestMailer_InvalidPort(t *testing.T) {
	err := NewMailer(MailConfig{SMTPHost: "smtp.example.com", SMTPPort: "smtp"}).
		SendMail("cook@example.com", "hi", "body")
	assert.ErrorContains(t, err, "invalid SMTP port")
}

func TestWelcomeBody_EscapesUsername(t *testing.T) {
	body := WelcomeBody("https://foodgram.example", "<b>chef</b>")
	assert.Contains(t, body, "&lt;b&gt;chef&lt;/b&gt;")
	assert.Contains(t, body, `href="https://foodgram.example"`)
}
