package mailservice

import (
	"fmt"
	"time"

	"github.com/go-mail/mail/v2"
)

const dialTimeout = 10 * time.Second

// NewMailer configures an SMTP dialer for outbound mail.
func NewMailer(host string, port int, username, password, sender string, tp *Template) *Mail {
	d := mail.NewDialer(host, port, username, password)
	d.Timeout = dialTimeout

	return &Mail{
		dialer: d,
		sender: sender,
		parser: tp,
	}
}

// send renders the named template and delivers the message to a single
// recipient. The mutex keeps the dialer to one SMTP conversation at a time.
func (m *Mail) send(recipient string, data any, templateFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	subject, plainBody, htmlBody, err := m.parser.ParseTemplate(templateFile, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", templateFile, err)
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())

	return m.dialer.DialAndSend(msg)
}
