package smtp

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/procodeli/portal/internal/config"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer returns an error when no SMTP host is configured so callers can
// fall back gracefully.
func NewMailer(cfg *config.Config) (Mailer, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST not set")
	}
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		send:     smtp.SendMail,
	}, nil
}

func (m *mailer) SendEmail(to, subject, body string) error {
	if strings.ContainsAny(to, "\r\n") || strings.ContainsAny(subject, "\r\n") {
		return fmt.Errorf("invalid header value")
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nDate: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		m.from, to, subject, time.Now().UTC().Format(time.RFC1123Z), body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return m.send(addr, auth, m.from, []string{to}, []byte(msg))
}
