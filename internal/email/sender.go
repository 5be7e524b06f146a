package email

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Sender delivers a single message. The auth workflows treat delivery as
// best-effort once the database writes are committed.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender delivers HTML mail through a plain SMTP relay.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (s *SMTPSender) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.From, to, subject, body,
	)
	return smtp.SendMail(addr, auth, s.From, []string{to}, []byte(msg))
}

// LogSender writes the message to the log instead of delivering it. Used
// when no SMTP relay is configured.
type LogSender struct {
	Log zerolog.Logger
}

func (s *LogSender) Send(to, subject, body string) error {
	s.Log.Info().
		Str("to", to).
		Str("subject", subject).
		Msg("email delivery skipped, no SMTP relay configured")
	return nil
}
