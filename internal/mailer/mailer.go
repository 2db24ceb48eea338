// Package mailer delivers plaintext mail to a single recipient. Delivery is
// fire-and-forget: callers do not observe or retry failures.
package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"
)

type Mailer interface {
	Send(to, subject, body string)
}

// SMTPMailer sends through a relay. Errors are logged and dropped.
type SMTPMailer struct {
	addr   string
	from   string
	auth   smtp.Auth
	logger *slog.Logger
}

func NewSMTPMailer(host string, port int, username, password, from string, logger *slog.Logger) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr:   fmt.Sprintf("%s:%d", host, port),
		from:   from,
		auth:   auth,
		logger: logger,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		m.logger.Error("send mail failed", "to", to, "error", err)
	}
}

// LogMailer writes the message to the log instead of sending it. Used in
// development and tests.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(to, subject, body string) {
	m.logger.Info("outgoing mail", "to", to, "subject", subject, "body", body)
}
