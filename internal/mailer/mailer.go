// Package mailer is the outbound notification collaborator. The identity
// service only depends on Sender; delivery failures are surfaced to the
// caller, which logs them without failing the triggering operation.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPSender(host string, port int, from, username, password string) *SMTPSender {
	s := &SMTPSender{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
	}
	if username != "" {
		s.auth = smtp.PlainAuth("", username, password, host)
	}
	return s
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := []byte("From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	// net/smtp has no context support; run the dial+send in a goroutine
	// so the caller's deadline still bounds the wait.
	errCh := make(chan error, 1)
	go func() {
		errCh <- smtp.SendMail(s.addr, s.auth, s.from, []string{to}, msg)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogSender writes the message to the log instead of delivering it.
// Used in development when no SMTP host is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.Logger.Info("outbound mail (log sender)",
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}
