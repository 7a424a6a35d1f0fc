package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"time"

	"github.com/rojgarsetu/backend/internal/config"
)

// Email is a single outbound message with both plain-text and HTML bodies.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers email. Delivery is best-effort relative to the record
// mutations that trigger it: callers log failures and move on.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// SMTPSender sends mail over an implicit-TLS SMTP connection.
type SMTPSender struct {
	cfg config.SMTPConfig
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	message := buildMessage(s.cfg.From, email)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	tlsConfig := &tls.Config{ServerName: s.cfg.Host}
	conn, err := tls.Dial("tcp", fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port), tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(email.To); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("failed to quit SMTP session: %w", err)
	}
	return nil
}

const mimeBoundary = "=-rojgar-setu-alt"

func buildMessage(from string, email Email) []byte {
	var message bytes.Buffer
	write := func(format string, args ...interface{}) {
		fmt.Fprintf(&message, format+"\r\n", args...)
	}

	write("From: %s", from)
	write("To: %s", email.To)
	write("Subject: %s", email.Subject)
	write("Date: %s", time.Now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0")

	if email.HTMLBody == "" {
		write("Content-Type: text/plain; charset=UTF-8")
		write("")
		message.WriteString(email.TextBody)
		return message.Bytes()
	}

	write("Content-Type: multipart/alternative; boundary=%q", mimeBoundary)
	write("")
	write("--%s", mimeBoundary)
	write("Content-Type: text/plain; charset=UTF-8")
	write("")
	write("%s", email.TextBody)
	write("--%s", mimeBoundary)
	write("Content-Type: text/html; charset=UTF-8")
	write("")
	write("%s", email.HTMLBody)
	write("--%s--", mimeBoundary)
	return message.Bytes()
}
