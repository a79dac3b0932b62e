// Package email доставляет сообщения клиентам письмом через SMTP.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/reynal240212/agora-finance/internal/lib/smtp"
)

// Sender отправляет текстовые письма через smtp.TransportInterface.
type Sender struct {
	transport smtp.TransportInterface
	subject   string
	log       *slog.Logger
}

// NewSender создает новый экземпляр Sender.
func NewSender(transport smtp.TransportInterface, subject string, log *slog.Logger) *Sender {
	return &Sender{transport: transport, subject: subject, log: log}
}

// Send отправляет message на адрес to.
func (s *Sender) Send(ctx context.Context, to, message string) error {
	const op = "email.Send"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	to = strings.TrimSpace(to)
	if to == "" || !strings.Contains(to, "@") {
		return fmt.Errorf("%s: invalid address %q", op, to)
	}

	from := s.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + s.subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		strings.ReplaceAll(message, "\n", "\r\n"),
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("%s: mail from: %w", op, err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("%s: rcpt to: %w", op, err)
	}
	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: data: %w", op, err)
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		_ = wc.Close()
		return fmt.Errorf("%s: write body: %w", op, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("%s: close data: %w", op, err)
	}
	if err := client.Quit(); err != nil {
		s.log.Warn("failed to quit SMTP client", slog.String("op", op), slog.String("error", err.Error()))
	}

	s.log.Info("email sent successfully", slog.String("to", to))
	return nil
}
