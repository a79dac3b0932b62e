// Package transport выбирает способ прямой доставки уведомлений по конфигу.
package transport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reynal240212/agora-finance/internal/config"
	"github.com/reynal240212/agora-finance/internal/lib/smtp"
	"github.com/reynal240212/agora-finance/internal/models"
	"github.com/reynal240212/agora-finance/internal/transport/email"
	"github.com/reynal240212/agora-finance/internal/transport/whatsapp"
)

// Sender доставляет текст по адресу канала.
type Sender interface {
	Send(ctx context.Context, destination, message string) error
}

// Direct возвращает транспорт прямой доставки для канала channel.
// WhatsApp без api_url работает в режиме ссылок wa.me.
func Direct(cfg *config.Config, channel string, log *slog.Logger) (Sender, error) {
	const op = "transport.Direct"
	switch channel {
	case models.ChannelWhatsApp:
		if cfg.WhatsApp.APIURL == "" {
			return whatsapp.NewLinkTransport(log), nil
		}
		return whatsapp.NewClient(cfg.WhatsApp.APIURL, cfg.WhatsApp.APIToken), nil
	case models.ChannelEmail:
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("%s: smtp.host is required for email channel", op)
		}
		return email.NewSender(smtp.NewTransport(cfg.SMTP, log), cfg.SMTPSubject, log), nil
	default:
		return nil, fmt.Errorf("%s: unknown channel %q", op, channel)
	}
}
