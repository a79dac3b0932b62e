// Package services доставляет уведомления, поставленные в очередь процессом
// панели администратора.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/reynal240212/agora-finance/internal/lib/sl"
	"github.com/reynal240212/agora-finance/internal/models"
)

// Notifier отправляет готовый текст через транспорт одного канала.
type Notifier interface {
	Send(ctx context.Context, destination, message string) bool
}

// SenderService разбирает сообщения очереди и передаёт их транспорту канала.
type SenderService struct {
	notifiers map[string]Notifier
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService. notifiers — по одному
// на канал (whatsapp, email).
func NewSenderService(notifiers map[string]Notifier, log *slog.Logger) *SenderService {
	return &SenderService{
		notifiers: notifiers,
		log:       log,
	}
}

// HandleNotification обрабатывает одно сообщение очереди. Сообщения, которые
// нельзя доставить ни при какой попытке, отбрасываются (nil). Ошибка отправки
// возвращается, чтобы сообщение вернулось в очередь.
func (s *SenderService) HandleNotification(ctx context.Context, body []byte) error {
	const op = "sender.HandleNotification"
	log := s.log.With(slog.String("op", op))

	var n models.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		log.Error("dropping malformed notification", sl.Err(err))
		return nil
	}
	log = log.With(slog.String("channel", n.Channel))

	notifier, ok := s.notifiers[n.Channel]
	if !ok {
		log.Error("dropping notification for unsupported channel")
		return nil
	}
	if n.Destination == "" {
		log.Error("dropping notification without destination")
		return nil
	}

	if !notifier.Send(ctx, n.Destination, n.Message) {
		return fmt.Errorf("%s: %w", op, models.ErrDispatch)
	}
	log.Info("queued notification delivered", slog.Time("queued_at", n.CreatedAt))
	return nil
}
