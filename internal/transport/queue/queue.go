// Package queue ставит уведомления в очередь RabbitMQ вместо прямой отправки.
// Доставку выполняет cmd/sender.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/reynal240212/agora-finance/internal/lib/rabbitmq"
	"github.com/reynal240212/agora-finance/internal/models"
)

// Publisher публикует models.Notification в обменник уведомлений.
type Publisher struct {
	mu      sync.Mutex
	ch      rabbitmq.Publisher
	channel string
	now     func() time.Time
}

// NewPublisher создаёт Publisher для канала доставки channel (whatsapp|email).
func NewPublisher(ch rabbitmq.Publisher, channel string) *Publisher {
	return &Publisher{ch: ch, channel: channel, now: time.Now}
}

// Send публикует уведомление. Успех означает, что брокер принял сообщение.
func (p *Publisher) Send(ctx context.Context, destination, message string) error {
	const op = "queue.Send"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n := models.Notification{
		Channel:     p.channel,
		Destination: destination,
		Message:     message,
		CreatedAt:   p.now().UTC(),
	}

	// amqp.Channel не допускает конкурентную публикацию.
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := rabbitmq.PublishMessage(p.ch, rabbitmq.Exchange, rabbitmq.OutboundQueue.RoutingKey, n); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
