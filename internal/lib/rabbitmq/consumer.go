package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/reynal240212/agora-finance/internal/lib/sl"
)

// Handler обрабатывает тело сообщения. Ошибка возвращает сообщение в очередь.
type Handler func(ctx context.Context, body []byte) error

// maxInFlight — сколько сообщений обрабатывается одновременно.
const maxInFlight = 10

// ConsumerMessage запускает потребителя очереди и возвращает сразу.
// Обработка останавливается, когда отменён ctx или закрыт канал доставки.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, log *slog.Logger, handler Handler) error {
	const op = "rabbitmq.ConsumerMessage"
	deliveries, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	go consume(ctx, deliveries, log, handler)
	return nil
}

func consume(ctx context.Context, deliveries <-chan amqp.Delivery, log *slog.Logger, handler Handler) {
	sem := make(chan struct{}, maxInFlight)
	for {
		select {
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				if err := handler(ctx, d.Body); err != nil {
					log.Warn("message handling failed, requeue", sl.Err(err))
					if nackErr := d.Nack(false, true); nackErr != nil {
						log.Error("failed to nack message", sl.Err(nackErr))
					}
					return
				}
				if ackErr := d.Ack(false); ackErr != nil {
					log.Error("failed to ack message", sl.Err(ackErr))
				}
			}(d)
		case <-ctx.Done():
			return
		}
	}
}
