package agora

import (
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/reynal240212/agora-finance/internal/config"
	"github.com/reynal240212/agora-finance/internal/lib/rabbitmq"
	"github.com/reynal240212/agora-finance/internal/transport"
	"github.com/reynal240212/agora-finance/internal/transport/queue"
)

// openTransport выбирает доставку по notification.transport: прямую
// или через очередь RabbitMQ. Для очереди возвращаются соединение и канал,
// их закрывает App.
func openTransport(cfg *config.Config, logger *slog.Logger) (transport.Sender, *amqp.Connection, *amqp.Channel, error) {
	const op = "agora.openTransport"

	if cfg.Transport != "queue" {
		sender, err := transport.Direct(cfg, cfg.Channel, logger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Info("notifications are sent directly", slog.String("channel", cfg.Channel))
		return sender, nil, nil, nil
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("notifications are queued", slog.String("channel", cfg.Channel), slog.String("exchange", rabbitmq.Exchange))
	return queue.NewPublisher(ch, cfg.Channel), conn, ch, nil
}
