// Package sender собирает процесс доставки уведомлений из очереди RabbitMQ.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/reynal240212/agora-finance/internal/config"
	"github.com/reynal240212/agora-finance/internal/lib/rabbitmq"
	"github.com/reynal240212/agora-finance/internal/lib/sl"
	"github.com/reynal240212/agora-finance/internal/metrics"
	"github.com/reynal240212/agora-finance/internal/models"
	dispatcher "github.com/reynal240212/agora-finance/internal/services/dispatcher"
	senderservice "github.com/reynal240212/agora-finance/internal/services/sender"
	"github.com/reynal240212/agora-finance/internal/transport"
)

// App — потребитель очереди исходящих уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New подключается к RabbitMQ и готовит транспорты каналов.
// Канал email включается, только если задан smtp.host.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	m := metrics.New(nil)
	notifiers := make(map[string]senderservice.Notifier)
	for _, channel := range []string{models.ChannelWhatsApp, models.ChannelEmail} {
		t, err := transport.Direct(cfg, channel, logger)
		if err != nil {
			logger.Warn("channel disabled", slog.String("channel", channel), sl.Err(err))
			continue
		}
		notifiers[channel] = dispatcher.NewDispatcher(t, cfg.SendTimeout, m, logger)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.NewSenderService(notifiers, logger),
		logger:        logger,
	}, nil
}

// Run потребляет очередь до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.OutboundQueue.QueueName, a.logger, a.senderService.HandleNotification)
	if err != nil {
		a.logger.Error("failed to start consumer", slog.String("queue", rabbitmq.OutboundQueue.QueueName), sl.Err(err))
		return err
	}
	a.logger.Info("consuming notifications", slog.String("queue", rabbitmq.OutboundQueue.QueueName))

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}

	return nil
}
