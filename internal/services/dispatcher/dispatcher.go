// Package services содержит отправку уведомлений клиентам с ограничением
// времени на одну отправку.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/reynal240212/agora-finance/internal/lib/sl"
	"github.com/reynal240212/agora-finance/internal/metrics"
	"github.com/reynal240212/agora-finance/internal/models"
)

// Виды сообщений, метка метрики.
const (
	KindReminder = "reminder"
	KindWelcome  = "welcome"
	KindMessage  = "message"
)

// Transport доставляет текст по адресу канала (номер WhatsApp, e-mail, очередь).
type Transport interface {
	Send(ctx context.Context, destination, message string) error
}

// Dispatcher отправляет сообщения через Transport. Неудачная отправка
// ничего не меняет, результат сообщается булевым значением.
type Dispatcher struct {
	transport Transport
	timeout   time.Duration
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// NewDispatcher создает новый экземпляр Dispatcher. timeout <= 0 — без ограничения.
func NewDispatcher(transport Transport, timeout time.Duration, m *metrics.Metrics, log *slog.Logger) *Dispatcher {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Dispatcher{
		transport: transport,
		timeout:   timeout,
		metrics:   m,
		log:       log,
	}
}

// Send доставляет произвольное сообщение.
func (d *Dispatcher) Send(ctx context.Context, destination, message string) bool {
	return d.deliver(ctx, KindMessage, destination, message) == nil
}

// SendReminder формирует и отправляет напоминание об окончании подписки.
func (d *Dispatcher) SendReminder(ctx context.Context, destination string, data MessageData) bool {
	text, err := Reminder(data)
	if err != nil {
		d.log.Error("failed to render reminder", sl.Err(err))
		return false
	}
	return d.deliver(ctx, KindReminder, destination, text) == nil
}

// SendWelcome формирует и отправляет приветствие после покупки.
func (d *Dispatcher) SendWelcome(ctx context.Context, destination string, data MessageData) bool {
	text, err := Welcome(data)
	if err != nil {
		d.log.Error("failed to render welcome", sl.Err(err))
		return false
	}
	return d.deliver(ctx, KindWelcome, destination, text) == nil
}

func (d *Dispatcher) deliver(ctx context.Context, kind, destination, message string) error {
	const op = "dispatcher.deliver"
	log := d.log.With(slog.String("op", op), slog.String("kind", kind))

	if strings.TrimSpace(destination) == "" {
		d.metrics.NotificationsTotal.WithLabelValues(kind, "no_contact").Inc()
		log.Warn("notification skipped: empty destination")
		return fmt.Errorf("%s: empty destination: %w", op, models.ErrDispatch)
	}

	start := time.Now()
	err := d.sendBounded(ctx, destination, message)
	d.metrics.SendDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		d.metrics.NotificationsTotal.WithLabelValues(kind, "failed").Inc()
		log.Error("notification failed", slog.String("destination", destination), sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, models.ErrDispatch, err)
	}
	d.metrics.NotificationsTotal.WithLabelValues(kind, "ok").Inc()
	log.Info("notification sent", slog.String("destination", destination))
	return nil
}

// sendBounded ждёт транспорт не дольше d.timeout, даже если тот игнорирует ctx.
// Горутина такого транспорта остаётся жить, пока его Send не вернётся.
func (d *Dispatcher) sendBounded(ctx context.Context, destination, message string) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("transport panic: %v", r)
			}
		}()
		done <- d.transport.Send(ctx, destination, message)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("send timed out after %s: %w", d.timeout, ctx.Err())
		}
		return ctx.Err()
	}
}
