// Package services содержит ежедневную проверку подписок: находит подписки,
// по которым сегодня пора напомнить клиенту, и отправляет напоминания.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reynal240212/agora-finance/internal/expiration"
	"github.com/reynal240212/agora-finance/internal/lib/dates"
	"github.com/reynal240212/agora-finance/internal/lib/sl"
	"github.com/reynal240212/agora-finance/internal/metrics"
	"github.com/reynal240212/agora-finance/internal/models"
	dispatcher "github.com/reynal240212/agora-finance/internal/services/dispatcher"
)

// Repository — хранилище клиентов и подписок.
type Repository interface {
	ScanUsers(ctx context.Context) ([]models.User, []models.MalformedRecord, error)
	ScanSubscriptions(ctx context.Context) ([]models.Subscription, []models.MalformedRecord, error)
	// MarkNotified отмечает отправку, только если покупка не заменена после чтения,
	// иначе возвращает models.ErrStaleRecord.
	MarkNotified(ctx context.Context, sent models.Subscription) error
}

// Notifier отправляет напоминание клиенту.
type Notifier interface {
	SendReminder(ctx context.Context, destination string, data dispatcher.MessageData) bool
}

// Options — параметры окна напоминания.
type Options struct {
	// NoticeWindowDays — за сколько дней до окончания напоминать.
	NoticeWindowDays int
	// CatchUpMissed — напоминать и позже дня напоминания, пока подписка не истекла.
	CatchUpMissed bool
	// Channel — канал, адрес которого берётся у клиента.
	Channel string
}

// Report — итог одного прохода.
type Report struct {
	RunID           string    `json:"run_id"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Scanned         int       `json:"scanned"`
	AlreadyNotified int       `json:"already_notified"`
	Due             int       `json:"due"`
	Sent            int       `json:"sent"`
	Failed          int       `json:"failed"`
	Skipped         int       `json:"skipped"`
	DateErrors      int       `json:"date_errors"`
	Malformed       int       `json:"malformed"`
	Superseded      int       `json:"superseded"`
	MarkFailed      int       `json:"mark_failed"`
}

// SweepService проходит по всем подпискам и отправляет напоминания.
type SweepService struct {
	repo     Repository
	notifier Notifier
	calc     *expiration.Calculator
	opts     Options
	metrics  *metrics.Metrics
	log      *slog.Logger

	runMu sync.Mutex
}

// NewSweepService создает новый экземпляр SweepService.
func NewSweepService(repo Repository, notifier Notifier, calc *expiration.Calculator, opts Options, m *metrics.Metrics, log *slog.Logger) *SweepService {
	if m == nil {
		m = metrics.New(nil)
	}
	return &SweepService{
		repo:     repo,
		notifier: notifier,
		calc:     calc,
		opts:     opts,
		metrics:  m,
		log:      log,
	}
}

// RunOnce выполняет один проход на момент now. Ошибка одной подписки
// не прерывает проход; ошибка возвращается, только если не удалось прочитать хранилище.
// Параллельные вызовы выполняются по очереди.
func (s *SweepService) RunOnce(ctx context.Context, now time.Time) (report Report, err error) {
	const op = "sweep.RunOnce"
	s.runMu.Lock()
	defer s.runMu.Unlock()

	report = Report{RunID: uuid.NewString(), StartedAt: time.Now()}
	log := s.log.With(slog.String("op", op), slog.String("run_id", report.RunID))
	s.metrics.SweepRunsTotal.Inc()
	defer func() {
		report.FinishedAt = time.Now()
		s.metrics.SweepDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
		s.metrics.LastSweepTimestamp.SetToCurrentTime()
	}()

	subs, badSubs, err := s.repo.ScanSubscriptions(ctx)
	if err != nil {
		log.Error("failed to load subscriptions", sl.Err(err))
		return report, fmt.Errorf("%s: %w", op, err)
	}
	users, badUsers, err := s.repo.ScanUsers(ctx)
	if err != nil {
		log.Error("failed to load users", sl.Err(err))
		return report, fmt.Errorf("%s: %w", op, err)
	}
	for _, b := range append(badSubs, badUsers...) {
		report.Malformed++
		s.metrics.SweepRecordsTotal.WithLabelValues("malformed").Inc()
		log.Warn("malformed record skipped", slog.Int("index", b.Index), sl.Err(b.Err))
	}
	byID := make(map[int]models.User, len(users))
	for _, u := range users {
		if _, seen := byID[u.ID]; !seen {
			byID[u.ID] = u
		}
	}

	today := dates.Day(now, s.calc.Location())
	log.Info("sweep started", slog.Int("subscriptions", len(subs)), slog.String("today", dates.FormatDate(today)))

	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			log.Warn("sweep interrupted", sl.Err(err))
			break
		}
		report.Scanned++
		s.process(ctx, log, sub, byID, today, &report)
	}

	log.Info("sweep finished",
		slog.Int("scanned", report.Scanned),
		slog.Int("due", report.Due),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
		slog.Int("skipped", report.Skipped),
		slog.Int("date_errors", report.DateErrors),
		slog.Int("malformed", report.Malformed),
	)
	return report, nil
}

func (s *SweepService) process(ctx context.Context, log *slog.Logger, sub models.Subscription, users map[int]models.User, today time.Time, report *Report) {
	log = log.With(slog.Int("subscription_id", sub.ID), slog.Int("user_id", sub.UserID))

	if sub.Notified {
		report.AlreadyNotified++
		return
	}
	if sub.DurationDays == 0 {
		return
	}

	expires, err := s.calc.RecordExpiration(sub)
	if err != nil {
		report.DateErrors++
		s.metrics.SweepRecordsTotal.WithLabelValues("date_error").Inc()
		log.Warn("subscription has malformed dates", sl.Err(err))
		return
	}
	if !s.inWindow(today, expires) {
		return
	}
	report.Due++

	u, ok := users[sub.UserID]
	if !ok {
		report.Skipped++
		s.metrics.SweepRecordsTotal.WithLabelValues("no_user").Inc()
		log.Warn("reminder skipped: user not found")
		return
	}
	contact := u.Contact(s.opts.Channel)
	if contact == "" {
		report.Skipped++
		s.metrics.SweepRecordsTotal.WithLabelValues("no_contact").Inc()
		log.Warn("reminder skipped: user has no contact", slog.String("channel", s.opts.Channel))
		return
	}

	data := dispatcher.NewMessageData(u, sub, expires)
	data.DaysLeft = dates.DaysBetween(today, expires)
	if !s.notifier.SendReminder(ctx, contact, data) {
		report.Failed++
		s.metrics.SweepRecordsTotal.WithLabelValues("failed").Inc()
		return
	}
	report.Sent++
	s.metrics.SweepRecordsTotal.WithLabelValues("sent").Inc()

	if err := s.repo.MarkNotified(ctx, sub); err != nil {
		if errors.Is(err, models.ErrStaleRecord) {
			report.Superseded++
			log.Warn("purchase replaced while reminder was sent, flag left unset", sl.Err(err))
			return
		}
		report.MarkFailed++
		log.Error("reminder sent but flag not saved", sl.Err(err))
		return
	}
	log.Info("reminder sent")
}

func (s *SweepService) inWindow(today, expires time.Time) bool {
	due := dates.AddDays(expires, -s.opts.NoticeWindowDays)
	if !s.opts.CatchUpMissed {
		return dates.DaysBetween(today, due) == 0
	}
	return dates.DaysBetween(due, today) >= 0 && dates.DaysBetween(today, expires) >= 0
}
