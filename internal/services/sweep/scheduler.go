package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/reynal240212/agora-finance/internal/lib/sl"
)

// Runner — один проход проверки.
type Runner interface {
	RunOnce(ctx context.Context, now time.Time) (Report, error)
}

// ErrAlreadyStarted возвращается при повторном Start.
var ErrAlreadyStarted = errors.New("scheduler already started")

// Scheduler запускает Runner раз в сутки в hour:minute часового пояса loc.
type Scheduler struct {
	runner     Runner
	hour       int
	minute     int
	loc        *time.Location
	runOnStart bool
	log        *slog.Logger

	now   func() time.Time
	after func(d time.Duration) <-chan time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler создает новый экземпляр Scheduler.
func NewScheduler(runner Runner, hour, minute int, loc *time.Location, runOnStart bool, log *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		runner:     runner,
		hour:       hour,
		minute:     minute,
		loc:        loc,
		runOnStart: runOnStart,
		log:        log,
		now:        time.Now,
		after:      time.After,
	}
}

// NextRun возвращает ближайший момент hour:minute в поясе loc строго после now.
func NextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}

// Start запускает фоновый цикл. Цикл завершается по Stop или отмене ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx, s.done)
	s.log.Info("sweep scheduler started",
		slog.Int("hour", s.hour), slog.Int("minute", s.minute), slog.String("timezone", s.loc.String()))
	return nil
}

// Stop останавливает цикл и ждёт завершения текущего прохода.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.log.Info("sweep scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	if s.runOnStart {
		s.run(ctx)
	}
	for {
		now := s.now()
		next := NextRun(now, s.hour, s.minute, s.loc)
		s.log.Debug("next sweep scheduled", slog.Time("at", next))

		select {
		case <-ctx.Done():
			return
		case <-s.after(next.Sub(now)):
			s.run(ctx)
		}
	}
}

func (s *Scheduler) run(ctx context.Context) {
	if _, err := s.runner.RunOnce(ctx, s.now()); err != nil {
		s.log.Error("scheduled sweep failed", sl.Err(err))
	}
}
