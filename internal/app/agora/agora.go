package agora

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/reynal240212/agora-finance/internal/config"
	"github.com/reynal240212/agora-finance/internal/expiration"
	"github.com/reynal240212/agora-finance/internal/lib/jwt"
	"github.com/reynal240212/agora-finance/internal/lib/sl"
	"github.com/reynal240212/agora-finance/internal/metrics"
	admin "github.com/reynal240212/agora-finance/internal/services/admin"
	dispatcher "github.com/reynal240212/agora-finance/internal/services/dispatcher"
	sweep "github.com/reynal240212/agora-finance/internal/services/sweep"
	"github.com/reynal240212/agora-finance/internal/storage/repository"
)

// App — процесс панели администратора: HTTP API и планировщик проверки.
type App struct {
	server     *http.Server
	scheduler  *sweep.Scheduler
	logger     *slog.Logger
	closeStore func() error
	amqpConn   *amqp.Connection
	amqpCh     *amqp.Channel
}

// New собирает приложение по конфигу.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, err
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	repo := repository.New(store)

	sender, conn, ch, err := openTransport(cfg, logger)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	calc := expiration.NewCalculator(loc)
	notifier := dispatcher.NewDispatcher(sender, cfg.SendTimeout, m, logger)

	sweepService := sweep.NewSweepService(repo, notifier, calc, sweep.Options{
		NoticeWindowDays: cfg.NoticeWindowDays,
		CatchUpMissed:    cfg.CatchUpMissed,
		Channel:          cfg.Channel,
	}, m, logger)
	adminService := admin.NewAdminService(repo, notifier, calc, cfg.Channel, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Admin:      adminService,
		Sweep:      sweepService,
		Tokens:     jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL),
		AdminEmail: cfg.AdminEmail,
		Health:     repo,
		Registry:   registry,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		scheduler:  sweep.NewScheduler(sweepService, cfg.Hour, cfg.Minute, loc, cfg.RunOnStart, logger),
		logger:     logger,
		closeStore: closeStore,
		amqpConn:   conn,
		amqpCh:     ch,
	}, nil
}

// Run запускает планировщик и HTTP-сервер и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}
	defer a.close()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}

func (a *App) close() {
	a.scheduler.Stop()
	if a.amqpCh != nil {
		if err := a.amqpCh.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if err := a.closeStore(); err != nil {
		a.logger.Error("failed to close record store", sl.Err(err))
	}
}
