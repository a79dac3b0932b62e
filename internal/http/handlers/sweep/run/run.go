// Package run содержит HTTP-обработчик ручного запуска проверки сроков.
package run

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/reynal240212/agora-finance/internal/http/response"
	"github.com/reynal240212/agora-finance/internal/lib/sl"
	sweep "github.com/reynal240212/agora-finance/internal/services/sweep"
)

// Service выполняет один проход проверки.
type Service interface {
	RunOnce(ctx context.Context, now time.Time) (sweep.Report, error)
}

// Handler обрабатывает POST /api/v1/sweep.
type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		now:     time.Now,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sweep.run"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	report, err := h.service.RunOnce(r.Context(), h.now())
	if err != nil {
		log.Error("manual sweep failed", sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("manual sweep finished", slog.String("run_id", report.RunID), slog.Int("sent", report.Sent))
	render.JSON(w, r, response.OKWithData(report))
}
