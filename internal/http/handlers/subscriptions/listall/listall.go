// Package listall содержит HTTP-обработчик общего списка подписок,
// отсортированного по дате окончания.
package listall

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/reynal240212/agora-finance/internal/http/response"
	"github.com/reynal240212/agora-finance/internal/lib/sl"
	admin "github.com/reynal240212/agora-finance/internal/services/admin"
)

// Service описывает операции, нужные обработчику.
type Service interface {
	ListAllSubscriptions(ctx context.Context) ([]admin.SubscriptionOverviewRow, error)
}

// Handler обрабатывает GET /api/v1/subscriptions.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.listall"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	rows, err := h.service.ListAllSubscriptions(r.Context())
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"compras": rows,
		"total":   len(rows),
	}))
}
