// Package listuser содержит HTTP-обработчик списка подписок одного клиента.
package listuser

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/reynal240212/agora-finance/internal/http/response"
	"github.com/reynal240212/agora-finance/internal/lib/sl"
	admin "github.com/reynal240212/agora-finance/internal/services/admin"
)

// Service описывает операции, нужные обработчику.
type Service interface {
	ListUserSubscriptions(ctx context.Context, userID int) ([]admin.SubscriptionRow, error)
}

// Handler обрабатывает GET /api/v1/users/{id}/subscriptions.
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
	const op = "handlers.subscriptions.listuser"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	rows, err := h.service.ListUserSubscriptions(r.Context(), userID)
	if err != nil {
		log.Error("failed to list user subscriptions", slog.Int("user_id", userID), sl.Err(err))
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
