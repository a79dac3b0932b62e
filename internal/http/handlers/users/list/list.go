// Package list содержит HTTP-обработчик списка клиентов с фильтром.
package list

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
	ListUsers(ctx context.Context, filter, value string) ([]admin.UserRow, error)
}

// Handler обрабатывает GET /api/v1/users?filtro=...&valor=...
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
	const op = "handlers.users.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := r.URL.Query().Get("filtro")
	value := r.URL.Query().Get("valor")

	rows, err := h.service.ListUsers(r.Context(), filter, value)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Debug("users listed", slog.String("filter", filter), slog.Int("count", len(rows)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"usuarios": rows,
		"total":    len(rows),
	}))
}
