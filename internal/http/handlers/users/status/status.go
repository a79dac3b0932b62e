// Package status содержит HTTP-обработчик активации и отключения клиента.
package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/reynal240212/agora-finance/internal/http/response"
	"github.com/reynal240212/agora-finance/internal/lib/sl"
	"github.com/reynal240212/agora-finance/internal/models"
	admin "github.com/reynal240212/agora-finance/internal/services/admin"
)

// Действия над учётной записью.
const (
	ActionActivate   = "activar"
	ActionDeactivate = "inactivar"
)

// Request описывает тело запроса. DurationDays учитывается только при
// активации; 0 — бессрочно.
type Request struct {
	Action       string `json:"accion" validate:"required,oneof=activar inactivar"`
	DurationDays int    `json:"duracion_dias" validate:"gte=0"`
}

// Service описывает операции, нужные обработчику.
type Service interface {
	Activate(ctx context.Context, id, days int) (models.User, error)
	Deactivate(ctx context.Context, id int) (models.User, error)
	Describe(u models.User) admin.UserRow
}

// Handler обрабатывает POST /api/v1/users/{id}/status.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	var req Request
	if err = render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err = h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request"))
			return
		}
		log.Warn("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	var user models.User
	if req.Action == ActionActivate {
		user, err = h.service.Activate(r.Context(), id, req.DurationDays)
	} else {
		user, err = h.service.Deactivate(r.Context(), id)
	}
	if err != nil {
		log.Error("failed to change user status", slog.Int("id", id), slog.String("action", req.Action), sl.Err(err))
		code, resp := response.FromError(err)
		render.Status(r, code)
		render.JSON(w, r, resp)
		return
	}

	log.Info("user status changed", slog.Int("id", id), slog.String("action", req.Action))
	render.JSON(w, r, response.OKWithData(h.service.Describe(user)))
}
