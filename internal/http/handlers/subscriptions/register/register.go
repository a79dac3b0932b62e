// Package register содержит HTTP-обработчик регистрации покупки клиента.
package register

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

// Service описывает операции, нужные обработчику.
type Service interface {
	RegisterSubscription(ctx context.Context, userID int, in models.SubscriptionInput) (admin.RegisterResult, error)
}

// Handler обрабатывает POST /api/v1/users/{id}/subscriptions.
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
	const op = "handlers.subscriptions.register"

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

	var req models.SubscriptionInput
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

	res, err := h.service.RegisterSubscription(r.Context(), userID, req)
	if err != nil {
		log.Error("failed to register subscription", slog.Int("user_id", userID), sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("subscription registered",
		slog.Int("user_id", userID),
		slog.Int("subscription_id", res.Subscription.ID),
		slog.Bool("welcome_sent", res.WelcomeSent),
	)
	if !res.Updated {
		render.Status(r, http.StatusCreated)
	}
	render.JSON(w, r, response.OKWithData(res))
}
