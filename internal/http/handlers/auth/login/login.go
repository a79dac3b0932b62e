// Package login содержит HTTP-обработчик входа в панель администратора.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/reynal240212/agora-finance/internal/http/response"
	"github.com/reynal240212/agora-finance/internal/lib/jwt"
	"github.com/reynal240212/agora-finance/internal/lib/sl"
	"github.com/reynal240212/agora-finance/internal/models"
)

// Request описывает тело запроса на вход.
type Request struct {
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service проверяет учётные данные клиента.
type Service interface {
	Authenticate(ctx context.Context, email, pass string) (models.User, error)
}

// TokenMaker выпускает токен сессии.
type TokenMaker interface {
	GenerateToken(email, role string) (string, error)
}

// Handler обрабатывает POST /api/v1/login.
type Handler struct {
	log        *slog.Logger
	service    Service
	tokens     TokenMaker
	adminEmail string
	validate   *validator.Validate
}

// New создаёт обработчик входа. adminEmail определяет, какой учётной записи
// выдаётся роль администратора.
func New(log *slog.Logger, service Service, tokens TokenMaker, adminEmail string) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		tokens:     tokens,
		adminEmail: adminEmail,
		validate:   validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Warn("validation failed", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request"))
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Warn("login refused", slog.String("correo", req.Email), sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	role := jwt.RoleCustomer
	if models.SameEmail(user.Email, h.adminEmail) {
		role = jwt.RoleAdmin
	}

	token, err := h.tokens.GenerateToken(user.Email, role)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to issue token"))
		return
	}

	log.Info("user logged in", slog.Int("id", user.ID), slog.String("role", role))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token":  token,
		"role":   role,
		"correo": user.Email,
		"nombre": user.Name,
	}))
}
