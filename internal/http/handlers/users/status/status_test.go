package status

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/reynal240212/agora-finance/internal/models"
	admin "github.com/reynal240212/agora-finance/internal/services/admin"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Activate(ctx context.Context, id, days int) (models.User, error) {
	args := m.Called(ctx, id, days)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *ServiceMock) Deactivate(ctx context.Context, id int) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *ServiceMock) Describe(u models.User) admin.UserRow {
	args := m.Called(u)
	return args.Get(0).(admin.UserRow)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestStatusHandler(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		setup     func(m *ServiceMock)
		wantCode  int
		wantError string
	}{
		{
			name: "activate for 30 days",
			body: `{"accion":"activar","duracion_dias":30}`,
			setup: func(m *ServiceMock) {
				u := models.User{ID: 4, Status: models.StatusActive, DurationDays: 30}
				m.On("Activate", mock.Anything, 4, 30).Return(u, nil).Once()
				m.On("Describe", u).Return(admin.UserRow{ID: 4, Status: models.StatusActive}).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name: "deactivate",
			body: `{"accion":"inactivar"}`,
			setup: func(m *ServiceMock) {
				u := models.User{ID: 4, Status: models.StatusInactive}
				m.On("Deactivate", mock.Anything, 4).Return(u, nil).Once()
				m.On("Describe", u).Return(admin.UserRow{ID: 4, Status: models.StatusInactive}).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name:      "unknown action",
			body:      `{"accion":"borrar"}`,
			setup:     func(_ *ServiceMock) {},
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "field Action must be one of: activar inactivar",
		},
		{
			name:      "negative days",
			body:      `{"accion":"activar","duracion_dias":-3}`,
			setup:     func(_ *ServiceMock) {},
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "field DurationDays must not be negative",
		},
		{
			name: "user not found",
			body: `{"accion":"inactivar"}`,
			setup: func(m *ServiceMock) {
				m.On("Deactivate", mock.Anything, 4).Return(models.User{}, models.ErrNotFound).Once()
			},
			wantCode:  http.StatusNotFound,
			wantError: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setup(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/users/4/status", bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "4")
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantError != "" {
				assert.Contains(t, rec.Body.String(), tt.wantError)
			}
			svc.AssertExpectations(t)
		})
	}
}
