package listuser

import (
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

func (m *ServiceMock) ListUserSubscriptions(ctx context.Context, userID int) ([]admin.SubscriptionRow, error) {
	args := m.Called(ctx, userID)
	rows, _ := args.Get(0).([]admin.SubscriptionRow)
	return rows, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestListUserHandler(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		rows     []admin.SubscriptionRow
		svcErr   error
		callSvc  bool
		wantCode int
		wantBody string
	}{
		{
			name:     "one subscription",
			id:       "3",
			rows:     []admin.SubscriptionRow{{Subscription: models.Subscription{ID: 1, UserID: 3, Platform: "Disney+"}, Status: "Activa"}},
			callSvc:  true,
			wantCode: http.StatusOK,
			wantBody: `"plataforma":"Disney+"`,
		},
		{
			name:     "user not found",
			id:       "3",
			svcErr:   models.ErrNotFound,
			callSvc:  true,
			wantCode: http.StatusNotFound,
			wantBody: `"error":"not found"`,
		},
		{
			name:     "bad id",
			id:       "-",
			wantCode: http.StatusBadRequest,
			wantBody: "invalid user id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callSvc {
				svc.On("ListUserSubscriptions", mock.Anything, 3).Return(tt.rows, tt.svcErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+tt.id+"/subscriptions", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
