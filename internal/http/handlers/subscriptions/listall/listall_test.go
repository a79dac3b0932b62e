package listall

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reynal240212/agora-finance/internal/models"
	admin "github.com/reynal240212/agora-finance/internal/services/admin"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ListAllSubscriptions(ctx context.Context) ([]admin.SubscriptionOverviewRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]admin.SubscriptionOverviewRow)
	return rows, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestListAllHandler_KeepsServiceOrder(t *testing.T) {
	days := admin.DaysLeftDateError
	rows := []admin.SubscriptionOverviewRow{
		{
			SubscriptionRow: admin.SubscriptionRow{Subscription: models.Subscription{ID: 4, ExpirationDate: "2024-03-01"}},
			OwnerName:       "Ana Gómez",
			OwnerEmail:      "ana@example.com",
		},
		{
			SubscriptionRow: admin.SubscriptionRow{Subscription: models.Subscription{ID: 2}, DaysLeft: &days},
			OwnerName:       admin.MissingOwnerName,
			OwnerEmail:      admin.MissingOwnerEmail,
		},
	}
	svc := new(ServiceMock)
	svc.On("ListAllSubscriptions", mock.Anything).Return(rows, nil).Once()

	rec := httptest.NewRecorder()
	New(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Data struct {
			Compras []map[string]any `json:"compras"`
			Total   int              `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Data.Compras, 2)
	assert.Equal(t, 2, got.Data.Total)
	assert.Equal(t, float64(4), got.Data.Compras[0]["id"])
	assert.Equal(t, "Usuario Eliminado", got.Data.Compras[1]["nombre_usuario"])
	assert.Equal(t, float64(-999), got.Data.Compras[1]["dias_restantes"])
	svc.AssertExpectations(t)
}

func TestListAllHandler_StoreFailure(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("ListAllSubscriptions", mock.Anything).Return(nil, errors.New("corrupt")).Once()

	rec := httptest.NewRecorder()
	New(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal error")
}
