package list

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

	admin "github.com/reynal240212/agora-finance/internal/services/admin"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ListUsers(ctx context.Context, filter, value string) ([]admin.UserRow, error) {
	args := m.Called(ctx, filter, value)
	rows, _ := args.Get(0).([]admin.UserRow)
	return rows, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestListHandler(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		filter    string
		value     string
		rows      []admin.UserRow
		svcErr    error
		wantCode  int
		wantTotal float64
	}{
		{
			name:      "show all",
			query:     "?filtro=mostrar_todo",
			filter:    admin.FilterAll,
			rows:      []admin.UserRow{{ID: 1}, {ID: 2}},
			wantCode:  http.StatusOK,
			wantTotal: 2,
		},
		{
			name:      "filter by name",
			query:     "?filtro=nombre&valor=an",
			filter:    "nombre",
			value:     "an",
			rows:      []admin.UserRow{{ID: 1, Name: "Ana"}},
			wantCode:  http.StatusOK,
			wantTotal: 1,
		},
		{
			name:     "no filter",
			rows:     []admin.UserRow{},
			wantCode: http.StatusOK,
		},
		{
			name:     "store failure",
			query:    "?filtro=mostrar_todo",
			filter:   admin.FilterAll,
			svcErr:   errors.New("corrupt file"),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("ListUsers", mock.Anything, tt.filter, tt.value).Return(tt.rows, tt.svcErr).Once()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users"+tt.query, nil)
			rec := httptest.NewRecorder()
			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.svcErr == nil {
				var got struct {
					Data struct {
						Total float64 `json:"total"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, tt.wantTotal, got.Data.Total)
			}
			svc.AssertExpectations(t)
		})
	}
}
