package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reynal240212/agora-finance/internal/models"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, destination, message string) bool {
	args := m.Called(ctx, destination, message)
	return args.Bool(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func encode(t *testing.T, n models.Notification) []byte {
	t.Helper()
	raw, err := json.Marshal(n)
	require.NoError(t, err)
	return raw
}

func TestSenderService_HandleNotification(t *testing.T) {
	queuedAt := time.Date(2024, 3, 28, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		body    func(t *testing.T) []byte
		expect  func(wa, mail *MockNotifier)
		wantErr error
	}{
		{
			name: "whatsapp delivered",
			body: func(t *testing.T) []byte {
				return encode(t, models.Notification{Channel: models.ChannelWhatsApp, Destination: "573001234567", Message: "hola", CreatedAt: queuedAt})
			},
			expect: func(wa, _ *MockNotifier) {
				wa.On("Send", mock.Anything, "573001234567", "hola").Return(true).Once()
			},
		},
		{
			name: "email delivered",
			body: func(t *testing.T) []byte {
				return encode(t, models.Notification{Channel: models.ChannelEmail, Destination: "ana@example.com", Message: "hola"})
			},
			expect: func(_, mail *MockNotifier) {
				mail.On("Send", mock.Anything, "ana@example.com", "hola").Return(true).Once()
			},
		},
		{
			name: "send failure is requeued",
			body: func(t *testing.T) []byte {
				return encode(t, models.Notification{Channel: models.ChannelWhatsApp, Destination: "573001234567", Message: "hola"})
			},
			expect: func(wa, _ *MockNotifier) {
				wa.On("Send", mock.Anything, "573001234567", "hola").Return(false).Once()
			},
			wantErr: models.ErrDispatch,
		},
		{
			name:   "malformed body dropped",
			body:   func(*testing.T) []byte { return []byte("{oops") },
			expect: func(_, _ *MockNotifier) {},
		},
		{
			name: "unknown channel dropped",
			body: func(t *testing.T) []byte {
				return encode(t, models.Notification{Channel: "sms", Destination: "1", Message: "hola"})
			},
			expect: func(_, _ *MockNotifier) {},
		},
		{
			name: "empty destination dropped",
			body: func(t *testing.T) []byte {
				return encode(t, models.Notification{Channel: models.ChannelEmail, Message: "hola"})
			},
			expect: func(_, _ *MockNotifier) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wa, mail := new(MockNotifier), new(MockNotifier)
			tt.expect(wa, mail)
			svc := NewSenderService(map[string]Notifier{
				models.ChannelWhatsApp: wa,
				models.ChannelEmail:    mail,
			}, newNoopLogger())

			err := svc.HandleNotification(context.Background(), tt.body(t))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			wa.AssertExpectations(t)
			mail.AssertExpectations(t)
		})
	}
}
