package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reynal240212/agora-finance/internal/lib/smtp"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error { return m.Called(from).Error(0) }
func (m *MockSMTPClient) Rcpt(to string) error   { return m.Called(to).Error(0) }
func (m *MockSMTPClient) Quit() error            { return m.Called().Error(0) }
func (m *MockSMTPClient) Close() error           { return m.Called().Error(0) }

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

type MockSMTPWriter struct {
	mock.Mock
}

func (m *MockSMTPWriter) Write(p []byte) (int, error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error { return m.Called().Error(0) }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSender_Send(t *testing.T) {
	tests := []struct {
		name       string
		to         string
		setupMocks func(*MockTransport)
		wantErr    string
	}{
		{
			name: "success",
			to:   "ana@example.com",
			setupMocks: func(tr *MockTransport) {
				client := new(MockSMTPClient)
				writer := new(MockSMTPWriter)
				tr.On("GetSMTPUser").Return("robot@example.com")
				tr.On("Connect").Return(client, nil).Once()
				client.On("Mail", "robot@example.com").Return(nil).Once()
				client.On("Rcpt", "ana@example.com").Return(nil).Once()
				client.On("Data").Return(writer, nil).Once()
				writer.On("Write", mock.MatchedBy(func(p []byte) bool {
					s := string(p)
					return strings.HasPrefix(s, "From: robot@example.com\r\nTo: ana@example.com\r\n") &&
						strings.Contains(s, "Subject: FULL ENTRETENIMIENTO\r\n") &&
						strings.HasSuffix(s, "\r\n\r\nHola Ana\r\nTu cuenta")
				})).Return(100, nil).Once()
				writer.On("Close").Return(nil).Once()
				client.On("Quit").Return(nil).Once()
				client.On("Close").Return(nil).Once()
			},
		},
		{
			name: "connect error",
			to:   "ana@example.com",
			setupMocks: func(tr *MockTransport) {
				tr.On("GetSMTPUser").Return("robot@example.com")
				tr.On("Connect").Return(nil, errors.New("dial tcp: refused")).Once()
			},
			wantErr: "dial tcp",
		},
		{
			name: "recipient rejected",
			to:   "ana@example.com",
			setupMocks: func(tr *MockTransport) {
				client := new(MockSMTPClient)
				tr.On("GetSMTPUser").Return("robot@example.com")
				tr.On("Connect").Return(client, nil).Once()
				client.On("Mail", "robot@example.com").Return(nil).Once()
				client.On("Rcpt", "ana@example.com").Return(errors.New("550 no such user")).Once()
				client.On("Close").Return(nil).Once()
			},
			wantErr: "rcpt to",
		},
		{
			name:       "invalid address",
			to:         "573001234567",
			setupMocks: func(*MockTransport) {},
			wantErr:    "invalid address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := new(MockTransport)
			tt.setupMocks(tr)
			s := NewSender(tr, "FULL ENTRETENIMIENTO", newNoopLogger())

			err := s.Send(context.Background(), tt.to, "Hola Ana\nTu cuenta")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tr.AssertExpectations(t)
		})
	}
}
