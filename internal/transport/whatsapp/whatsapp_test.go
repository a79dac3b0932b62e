package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLink(t *testing.T) {
	tests := []struct {
		name    string
		number  string
		message string
		want    string
	}{
		{
			name:    "spaces and newlines",
			number:  "573001234567",
			message: "Hola Ana\nTu cuenta",
			want:    "https://wa.me/573001234567?text=Hola%20Ana%0ATu%20cuenta",
		},
		{
			name:    "asterisks removed",
			number:  "+57 300 123-4567",
			message: "*Netflix*",
			want:    "https://wa.me/573001234567?text=Netflix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildLink(tt.number, tt.message))
		})
	}
}

func TestLinkTransport_Send(t *testing.T) {
	var buf bytes.Buffer
	tr := NewLinkTransport(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, tr.Send(context.Background(), "573001234567", "Hola Ana"))
	assert.Contains(t, buf.String(), "https://wa.me/573001234567?text=Hola%20Ana")

	assert.Error(t, tr.Send(context.Background(), "sin número", "Hola"))
}

func TestClient_Send(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "ok", status: http.StatusOK},
		{name: "created", status: http.StatusCreated},
		{name: "rejected", status: http.StatusBadRequest, wantErr: true},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			type captured struct {
				auth string
				req  sendRequest
			}
			seen := make(chan captured, 1)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var c captured
				c.auth = r.Header.Get("Authorization")
				_ = json.NewDecoder(r.Body).Decode(&c.req)
				seen <- c
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "token-1")
			err := c.Send(context.Background(), "+57 300 123 4567", "Hola *Ana*")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			got := <-seen
			assert.Equal(t, "Bearer token-1", got.auth)
			assert.Equal(t, "573001234567", got.req.To)
			assert.Equal(t, "Hola *Ana*", got.req.Body)
		})
	}
}

func TestClient_SendRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := NewClient(srv.URL, "").Send(ctx, "573001234567", "hola")
	require.Error(t, err)
}
