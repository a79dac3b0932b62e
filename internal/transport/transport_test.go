package transport

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reynal240212/agora-finance/internal/config"
	"github.com/reynal240212/agora-finance/internal/transport/email"
	"github.com/reynal240212/agora-finance/internal/transport/whatsapp"
)

func TestDirect(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		cfg     config.Config
		channel string
		check   func(t *testing.T, s Sender)
		wantErr bool
	}{
		{
			name:    "whatsapp links",
			channel: "whatsapp",
			check: func(t *testing.T, s Sender) {
				assert.IsType(t, &whatsapp.LinkTransport{}, s)
			},
		},
		{
			name:    "whatsapp api",
			cfg:     config.Config{WhatsApp: config.WhatsApp{APIURL: "http://gw.local/send"}},
			channel: "whatsapp",
			check: func(t *testing.T, s Sender) {
				assert.IsType(t, &whatsapp.Client{}, s)
			},
		},
		{
			name:    "email",
			cfg:     config.Config{SMTP: config.SMTP{SMTPHost: "smtp.example.com", SMTPPort: "587"}},
			channel: "email",
			check: func(t *testing.T, s Sender) {
				assert.IsType(t, &email.Sender{}, s)
			},
		},
		{name: "email without host", channel: "email", wantErr: true},
		{name: "unknown channel", channel: "sms", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Direct(&tt.cfg, tt.channel, log)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}
