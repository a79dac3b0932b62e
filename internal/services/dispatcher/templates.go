package services

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/reynal240212/agora-finance/internal/lib/dates"
	"github.com/reynal240212/agora-finance/internal/models"
)

// MessageData — данные для шаблонов сообщений клиенту.
type MessageData struct {
	Name            string
	Platform        string
	AccountEmail    string
	AccountPassword string
	ProfilePIN      string
	Expiration      time.Time
	Permanent       bool
	DaysLeft        int
}

// NewMessageData собирает данные сообщения из клиента и его подписки.
func NewMessageData(u models.User, sub models.Subscription, expiration time.Time) MessageData {
	return MessageData{
		Name:            u.Name,
		Platform:        sub.Platform,
		AccountEmail:    sub.AccountEmail,
		AccountPassword: sub.AccountPassword,
		ProfilePIN:      sub.ProfilePIN,
		Expiration:      expiration,
		Permanent:       sub.DurationDays == 0,
	}
}

var funcs = template.FuncMap{
	"fecha": dates.FormatLong,
	"pin": func(pin string) string {
		if strings.TrimSpace(pin) == "" {
			return models.DefaultProfilePIN
		}
		return pin
	},
}

var reminderTmpl = template.Must(template.New("reminder").Funcs(funcs).Parse(
	`¡Hola {{.Name}}! 👋

Tu servicio de {{.Platform}} vence en {{.DaysLeft}} días, el {{fecha .Expiration}}.

Detalles de la cuenta:
CORREO: {{.AccountEmail}}
CONTRASEÑA: {{.AccountPassword}}
PERFIL/PIN: {{pin .ProfilePIN}}

⚠️ ¡Renueva hoy mismo para evitar la interrupción del servicio! ⚠️
FULL ENTRETENIMIENTO.`))

var welcomeTmpl = template.Must(template.New("welcome").Funcs(funcs).Parse(
	`🎉 ¡Bienvenido, *{{.Name}}*! 🎉
Hemos registrado tu compra de *{{.Platform}}*.

Tus datos de acceso son:
Correo: {{.AccountEmail}}
Contraseña: {{.AccountPassword}}
Perfil/PIN: {{pin .ProfilePIN}}

Tu suscripción expira el: *{{if .Permanent}}Permanente{{else}}{{fecha .Expiration}}{{end}}*.
¡Disfruta!`))

// Reminder формирует напоминание об окончании подписки.
func Reminder(d MessageData) (string, error) {
	return render(reminderTmpl, d)
}

// Welcome формирует приветствие после регистрации покупки.
func Welcome(d MessageData) (string, error) {
	return render(welcomeTmpl, d)
}

func render(t *template.Template, d MessageData) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, d); err != nil {
		return "", fmt.Errorf("dispatcher.render %s: %w", t.Name(), err)
	}
	return sb.String(), nil
}
