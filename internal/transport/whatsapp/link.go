// Package whatsapp доставляет сообщения клиентам в WhatsApp: ссылкой wa.me,
// которую администратор открывает вручную, или через HTTP API шлюза.
package whatsapp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const linkBase = "https://wa.me/"

var linkEncoder = strings.NewReplacer(" ", "%20", "\n", "%0A", "*", "")

// BuildLink формирует ссылку wa.me: пробелы → %20, переводы строк → %0A,
// звёздочки удаляются. Из номера остаются только цифры.
func BuildLink(number, message string) string {
	return linkBase + digits(number) + "?text=" + linkEncoder.Replace(message)
}

func digits(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LinkTransport «отправляет» сообщение, записывая ссылку wa.me в лог.
type LinkTransport struct {
	log *slog.Logger
}

// NewLinkTransport создает новый экземпляр LinkTransport.
func NewLinkTransport(log *slog.Logger) *LinkTransport {
	return &LinkTransport{log: log}
}

// Send записывает ссылку в лог. Номер без цифр — ошибка.
func (t *LinkTransport) Send(ctx context.Context, number, message string) error {
	const op = "whatsapp.LinkTransport.Send"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if digits(number) == "" {
		return fmt.Errorf("%s: invalid phone number %q", op, number)
	}
	t.log.Info("whatsapp link ready", slog.String("number", number), slog.String("link", BuildLink(number, message)))
	return nil
}
