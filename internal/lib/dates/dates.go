// Package dates содержит разбор и форматирование дат, в которых хранятся
// записи: "2006-01-02" и "2006-01-02 15:04:05", без часового пояса.
package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// LayoutDate — формат даты покупки и даты окончания подписки.
	LayoutDate = "2006-01-02"
	// LayoutDateTime — формат даты активации пользователя.
	LayoutDateTime = "2006-01-02 15:04:05"
)

// ErrMalformed возвращается, если строку даты не удалось разобрать.
var ErrMalformed = errors.New("malformed date")

var monthsES = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Parse разбирает дату в любом из двух форматов хранилища в часовом поясе loc.
func Parse(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{LayoutDate, LayoutDateTime} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformed, value)
}

// Day отбрасывает время суток, оставляя календарную дату в поясе loc.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// AddDays прибавляет календарные дни, не завися от переходов на летнее время.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// DaysBetween возвращает разницу to − from в целых календарных днях.
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// FormatDate форматирует дату как "2006-01-02".
func FormatDate(t time.Time) string {
	return t.Format(LayoutDate)
}

// FormatDateTime форматирует момент как "2006-01-02 15:04:05".
func FormatDateTime(t time.Time) string {
	return t.Format(LayoutDateTime)
}

// FormatLong форматирует дату для сообщений клиенту: "31 de marzo del 2024".
func FormatLong(t time.Time) string {
	return fmt.Sprintf("%02d de %s del %d", t.Day(), monthsES[t.Month()-1], t.Year())
}
