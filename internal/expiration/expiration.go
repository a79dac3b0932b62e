// Package expiration вычисляет состояние подписок и учётных записей по датам.
//
// Два правила независимы: срок подписки на сервис считается от даты покупки
// в календарных днях, окно активности клиента — от момента активации.
package expiration

import (
	"fmt"
	"time"

	"github.com/reynal240212/agora-finance/internal/lib/dates"
	"github.com/reynal240212/agora-finance/internal/models"
)

// ExpiringSoonDays — сколько дней до окончания подписка считается «скоро истекает».
const ExpiringSoonDays = 5

// Kind — вычисленное состояние подписки.
type Kind string

const (
	Active       Kind = "active"
	ExpiringSoon Kind = "expiring_soon"
	Expired      Kind = "expired"
	DateError    Kind = "date_error"
)

// Status — результат вычисления для одной подписки.
type Status struct {
	Kind       Kind
	DaysLeft   int       // не определено для Permanent и DateError
	Expiration time.Time // нулевое значение для DateError
	Permanent  bool
	Err        error // заполнено только для DateError
}

// Label возвращает подпись состояния для админки.
func (s Status) Label() string {
	switch s.Kind {
	case Expired:
		return "VENCIDO"
	case ExpiringSoon:
		return fmt.Sprintf("Por vencer en %d días", s.DaysLeft)
	case DateError:
		return "Error de fecha"
	default:
		return "Activo"
	}
}

// Calculator считает сроки в часовом поясе магазина.
type Calculator struct {
	loc *time.Location
}

// NewCalculator создаёт Calculator. nil означает UTC.
func NewCalculator(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{loc: loc}
}

// Location возвращает часовой пояс, в котором считаются календарные дни.
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// ExpirationDate возвращает fecha_compra + duracion_dias.
func (c *Calculator) ExpirationDate(purchaseDate string, durationDays int) (time.Time, error) {
	const op = "expiration.ExpirationDate"
	purchased, err := dates.Parse(purchaseDate, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return dates.AddDays(dates.Day(purchased, c.loc), durationDays), nil
}

// Subscription вычисляет состояние подписки на момент now.
func (c *Calculator) Subscription(purchaseDate string, durationDays int, now time.Time) Status {
	if durationDays == 0 {
		return Status{Kind: Active, Permanent: true}
	}
	expires, err := c.ExpirationDate(purchaseDate, durationDays)
	if err != nil {
		return Status{Kind: DateError, Err: err}
	}
	return c.status(expires, now)
}

// RecordExpiration возвращает дату окончания сохранённой подписки:
// fecha_vencimiento, если она записана, иначе fecha_compra + duracion_dias.
// Этой датой пользуются и списки админки, и ежедневная проверка.
func (c *Calculator) RecordExpiration(sub models.Subscription) (time.Time, error) {
	const op = "expiration.RecordExpiration"
	if sub.ExpirationDate == "" {
		return c.ExpirationDate(sub.PurchaseDate, sub.DurationDays)
	}
	t, err := dates.Parse(sub.ExpirationDate, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return dates.Day(t, c.loc), nil
}

// Record вычисляет состояние сохранённой подписки на момент now.
func (c *Calculator) Record(sub models.Subscription, now time.Time) Status {
	if sub.DurationDays == 0 {
		return Status{Kind: Active, Permanent: true}
	}
	expires, err := c.RecordExpiration(sub)
	if err != nil {
		return Status{Kind: DateError, Err: err}
	}
	return c.status(expires, now)
}

func (c *Calculator) status(expires, now time.Time) Status {
	daysLeft := dates.DaysBetween(dates.Day(now, c.loc), expires)
	st := Status{DaysLeft: daysLeft, Expiration: expires}
	switch {
	case daysLeft < 0:
		st.Kind = Expired
	case daysLeft <= ExpiringSoonDays:
		st.Kind = ExpiringSoon
	default:
		st.Kind = Active
	}
	return st
}

// UserState — вычисленное состояние учётной записи клиента.
type UserState struct {
	Status    models.UserStatus
	ExpiresAt *time.Time // nil для бессрочной активации и ошибки даты
	Permanent bool
	Err       error // дату активации не удалось разобрать
}

// ExpirationLabel возвращает подпись срока активации для админки.
func (s UserState) ExpirationLabel() string {
	switch {
	case s.Err != nil:
		return "Error de fecha"
	case s.Permanent || s.ExpiresAt == nil:
		return "Permanente"
	default:
		return dates.FormatDate(*s.ExpiresAt)
	}
}

// User вычисляет состояние клиента: Inactivo, если так сохранено, или если
// duracion_dias > 0 и now позже fecha_activacion + duracion_dias.
// Неразбираемая дата активации оставляет сохранённый флаг и возвращается в Err.
func (c *Calculator) User(u models.User, now time.Time) UserState {
	if u.Status == models.StatusInactive {
		return UserState{Status: models.StatusInactive, Permanent: u.DurationDays == 0}
	}
	stored := u.Status
	if stored == "" {
		stored = models.StatusInactive
	}
	if u.ActivatedAt == nil || *u.ActivatedAt == "" || u.DurationDays <= 0 {
		return UserState{Status: stored, Permanent: true}
	}

	activated, err := dates.Parse(*u.ActivatedAt, c.loc)
	if err != nil {
		return UserState{Status: stored, Err: fmt.Errorf("expiration.User: %w", err)}
	}
	expires := dates.AddDays(activated, u.DurationDays)
	if now.After(expires) {
		return UserState{Status: models.StatusInactive, ExpiresAt: &expires}
	}
	return UserState{Status: stored, ExpiresAt: &expires}
}
