package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/reynal240212/agora-finance/internal/expiration"
	"github.com/reynal240212/agora-finance/internal/lib/sl"
	"github.com/reynal240212/agora-finance/internal/models"
)

// FilterAll — фильтр списка клиентов, возвращающий всех.
const FilterAll = "mostrar_todo"

// DaysLeftDateError — значение dias_restantes для подписки с ошибкой даты.
const DaysLeftDateError = -999

// Подстановки для подписки, клиент которой не найден.
const (
	MissingOwnerName  = "Usuario Eliminado"
	MissingOwnerEmail = "N/A"
)

// UserRow — строка списка клиентов с вычисленным статусом. Пароль не выводится.
type UserRow struct {
	ID           int               `json:"id"`
	Name         string            `json:"nombre"`
	Surname      string            `json:"apellidos"`
	Nationality  string            `json:"nacionalidad"`
	IDDocument   string            `json:"cedula"`
	Gender       string            `json:"genero"`
	Phone        string            `json:"numero"`
	Address      string            `json:"direccion"`
	Email        string            `json:"correo"`
	StoredStatus models.UserStatus `json:"estado"`
	ActivatedAt  *string           `json:"fecha_activacion"`
	DurationDays int               `json:"duracion_dias"`
	Status       models.UserStatus `json:"estado_actual"`
	Expiration   string            `json:"expiracion_str"`
}

// SubscriptionRow — подписка с вычисленным состоянием.
type SubscriptionRow struct {
	models.Subscription
	Status   string          `json:"estado_actual"`
	Kind     expiration.Kind `json:"estado_codigo"`
	DaysLeft *int            `json:"dias_restantes,omitempty"`
}

// SubscriptionOverviewRow — строка общего списка подписок с владельцем.
type SubscriptionOverviewRow struct {
	SubscriptionRow
	OwnerName  string `json:"nombre_usuario"`
	OwnerEmail string `json:"correo_usuario"`
}

var userFields = map[string]func(models.User) string{
	"id":           func(u models.User) string { return strconv.Itoa(u.ID) },
	"nombre":       func(u models.User) string { return u.Name },
	"apellidos":    func(u models.User) string { return u.Surname },
	"nacionalidad": func(u models.User) string { return u.Nationality },
	"cedula":       func(u models.User) string { return u.IDDocument },
	"genero":       func(u models.User) string { return u.Gender },
	"numero":       func(u models.User) string { return u.Phone },
	"direccion":    func(u models.User) string { return u.Address },
	"correo":       func(u models.User) string { return u.Email },
	"estado":       func(u models.User) string { return string(u.Status) },
}

// ListUsers возвращает клиентов по фильтру: FilterAll — всех, иначе тех,
// у кого поле filter содержит value без учёта регистра. Без фильтра
// или значения список пуст.
func (s *AdminService) ListUsers(ctx context.Context, filter, value string) ([]UserRow, error) {
	const op = "admin.ListUsers"

	users, err := s.repo.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows := make([]UserRow, 0, len(users))
	if filter != FilterAll && (filter == "" || value == "") {
		return rows, nil
	}
	field := userFields[filter]
	needle := strings.ToLower(value)

	now := s.now()
	for _, u := range users {
		if filter != FilterAll {
			if field == nil || !strings.Contains(strings.ToLower(field(u)), needle) {
				continue
			}
		}
		rows = append(rows, s.describe(u, now))
	}
	return rows, nil
}

// Describe возвращает строку клиента с вычисленным статусом на текущий момент.
func (s *AdminService) Describe(u models.User) UserRow {
	return s.describe(u, s.now())
}

func (s *AdminService) describe(u models.User, now time.Time) UserRow {
	state := s.calc.User(u, now)
	return UserRow{
		ID:           u.ID,
		Name:         u.Name,
		Surname:      u.Surname,
		Nationality:  u.Nationality,
		IDDocument:   u.IDDocument,
		Gender:       u.Gender,
		Phone:        u.Phone,
		Address:      u.Address,
		Email:        u.Email,
		StoredStatus: u.Status,
		ActivatedAt:  u.ActivatedAt,
		DurationDays: u.DurationDays,
		Status:       state.Status,
		Expiration:   state.ExpirationLabel(),
	}
}

// ListUserSubscriptions возвращает подписки клиента с вычисленным состоянием.
func (s *AdminService) ListUserSubscriptions(ctx context.Context, userID int) ([]SubscriptionRow, error) {
	const op = "admin.ListUserSubscriptions"

	if _, err := s.repo.FindUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	subs, err := s.subscriptions(ctx, op)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	rows := make([]SubscriptionRow, 0, 1)
	for _, sub := range subs {
		if sub.UserID == userID {
			rows = append(rows, s.subscriptionRow(sub, now))
		}
	}
	return rows, nil
}

// ListAllSubscriptions возвращает все подписки с владельцем, отсортированные
// по fecha_vencimiento (пустая дата — в конце).
func (s *AdminService) ListAllSubscriptions(ctx context.Context) ([]SubscriptionOverviewRow, error) {
	const op = "admin.ListAllSubscriptions"

	subs, err := s.subscriptions(ctx, op)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	users, err := s.repo.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	byID := make(map[int]models.User, len(users))
	for _, u := range users {
		if _, seen := byID[u.ID]; !seen {
			byID[u.ID] = u
		}
	}

	now := s.now()
	rows := make([]SubscriptionOverviewRow, 0, len(subs))
	for _, sub := range subs {
		row := SubscriptionOverviewRow{
			SubscriptionRow: s.subscriptionRow(sub, now),
			OwnerName:       MissingOwnerName,
			OwnerEmail:      MissingOwnerEmail,
		}
		if u, ok := byID[sub.UserID]; ok {
			row.OwnerName = u.FullName()
			row.OwnerEmail = u.Email
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return sortKey(rows[i].ExpirationDate) < sortKey(rows[j].ExpirationDate)
	})
	return rows, nil
}

// subscriptions читает подписки; неразборчивые элементы пропускаются с записью в лог.
func (s *AdminService) subscriptions(ctx context.Context, op string) ([]models.Subscription, error) {
	subs, bad, err := s.repo.ScanSubscriptions(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range bad {
		s.log.Warn("malformed subscription record skipped",
			slog.String("op", op), slog.Int("index", b.Index), sl.Err(b.Err))
	}
	return subs, nil
}

func sortKey(expirationDate string) string {
	if expirationDate == "" {
		return "9999-12-31"
	}
	return expirationDate
}

func (s *AdminService) subscriptionRow(sub models.Subscription, now time.Time) SubscriptionRow {
	st := s.calc.Record(sub, now)
	row := SubscriptionRow{Subscription: sub, Status: st.Label(), Kind: st.Kind}
	switch {
	case st.Kind == expiration.DateError:
		d := DaysLeftDateError
		row.DaysLeft = &d
	case !st.Permanent:
		d := st.DaysLeft
		row.DaysLeft = &d
	}
	return row
}
