// Package services содержит операции админки: клиенты, их активация,
// регистрация покупок, списки и вход.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/reynal240212/agora-finance/internal/expiration"
	"github.com/reynal240212/agora-finance/internal/lib/dates"
	"github.com/reynal240212/agora-finance/internal/lib/password"
	"github.com/reynal240212/agora-finance/internal/lib/sl"
	"github.com/reynal240212/agora-finance/internal/models"
	dispatcher "github.com/reynal240212/agora-finance/internal/services/dispatcher"
)

// DefaultPassword назначается клиенту, если пароль не передан.
const DefaultPassword = "12345"

// Repository определяет методы хранилища, которые нужны админке.
type Repository interface {
	// Users возвращает всех клиентов.
	Users(ctx context.Context) ([]models.User, error)
	// Subscriptions возвращает все подписки.
	Subscriptions(ctx context.Context) ([]models.Subscription, error)
	// ScanSubscriptions возвращает разобранные подписки и неразобранные элементы.
	ScanSubscriptions(ctx context.Context) ([]models.Subscription, []models.MalformedRecord, error)
	// FindUser возвращает клиента по id или models.ErrNotFound.
	FindUser(ctx context.Context, id int) (models.User, error)
	// UpdateUsers выполняет «прочитать → изменить → сохранить» над клиентами.
	UpdateUsers(ctx context.Context, fn func([]models.User) ([]models.User, error)) error
	// UpdateSubscriptions выполняет «прочитать → изменить → сохранить» над подписками.
	UpdateSubscriptions(ctx context.Context, fn func([]models.Subscription) ([]models.Subscription, error)) error
}

// Notifier отправляет приветствие после регистрации покупки.
type Notifier interface {
	SendWelcome(ctx context.Context, destination string, data dispatcher.MessageData) bool
}

// AdminService реализует операции админки.
type AdminService struct {
	repo     Repository
	notifier Notifier
	calc     *expiration.Calculator
	channel  string
	now      func() time.Time
	log      *slog.Logger
}

// NewAdminService создает новый экземпляр AdminService. channel — канал,
// по которому отправляется приветствие (whatsapp|email).
func NewAdminService(repo Repository, notifier Notifier, calc *expiration.Calculator, channel string, log *slog.Logger) *AdminService {
	return &AdminService{
		repo:     repo,
		notifier: notifier,
		calc:     calc,
		channel:  channel,
		now:      time.Now,
		log:      log,
	}
}

func (s *AdminService) nowString() string {
	return dates.FormatDateTime(s.now().In(s.calc.Location()))
}

// CreateUser добавляет клиента: id = max+1, статус Activo, бессрочная активация.
func (s *AdminService) CreateUser(ctx context.Context, in models.UserInput) (models.User, error) {
	const op = "admin.CreateUser"

	pass := in.Password
	if pass == "" {
		pass = DefaultPassword
	}
	hash, err := password.GetHash(pass)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	activated := s.nowString()
	var created models.User
	err = s.repo.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		maxID := 0
		for _, u := range users {
			if models.SameEmail(u.Email, in.Email) {
				return nil, fmt.Errorf("%q: %w", in.Email, models.ErrEmailTaken)
			}
			if u.ID > maxID {
				maxID = u.ID
			}
		}
		created = models.User{
			ID:           maxID + 1,
			Status:       models.StatusActive,
			Password:     hash,
			ActivatedAt:  &activated,
			DurationDays: 0,
		}
		applyProfile(&created, in)
		return append(users, created), nil
	})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user created", slog.String("op", op), slog.Int("user_id", created.ID))
	return created, nil
}

// EditUser обновляет профиль клиента. Пароль, статус и даты не меняются.
func (s *AdminService) EditUser(ctx context.Context, id int, in models.UserInput) (models.User, error) {
	const op = "admin.EditUser"

	var updated models.User
	err := s.repo.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		idx := -1
		for i, u := range users {
			if u.ID == id {
				if idx < 0 {
					idx = i
				}
				continue
			}
			if models.SameEmail(u.Email, in.Email) {
				return nil, fmt.Errorf("%q: %w", in.Email, models.ErrEmailTaken)
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
		}
		applyProfile(&users[idx], in)
		updated = users[idx]
		return users, nil
	})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user updated", slog.String("op", op), slog.Int("user_id", id))
	return updated, nil
}

func applyProfile(u *models.User, in models.UserInput) {
	u.Name = strings.TrimSpace(in.Name)
	u.Surname = strings.TrimSpace(in.Surname)
	u.Nationality = strings.TrimSpace(in.Nationality)
	u.IDDocument = strings.TrimSpace(in.IDDocument)
	u.Gender = strings.TrimSpace(in.Gender)
	u.Phone = strings.TrimSpace(in.Phone)
	u.Address = strings.TrimSpace(in.Address)
	u.Email = strings.TrimSpace(in.Email)
}

// Activate включает клиента на days дней с текущего момента; 0 — бессрочно.
func (s *AdminService) Activate(ctx context.Context, id, days int) (models.User, error) {
	const op = "admin.Activate"
	if days < 0 {
		return models.User{}, fmt.Errorf("%s: duration %d: %w", op, days, models.ErrInvalidInput)
	}
	activated := s.nowString()
	u, err := s.mutateUser(ctx, id, func(u *models.User) {
		u.Status = models.StatusActive
		u.ActivatedAt = &activated
		u.DurationDays = days
	})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user activated", slog.String("op", op), slog.Int("user_id", id), slog.Int("days", days))
	return u, nil
}

// Deactivate отключает клиента и сбрасывает активацию.
func (s *AdminService) Deactivate(ctx context.Context, id int) (models.User, error) {
	const op = "admin.Deactivate"
	u, err := s.mutateUser(ctx, id, func(u *models.User) {
		u.Status = models.StatusInactive
		u.ActivatedAt = nil
		u.DurationDays = 0
	})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user deactivated", slog.String("op", op), slog.Int("user_id", id))
	return u, nil
}

func (s *AdminService) mutateUser(ctx context.Context, id int, fn func(*models.User)) (models.User, error) {
	var out models.User
	err := s.repo.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID == id {
				fn(&users[i])
				out = users[i]
				return users, nil
			}
		}
		return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	})
	return out, err
}

// RegisterResult — итог регистрации покупки.
type RegisterResult struct {
	Subscription models.Subscription `json:"compra"`
	Updated      bool                `json:"actualizada"`
	WelcomeSent  bool                `json:"bienvenida_enviada"`
}

// RegisterSubscription сохраняет покупку клиента: перезаписывает его текущую
// подписку (id сохраняется) или добавляет новую с id = max+1, затем
// синхронно отправляет приветствие. Неудачная отправка не отменяет запись.
func (s *AdminService) RegisterSubscription(ctx context.Context, userID int, in models.SubscriptionInput) (RegisterResult, error) {
	const op = "admin.RegisterSubscription"
	log := s.log.With(slog.String("op", op), slog.Int("user_id", userID))

	if in.DurationDays < 0 {
		return RegisterResult{}, fmt.Errorf("%s: duration %d: %w", op, in.DurationDays, models.ErrInvalidInput)
	}
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("%s: %w", op, err)
	}
	expires, err := s.calc.ExpirationDate(in.PurchaseDate, in.DurationDays)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("%s: %w", op, err)
	}
	purchased, _ := dates.Parse(in.PurchaseDate, s.calc.Location())

	pin := strings.TrimSpace(in.ProfilePIN)
	if pin == "" {
		pin = models.DefaultProfilePIN
	}
	record := models.Subscription{
		UserID:          userID,
		Platform:        strings.TrimSpace(in.Platform),
		PurchaseDate:    dates.FormatDate(purchased),
		DurationDays:    in.DurationDays,
		ExpirationDate:  dates.FormatDate(expires),
		AccountEmail:    strings.TrimSpace(in.AccountEmail),
		AccountPassword: in.AccountPassword,
		ProfilePIN:      pin,
		Notified:        false,
	}

	var res RegisterResult
	err = s.repo.UpdateSubscriptions(ctx, func(subs []models.Subscription) ([]models.Subscription, error) {
		maxID := 0
		for i := range subs {
			if subs[i].UserID == userID {
				record.ID = subs[i].ID
				subs[i] = record
				res.Updated = true
				return subs, nil
			}
			if subs[i].ID > maxID {
				maxID = subs[i].ID
			}
		}
		record.ID = maxID + 1
		return append(subs, record), nil
	})
	if err != nil {
		return RegisterResult{}, fmt.Errorf("%s: %w", op, err)
	}
	res.Subscription = record
	log.Info("subscription registered", slog.Int("subscription_id", record.ID), slog.Bool("updated", res.Updated))

	contact := user.Contact(s.channel)
	if contact == "" {
		log.Warn("welcome not sent: user has no contact", slog.String("channel", s.channel))
		return res, nil
	}
	res.WelcomeSent = s.notifier.SendWelcome(ctx, contact, dispatcher.NewMessageData(user, record, expires))
	if !res.WelcomeSent {
		log.Warn("welcome notification failed", sl.Err(models.ErrDispatch))
	}
	return res, nil
}

// Authenticate проверяет e-mail (без учёта регистра) и пароль: bcrypt-хеш
// или пароль, сохранённый открытым текстом. Неактивные клиенты не входят.
func (s *AdminService) Authenticate(ctx context.Context, email, pass string) (models.User, error) {
	const op = "admin.Authenticate"

	users, err := s.repo.Users(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	var found *models.User
	for i := range users {
		if models.SameEmail(users[i].Email, email) {
			found = &users[i]
			break
		}
	}
	if found == nil || !password.Matches(found.Password, strings.TrimSpace(pass)) {
		return models.User{}, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	state := s.calc.User(*found, s.now())
	if state.Err != nil {
		s.log.Warn("user activation date is malformed", slog.String("op", op), slog.Int("user_id", found.ID), sl.Err(state.Err))
	}
	if state.Status == models.StatusInactive {
		return models.User{}, fmt.Errorf("%s: %w", op, models.ErrInactiveUser)
	}
	return *found, nil
}
