// Package repository — координатор хранилища записей. Все циклы
// «прочитать → изменить → сохранить» в процессе проходят через один мьютекс,
// поэтому запросы админки и ежедневная проверка не перетирают записи друг друга.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/reynal240212/agora-finance/internal/models"
	"github.com/reynal240212/agora-finance/internal/storage"
)

// Repository читает и изменяет коллекции клиентов и подписок.
type Repository struct {
	mu    sync.Mutex
	store storage.RecordStore
}

// New создаёт Repository поверх выбранного бэкенда.
func New(store storage.RecordStore) *Repository {
	return &Repository{store: store}
}

// Users возвращает клиентов, которых удалось разобрать, в порядке хранения.
func (r *Repository) Users(ctx context.Context) ([]models.User, error) {
	users, _, err := r.ScanUsers(ctx)
	return users, err
}

// ScanUsers возвращает разобранных клиентов и список элементов, которые
// разобрать не удалось. Ошибка — только если коллекция не читается целиком.
func (r *Repository) ScanUsers(ctx context.Context) ([]models.User, []models.MalformedRecord, error) {
	const op = "repository.ScanUsers"
	users, bad, err := scan[models.User](ctx, r.store, storage.Users)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, bad, nil
}

// Subscriptions возвращает подписки, которые удалось разобрать, в порядке хранения.
func (r *Repository) Subscriptions(ctx context.Context) ([]models.Subscription, error) {
	subs, _, err := r.ScanSubscriptions(ctx)
	return subs, err
}

// ScanSubscriptions возвращает разобранные подписки и список элементов,
// которые разобрать не удалось.
func (r *Repository) ScanSubscriptions(ctx context.Context) ([]models.Subscription, []models.MalformedRecord, error) {
	const op = "repository.ScanSubscriptions"
	subs, bad, err := scan[models.Subscription](ctx, r.store, storage.Subscriptions)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, bad, nil
}

// FindUser ищет клиента по id линейным просмотром.
func (r *Repository) FindUser(ctx context.Context, id int) (models.User, error) {
	const op = "repository.FindUser"
	users, err := r.Users(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("%s: user %d: %w", op, id, models.ErrNotFound)
}

// UpdateUsers перечитывает клиентов, применяет fn и сохраняет результат.
// Ошибка fn отменяет запись. Если хоть один элемент не разбирается,
// коллекция не перезаписывается.
func (r *Repository) UpdateUsers(ctx context.Context, fn func([]models.User) ([]models.User, error)) error {
	const op = "repository.UpdateUsers"
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []models.User
	if err := load(ctx, r.store, storage.Users, &users); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	users, err := fn(users)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := save(ctx, r.store, storage.Users, users); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateSubscriptions перечитывает подписки, применяет fn и сохраняет результат.
func (r *Repository) UpdateSubscriptions(ctx context.Context, fn func([]models.Subscription) ([]models.Subscription, error)) error {
	const op = "repository.UpdateSubscriptions"
	r.mu.Lock()
	defer r.mu.Unlock()

	var subs []models.Subscription
	if err := load(ctx, r.store, storage.Subscriptions, &subs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	subs, err := fn(subs)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := save(ctx, r.store, storage.Subscriptions, subs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkNotified выставляет aviso_enviado у подписки sent.ID и сразу сохраняет,
// если в хранилище это всё ещё та же покупка (models.Subscription.SamePurchase).
// Если запись заменили после чтения, возвращает models.ErrStaleRecord и ничего не пишет.
// Неразбираемые элементы коллекции сохраняются как есть.
func (r *Repository) MarkNotified(ctx context.Context, sent models.Subscription) error {
	const op = "repository.MarkNotified"
	r.mu.Lock()
	defer r.mu.Unlock()

	raws, err := loadRaw(ctx, r.store, storage.Subscriptions)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i, raw := range raws {
		var sub models.Subscription
		if err := json.Unmarshal(raw, &sub); err != nil || sub.ID != sent.ID {
			continue
		}
		if !sub.SamePurchase(sent) {
			return fmt.Errorf("%s: subscription %d: %w", op, sent.ID, models.ErrStaleRecord)
		}
		sub.Notified = true
		updated, err := json.Marshal(sub)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		raws[i] = updated
		if err := save(ctx, r.store, storage.Subscriptions, raws); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
	return fmt.Errorf("%s: subscription %d: %w", op, sent.ID, models.ErrNotFound)
}

// Ping проверяет, что обе коллекции читаются как JSON-массивы.
func (r *Repository) Ping(ctx context.Context) error {
	const op = "repository.Ping"
	if _, err := r.Users(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := r.Subscriptions(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func loadRaw(ctx context.Context, store storage.RecordStore, collection string) ([]json.RawMessage, error) {
	data, err := store.Load(ctx, collection)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return raws, nil
}

// scan разбирает элементы по одному: испорченная запись не мешает остальным.
func scan[T any](ctx context.Context, store storage.RecordStore, collection string) ([]T, []models.MalformedRecord, error) {
	raws, err := loadRaw(ctx, store, collection)
	if err != nil {
		return nil, nil, err
	}
	records := make([]T, 0, len(raws))
	var bad []models.MalformedRecord
	for i, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			bad = append(bad, models.MalformedRecord{Index: i, Err: fmt.Errorf("decode %s[%d]: %w", collection, i, err)})
			continue
		}
		records = append(records, rec)
	}
	return records, bad, nil
}

func load(ctx context.Context, store storage.RecordStore, collection string, dst any) error {
	data, err := store.Load(ctx, collection)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

func save[T any](ctx context.Context, store storage.RecordStore, collection string, records []T) error {
	if records == nil {
		records = []T{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	if err := store.Save(ctx, collection, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", models.ErrPersistence, err)
	}
	return nil
}
