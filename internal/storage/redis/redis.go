// Package redis хранит коллекции записей в Redis: ключ <prefix>:<collection>,
// значение — JSON-массив. SET заменяет значение атомарно.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/reynal240212/agora-finance/internal/config"
	"github.com/reynal240212/agora-finance/internal/storage"
)

// Storage — хранилище коллекций поверх redis.Client.
type Storage struct {
	Db     *redis.Client
	prefix string
}

// New подключается к Redis и проверяет соединение.
func New(ctx context.Context, cfg config.RedisConnection) (*Storage, error) {
	const op = "storage.redis.New"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{Db: db, prefix: cfg.KeyPrefix}, nil
}

func (s *Storage) key(collection string) string {
	if s.prefix == "" {
		return collection
	}
	return s.prefix + ":" + collection
}

// Load читает коллекцию. Отсутствующий ключ — пустая коллекция.
func (s *Storage) Load(ctx context.Context, collection string) ([]byte, error) {
	const op = "storage.redis.Load"
	val, err := s.Db.Get(ctx, s.key(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return storage.EmptyCollection, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return val, nil
}

// Save записывает коллекцию без срока жизни.
func (s *Storage) Save(ctx context.Context, collection string, data []byte) error {
	const op = "storage.redis.Save"
	if err := s.Db.Set(ctx, s.key(collection), data, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает клиент.
func (s *Storage) Close() error {
	return s.Db.Close()
}
