// Package postgresql хранит коллекции записей в PostgreSQL: одна строка
// таблицы record_collections на коллекцию, тело — jsonb-массив.
package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/reynal240212/agora-finance/internal/storage"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{DB: db}, nil
}

// CheckDatabaseReady проверяет, что миграции применены.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	const op = "storage.postgresql.CheckDatabaseReady"
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'record_collections'
    )`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: required table record_collections missing", op)
	}
	return nil
}

// Load возвращает тело коллекции.
func (s *Storage) Load(ctx context.Context, collection string) ([]byte, error) {
	const op = "storage.postgresql.Load"

	var body []byte
	err := s.DB.QueryRowContext(ctx,
		`SELECT body FROM record_collections WHERE name = $1`, collection).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.EmptyCollection, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return body, nil
}

// Save заменяет тело коллекции одним upsert-запросом.
func (s *Storage) Save(ctx context.Context, collection string, data []byte) error {
	const op = "storage.postgresql.Save"

	_, err := s.DB.ExecContext(ctx, `
        INSERT INTO record_collections (name, body, updated_at)
        VALUES ($1, $2::jsonb, now())
        ON CONFLICT (name) DO UPDATE
        SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		collection, string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}
