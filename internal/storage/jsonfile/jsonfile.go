// Package jsonfile хранит каждую коллекцию в отдельном JSON-файле.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reynal240212/agora-finance/internal/storage"
)

// Storage сопоставляет имя коллекции с путём к файлу.
type Storage struct {
	paths map[string]string
}

// New создаёт файловое хранилище для коллекций users и subscriptions.
func New(usersFile, subscriptionsFile string) *Storage {
	return &Storage{paths: map[string]string{
		storage.Users:         usersFile,
		storage.Subscriptions: subscriptionsFile,
	}}
}

func (s *Storage) path(collection string) (string, error) {
	p, ok := s.paths[collection]
	if !ok || p == "" {
		return "", fmt.Errorf("unknown collection %q", collection)
	}
	return p, nil
}

// Load читает файл коллекции. Отсутствующий файл — пустая коллекция.
func (s *Storage) Load(ctx context.Context, collection string) ([]byte, error) {
	const op = "jsonfile.Load"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p, err := s.path(collection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return storage.EmptyCollection, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

// Save пишет коллекцию во временный файл рядом с целевым и переименовывает его,
// так что читатель видит либо старое, либо новое содержимое целиком.
func (s *Storage) Save(ctx context.Context, collection string, data []byte) error {
	const op = "jsonfile.Save"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p, err := s.path(collection)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(p)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
