// Package storage описывает минимальный контракт хранилища записей:
// коллекция целиком читается и целиком атомарно перезаписывается.
// Реализации: JSON-файлы, PostgreSQL (jsonb) и Redis.
package storage

import "context"

// Имена коллекций.
const (
	Users         = "users"
	Subscriptions = "subscriptions"
)

// EmptyCollection — содержимое коллекции, которой ещё нет в хранилище.
var EmptyCollection = []byte("[]")

// RecordStore хранит коллекции как JSON-массивы плоских записей.
type RecordStore interface {
	// Load возвращает JSON-массив коллекции; отсутствующая коллекция — EmptyCollection.
	Load(ctx context.Context, collection string) ([]byte, error)
	// Save атомарно заменяет коллекцию целиком.
	Save(ctx context.Context, collection string, data []byte) error
}
