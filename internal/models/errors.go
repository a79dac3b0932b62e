package models

import (
	"errors"

	"github.com/reynal240212/agora-finance/internal/lib/dates"
)

var (
	// ErrNotFound — клиент или подписка с таким id отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrMalformedDate — сохранённую дату не удалось разобрать.
	ErrMalformedDate = dates.ErrMalformed
	// ErrPersistence — запись в хранилище не удалась, изменение не сохранено.
	ErrPersistence = errors.New("persistence failure")
	// ErrDispatch — уведомление не доставлено.
	ErrDispatch = errors.New("dispatch failure")
	// ErrEmailTaken — e-mail уже принадлежит другому клиенту.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials — неверный e-mail или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInput — входные данные нарушают ограничения (например, отрицательный срок).
	ErrInvalidInput = errors.New("invalid input")
	// ErrInactiveUser — учётная запись отключена или срок её активации истёк.
	ErrInactiveUser = errors.New("user is inactive or expired")
	// ErrStaleRecord — запись изменилась с момента чтения.
	ErrStaleRecord = errors.New("record changed since it was read")
)

// MalformedRecord — элемент коллекции, который не удалось разобрать.
type MalformedRecord struct {
	Index int
	Err   error
}
