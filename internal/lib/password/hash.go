// Package password реализует функции для хеширования и проверки паролей.
//
// GetHash создает bcrypt-хеш пароля для хранения.
// Matches проверяет введённый пароль как против bcrypt-хеша, так и против
// старых записей, где пароль хранился открытым текстом.
package password

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе — ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsHashed сообщает, похоже ли сохранённое значение на хеш, а не на пароль
// открытым текстом. Записи, импортированные из старой системы, могут
// содержать хеши pbkdf2/scrypt — они тоже считаются хешами.
func IsHashed(stored string) bool {
	return strings.Contains(stored, "$") ||
		strings.HasPrefix(stored, "pbkdf2") ||
		strings.HasPrefix(stored, "scrypt")
}

// Matches проверяет пароль против сохранённого значения.
func Matches(stored, candidate string) bool {
	if stored == "" {
		return false
	}
	if IsHashed(stored) {
		return CompareHash(stored, candidate) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
