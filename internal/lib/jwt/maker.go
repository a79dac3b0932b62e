// Package jwt реализует генерацию и парсинг JWT токенов для сессии администратора.
//
// Claims расширяет стандартные claims JWT, добавляя e-mail и роль пользователя.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin — роль учётной записи администратора.
const RoleAdmin = "admin"

// RoleCustomer — роль обычного клиента.
const RoleCustomer = "customer"

// Claims описывает данные, хранящиеся в JWT.
type Claims struct {
	Email                string `json:"email"` // E-mail (correo) пользователя
	Role                 string `json:"role"`  // Роль пользователя
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// Maker создаёт и проверяет токены, подписанные секретным ключом.
type Maker struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт Maker с ключом и временем жизни токена.
func NewJWTMaker(secretKey string, tokenTTL time.Duration) *Maker {
	return &Maker{secretKey: secretKey, tokenTTL: tokenTTL}
}

// GenerateToken создаёт JWT токен с заданными email и role.
//
// Время жизни токена определяется полем tokenTTL.
func (j *Maker) GenerateToken(email, role string) (string, error) {
	const op = "jwt.GenerateToken"
	if j.secretKey == "" {
		return "", fmt.Errorf("%s: empty secret key", op)
	}
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken парсит JWT токен, проверяет его подпись и срок действия,
// возвращает Claims, если токен корректен.
func (j *Maker) ParseToken(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
