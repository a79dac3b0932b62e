// Package models содержит доменные структуры клиента и купленной подписки.
// JSON-теги совпадают с именами полей в файлах хранилища.
package models

import "strings"

// UserStatus — сохранённый флаг активности учётной записи.
type UserStatus string

const (
	// StatusActive — учётная запись активна.
	StatusActive UserStatus = "Activo"
	// StatusInactive — учётная запись отключена.
	StatusInactive UserStatus = "Inactivo"
)

// Каналы, по которым клиенту отправляются уведомления.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
)

// User представляет клиента реселлера.
type User struct {
	ID           int        `json:"id"`
	Name         string     `json:"nombre"`
	Surname      string     `json:"apellidos"`
	Nationality  string     `json:"nacionalidad"`
	IDDocument   string     `json:"cedula"`
	Gender       string     `json:"genero"`
	Phone        string     `json:"numero"`
	Address      string     `json:"direccion"`
	Email        string     `json:"correo"`
	Password     string     `json:"password"`
	Status       UserStatus `json:"estado"`
	ActivatedAt  *string    `json:"fecha_activacion"` // nil — активация сброшена
	DurationDays int        `json:"duracion_dias"`    // 0 — бессрочно
}

// FullName возвращает имя и фамилию через пробел.
func (u User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}

// Contact возвращает адрес клиента для указанного канала или пустую строку.
func (u User) Contact(channel string) string {
	switch channel {
	case ChannelEmail:
		return strings.TrimSpace(u.Email)
	case ChannelWhatsApp:
		return strings.TrimSpace(u.Phone)
	default:
		return ""
	}
}

// SameEmail сравнивает e-mail без учёта регистра и пробелов по краям.
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// UserInput используется для приёма данных клиента из JSON-запроса.
type UserInput struct {
	Name        string `json:"nombre" validate:"required"`
	Surname     string `json:"apellidos" validate:"required"`
	Nationality string `json:"nacionalidad"`
	IDDocument  string `json:"cedula" validate:"required"`
	Gender      string `json:"genero"`
	Phone       string `json:"numero"`
	Address     string `json:"direccion"`
	Email       string `json:"correo" validate:"required,email"`
	Password    string `json:"password,omitempty"`
}
