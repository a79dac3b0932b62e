package models

// Subscription — купленная клиентом подписка на стриминговый сервис.
// На одного клиента хранится одна текущая запись.
type Subscription struct {
	ID              int    `json:"id"`
	UserID          int    `json:"usuario_id"`
	Platform        string `json:"plataforma"`
	PurchaseDate    string `json:"fecha_compra"`      // 2006-01-02
	DurationDays    int    `json:"duracion_dias"`     // 0 — бессрочно
	ExpirationDate  string `json:"fecha_vencimiento"` // fecha_compra + duracion_dias
	AccountEmail    string `json:"correo_cuenta"`
	AccountPassword string `json:"contrasena_cuenta"`
	ProfilePIN      string `json:"perfil_pin"`
	Notified        bool   `json:"aviso_enviado"`
}

// SamePurchase сообщает, описывают ли две записи одну и ту же покупку.
// Флаг aviso_enviado и учётные данные не сравниваются.
func (s Subscription) SamePurchase(other Subscription) bool {
	return s.ID == other.ID &&
		s.UserID == other.UserID &&
		s.Platform == other.Platform &&
		s.PurchaseDate == other.PurchaseDate &&
		s.DurationDays == other.DurationDays &&
		s.ExpirationDate == other.ExpirationDate
}

// DefaultProfilePIN подставляется, если профиль/PIN не указан.
const DefaultProfilePIN = "N/A"

// SubscriptionInput используется для приёма данных покупки из JSON-запроса.
type SubscriptionInput struct {
	Platform        string `json:"plataforma" validate:"required"`
	PurchaseDate    string `json:"fecha_compra" validate:"required"`
	DurationDays    int    `json:"duracion_dias" validate:"gte=0"`
	AccountEmail    string `json:"correo_cuenta" validate:"required"`
	AccountPassword string `json:"contrasena_cuenta" validate:"required"`
	ProfilePIN      string `json:"perfil_pin"`
}
