package models

import "time"

// Notification — сообщение, поставленное в очередь для cmd/sender.
type Notification struct {
	Channel     string    `json:"channel"`
	Destination string    `json:"destination"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}
