package models

import "time"

// Template is a message body with {placeholder} tokens, channel-agnostic.
// Read-only from the engine's perspective.
type Template struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
