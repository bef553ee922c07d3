package models

import "time"

// Account is a login identity stored in the users table.
type Account struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"-"`
	Roles          string    `json:"roles"`
	Enabled        bool      `json:"enabled"`
	ManufacturerID *int64    `json:"manufacturerId,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
