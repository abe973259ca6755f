package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a ledger entry: one account balance per registered user.
// The balance is only ever mutated by the transfer engine or an
// explicit credit; it is never clamped — the engine refuses transfers
// that would drive it below zero.
type User struct {
	ID           int64           `json:"id"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"` // Argon2id encoded hash, never exposed
	Name         string          `json:"name"`
	PhoneNumber  string          `json:"phone_number"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
