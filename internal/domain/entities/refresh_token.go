package entities

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is an opaque long-lived credential for minting new access tokens
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsValid   bool      `json:"isValid"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the token is past its expiry
func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
