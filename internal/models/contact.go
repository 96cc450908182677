package models

import (
	"time"

	"github.com/google/uuid"
)

// RestrictedContact is a user-created deny-list entry. Fully user-managed,
// never seeded.
type RestrictedContact struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	ContactName string    `json:"contact_name"`
}

func (c RestrictedContact) EntityID() uuid.UUID { return c.ID }

// TrustedContact is an allow-list entry that may receive high-stress alerts.
// ContactEmail is optional and stored encrypted at rest when an encryption
// key is configured.
type TrustedContact struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	ContactName  string    `json:"contact_name"`
	ContactEmail string    `json:"contact_email,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	AlertEnabled bool      `json:"alert_enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c TrustedContact) EntityID() uuid.UUID { return c.ID }
