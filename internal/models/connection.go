package models

import (
	"time"

	"github.com/google/uuid"
)

// Known messaging providers. Provider is part of the natural key of an
// app_connections row; a user has exactly one row per provider.
const (
	ProviderWhatsApp  = "WhatsApp"
	ProviderInstagram = "Instagram"
	ProviderMessages  = "Messages"
	ProviderTelegram  = "Telegram"
)

// KnownProviders lists every provider the dashboard can link, in display order.
var KnownProviders = []string{ProviderWhatsApp, ProviderInstagram, ProviderMessages, ProviderTelegram}

// AppConnection is the linkage state of one messaging app for one user.
// Only the connection state is modeled here; the provider integrations
// themselves live elsewhere.
type AppConnection struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Provider    string    `json:"provider"`
	IsConnected bool      `json:"is_connected"`
	Features    []string  `json:"features"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c AppConnection) EntityID() uuid.UUID { return c.ID }
