package models

import (
	"github.com/google/uuid"
)

// DefaultAutoReplyTemplate is shown (and written on first save) when a user
// has no busy_mode_settings row yet.
const DefaultAutoReplyTemplate = "I'm taking some time for myself right now. I'll get back to you when I'm ready."

// BusyModeSetting is a user's single busy-mode row. At most one exists per
// user; until the first write the frontend works from client-side defaults.
type BusyModeSetting struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Enabled           bool      `json:"enabled"`
	AutoReplyTemplate string    `json:"auto_reply_template"`
}

func (s BusyModeSetting) EntityID() uuid.UUID { return s.ID }
