package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is one entry in a user's recent-message feed. Append-only from
// the dashboard's perspective; the feed displays the latest rows by sent_at.
type Message struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	SenderName  string    `json:"sender_name"`
	Content     string    `json:"content"`
	IsOutgoing  bool      `json:"is_outgoing"`
	IsAutoReply bool      `json:"is_auto_reply"`
	SentAt      time.Time `json:"sent_at"`
}

func (m Message) EntityID() uuid.UUID { return m.ID }
