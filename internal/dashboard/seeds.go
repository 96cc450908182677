package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mindlink-backend/internal/models"
)

// Default payloads inserted once per user when a first load finds an
// empty slice. Payloads are deterministic in content and insertion order;
// timestamps are staggered so the display order (newest first) matches
// the insertion order.

func defaultConnections(userID uuid.UUID) []models.AppConnection {
	// Timestamps are staggered so created_at ordering reproduces the
	// provider display order; a single batched insert would otherwise
	// give all four rows the same created_at and the order would tie
	// arbitrarily.
	base := time.Now().UTC()
	conns := []models.AppConnection{
		{UserID: userID, Provider: models.ProviderWhatsApp, IsConnected: true, Features: []string{"Auto-reply", "Busy mode", "Tone analysis"}},
		{UserID: userID, Provider: models.ProviderInstagram, IsConnected: true, Features: []string{"Auto-reply", "Tone analysis"}},
		{UserID: userID, Provider: models.ProviderMessages, IsConnected: false, Features: []string{"Auto-reply", "Busy mode", "Tone analysis"}},
		{UserID: userID, Provider: models.ProviderTelegram, IsConnected: false, Features: []string{"Auto-reply", "Busy mode"}},
	}
	for i := range conns {
		conns[i].CreatedAt = base.Add(time.Duration(i) * time.Second)
	}
	return conns
}

func demoTrustedContacts(userID uuid.UUID) []models.TrustedContact {
	now := time.Now().UTC()
	return []models.TrustedContact{
		{UserID: userID, ContactName: "Sarah Miller", ContactEmail: "sarah@example.com", AlertEnabled: true, CreatedAt: now},
		{UserID: userID, ContactName: "James Lee", ContactEmail: "james@example.com", AlertEnabled: true, CreatedAt: now.Add(-5 * time.Minute)},
		{UserID: userID, ContactName: "Alex Chen", ContactEmail: "alex@example.com", AlertEnabled: true, CreatedAt: now.Add(-15 * time.Minute)},
	}
}

func demoMessages(userID uuid.UUID) []models.Message {
	now := time.Now().UTC()
	return []models.Message{
		{UserID: userID, SenderName: "Priya Patel", Content: "Hey, are you free to chat?", IsOutgoing: false, IsAutoReply: false, SentAt: now},
		{UserID: userID, SenderName: "You", Content: "I'm taking some time for myself right now. I'll get back to you soon!", IsOutgoing: true, IsAutoReply: true, SentAt: now.Add(-2 * time.Minute)},
		{UserID: userID, SenderName: "Maria Garcia", Content: "Can we discuss the project?", IsOutgoing: false, IsAutoReply: false, SentAt: now.Add(-10 * time.Minute)},
		{UserID: userID, SenderName: "You", Content: "I'm in focus mode at the moment. Will reply when available.", IsOutgoing: true, IsAutoReply: true, SentAt: now.Add(-12 * time.Minute)},
		{UserID: userID, SenderName: "David Kim", Content: "Just checking in!", IsOutgoing: false, IsAutoReply: false, SentAt: now.Add(-25 * time.Minute)},
	}
}
