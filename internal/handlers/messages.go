package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/AnshRaj112/mindlink-backend/internal/dashboard"
	"github.com/AnshRaj112/mindlink-backend/internal/services"
	"github.com/AnshRaj112/mindlink-backend/internal/statesync"
)

// Send Message Request
type SendMessageRequest struct {
	Content string `json:"content"`
}

// GetMessages returns the user's recent-message feed, newest first.
// A new user's first visit seeds the demo conversation.
func GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	d := Dashboards.For(userID)
	if err := dashboard.Ensure(r.Context(), d.Messages); err != nil {
		http.Error(w, "Failed to load messages", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"messages": d.Messages.Rows(),
	})
}

// SendMessage appends an outgoing message to the feed
func SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	d := Dashboards.For(userID)
	if err := dashboard.Ensure(r.Context(), d.Messages); err != nil {
		http.Error(w, "Failed to load messages", http.StatusInternalServerError)
		return
	}

	msg, err := d.AppendMessage(r.Context(), "You", req.Content, true, false)
	if err != nil {
		if _, ok := err.(*statesync.Error); ok {
			http.Error(w, "Failed to send message", http.StatusInternalServerError)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := services.PublishDashboardEvent(r.Context(), services.DashboardEvent{
		Type:      services.EventMessage,
		UserID:    userID.String(),
		Data:      map[string]any{"id": msg.ID.String(), "sender_name": msg.SenderName, "content": msg.Content},
		Timestamp: time.Now(),
	}); err != nil {
		log.Printf("Failed to publish message event: %v", err)
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Message sent",
		"data":    msg,
	})
}
