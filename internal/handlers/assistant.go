package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AnshRaj112/mindlink-backend/internal/services"
)

// Analyze Message Request
type AnalyzeMessageRequest struct {
	Input string `json:"input"`
}

// AnalyzeMessage runs the clarity analysis on a message draft and stores
// the exchange in the user's assistant history.
func AnalyzeMessage(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req AnalyzeMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Input = strings.TrimSpace(req.Input)
	if req.Input == "" {
		http.Error(w, "Message input is required", http.StatusBadRequest)
		return
	}
	if len(req.Input) > 5000 {
		http.Error(w, "Message is too long (max 5000 characters)", http.StatusBadRequest)
		return
	}

	result := services.AnalyzeMessage(req.Input)

	services.SaveAssistantMessageAsync(services.AssistantMessage{
		UserID:    userID.String(),
		Input:     req.Input,
		Result:    result,
		Timestamp: time.Now().UTC(),
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// GetAssistantHistory returns the user's paginated analysis history
func GetAssistantHistory(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	var before *time.Time
	if raw := r.URL.Query().Get("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "Invalid before timestamp", http.StatusBadRequest)
			return
		}
		before = &t
	}

	limit := int64(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			limit = n
		}
	}

	msgs, hasMore, err := services.LoadAssistantHistory(r.Context(), userID.String(), before, limit)
	if err != nil {
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []services.AssistantMessage{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"messages": msgs,
		"has_more": hasMore,
	})
}
