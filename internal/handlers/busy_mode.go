package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/AnshRaj112/mindlink-backend/internal/dashboard"
	"github.com/AnshRaj112/mindlink-backend/internal/services"
)

// Busy Mode Update Request
type BusyModeUpdateRequest struct {
	Enabled           *bool   `json:"enabled,omitempty"`
	AutoReplyTemplate *string `json:"auto_reply_template,omitempty"`
}

// GetBusyMode returns the user's busy-mode setting, falling back to
// defaults when the user has never saved one.
func GetBusyMode(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	d := Dashboards.For(userID)
	if err := dashboard.Ensure(r.Context(), d.Busy); err != nil {
		http.Error(w, "Failed to load busy mode", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"setting": d.BusySetting(),
	})
}

// UpdateBusyMode toggles busy mode or changes the auto-reply template
func UpdateBusyMode(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req BusyModeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Enabled == nil && req.AutoReplyTemplate == nil {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	d := Dashboards.For(userID)
	if err := dashboard.Ensure(r.Context(), d.Busy); err != nil {
		http.Error(w, "Failed to load busy mode", http.StatusInternalServerError)
		return
	}

	setting := d.BusySetting()
	var err error
	if req.Enabled != nil {
		setting, err = d.SetBusyEnabled(r.Context(), *req.Enabled)
		if err != nil {
			http.Error(w, "Failed to update busy mode", http.StatusInternalServerError)
			return
		}
	}
	if req.AutoReplyTemplate != nil {
		setting, err = d.SetAutoReplyTemplate(r.Context(), *req.AutoReplyTemplate)
		if err != nil {
			http.Error(w, "Failed to update auto-reply template", http.StatusInternalServerError)
			return
		}
	}

	if err := services.PublishDashboardEvent(r.Context(), services.DashboardEvent{
		Type:      services.EventBusyMode,
		UserID:    userID.String(),
		Data:      map[string]any{"enabled": setting.Enabled},
		Timestamp: time.Now(),
	}); err != nil {
		log.Printf("Failed to publish busy mode event: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Busy mode updated",
		"setting": setting,
	})
}
