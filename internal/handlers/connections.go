package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AnshRaj112/mindlink-backend/internal/dashboard"
	"github.com/AnshRaj112/mindlink-backend/internal/services"
	"github.com/AnshRaj112/mindlink-backend/internal/statesync"
)

// GetConnections lists the user's messaging-app connections. The first
// call for a new user seeds the four known providers.
func GetConnections(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	d := Dashboards.For(userID)
	if err := dashboard.Ensure(r.Context(), d.Connections); err != nil {
		http.Error(w, "Failed to load connections", http.StatusInternalServerError)
		return
	}

	conns := d.Connections.Rows()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"connections":     conns,
		"connected_count": dashboard.ConnectedCount(conns),
		"total":           dashboard.ConnectionTotal(conns),
	})
}

// ToggleConnection flips a connection between connected and disconnected
func ToggleConnection(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	connID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid connection ID", http.StatusBadRequest)
		return
	}

	d := Dashboards.For(userID)
	if err := dashboard.Ensure(r.Context(), d.Connections); err != nil {
		http.Error(w, "Failed to load connections", http.StatusInternalServerError)
		return
	}

	conn, err := d.ToggleConnection(r.Context(), connID)
	if err == statesync.ErrRowNotFound {
		http.Error(w, "Connection not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, "Failed to update connection", http.StatusInternalServerError)
		return
	}

	if err := services.PublishDashboardEvent(r.Context(), services.DashboardEvent{
		Type:      services.EventConnection,
		UserID:    userID.String(),
		Data:      map[string]any{"provider": conn.Provider, "is_connected": conn.IsConnected},
		Timestamp: time.Now(),
	}); err != nil {
		log.Printf("Failed to publish connection event: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Connection updated",
		"connection": conn,
	})
}
