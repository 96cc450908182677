package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mindlink-backend/internal/dashboard"
	"github.com/AnshRaj112/mindlink-backend/internal/services"
	"github.com/AnshRaj112/mindlink-backend/internal/store"
)

// Dashboards hands out the per-user synchronized dashboard state. Set
// once from main (and from tests) via InitDashboards.
var Dashboards *dashboard.Registry

// InitDashboards wires the handlers to a store client.
func InitDashboards(client store.Client) {
	Dashboards = dashboard.NewRegistry(client)
}

// ErrorResponse is the generic failure body.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}

// extractBearerToken pulls the token out of "Authorization: Bearer <token>".
func extractBearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// requireSession authenticates the request and returns the user ID.
// Writes a 401 and returns false when there is no valid session.
func requireSession(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	userID, ok, err := services.ValidateSession(token)
	if err != nil || !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return uuid.Nil, "", false
	}
	return userID, token, true
}
