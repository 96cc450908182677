package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AnshRaj112/mindlink-backend/internal/services"
)

var dashboardUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// dashboardClientMessage represents messages coming from the frontend over
// the feed socket. The feed is push-only; clients only send pings.
type dashboardClientMessage struct {
	Type string `json:"type"` // "ping"
}

// DashboardFeed streams widget change events to the frontend over
// WebSocket. Authentication is done via the existing session token
// (Authorization: Bearer <token>, or ?token= for browser clients).
func DashboardFeed(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing session token", http.StatusUnauthorized)
			return
		}
	}

	userID, ok, err := services.ValidateSession(token)
	if err != nil || !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	conn, err := dashboardUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Subscribe to local events for this user (fed by Redis subscriber)
	eventsCh, unsubscribe := services.SubscribeDashboardFeed(userID)
	defer unsubscribe()

	// Writer goroutine: forward events from hub to this WebSocket connection
	go func() {
		for evt := range eventsCh {
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		}
	}()

	conn.SetReadLimit(4 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg dashboardClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		if msg.Type == "ping" {
			_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
			_ = conn.WriteJSON(map[string]string{"type": "pong"})
		}
	}
}
