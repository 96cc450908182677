package services

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mindlink-backend/internal/database"
)

// GetUsernameByID retrieves username by user ID (for anonymous display)
func GetUsernameByID(userID string) (string, error) {
	parsedID, err := uuid.Parse(userID)
	if err != nil {
		return "", err
	}

	var username string
	err = database.PostgresDB.QueryRow(`
		SELECT username FROM users WHERE id = $1 AND is_active = TRUE
	`, parsedID).Scan(&username)

	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil // User not found or inactive
		}
		return "", err
	}

	return username, nil
}

// GetUserIDByUsername retrieves user ID by username
func GetUserIDByUsername(username string) (string, error) {
	var userID uuid.UUID
	err := database.PostgresDB.QueryRow(`
		SELECT id FROM users WHERE LOWER(username) = $1 AND is_active = TRUE
	`, username).Scan(&userID)

	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}

	return userID.String(), nil
}

// GetIPAddress extracts the client IP for rate limiting and analytics.
func GetIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header (for proxies/load balancers)
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr, stripping the port if present
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
