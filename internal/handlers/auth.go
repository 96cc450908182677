package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mindlink-backend/internal/database"
	"github.com/AnshRaj112/mindlink-backend/internal/services"
	"github.com/AnshRaj112/mindlink-backend/pkg/utils"
)

// Signup Request
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signin Request
type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Auth Response
type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	User    map[string]interface{} `json:"user,omitempty"`
	Token   string                 `json:"token,omitempty"`
}

// Signup handles user registration
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Username = utils.NormalizeUsername(req.Username)
	if err := utils.ValidateUsername(req.Username); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		http.Error(w, "Password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	// Check if username is taken
	var existing string
	err := database.PostgresDB.QueryRow("SELECT username FROM users WHERE username = $1", req.Username).Scan(&existing)
	if err == nil {
		http.Error(w, "Username is already taken", http.StatusConflict)
		return
	} else if err != sql.ErrNoRows {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	userID := uuid.New()
	now := time.Now()

	_, err = database.PostgresDB.Exec(`
		INSERT INTO users (id, created_at, username, password_hash, is_active)
		VALUES ($1, $2, $3, $4, true)
	`, userID, now, req.Username, hashedPassword)
	if err != nil {
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	token, err := services.CreateSession(userID)
	if err != nil {
		log.Printf("Failed to create session for new user %s: %v", userID, err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Account created successfully",
		User: map[string]interface{}{
			"id":         userID.String(),
			"username":   req.Username,
			"created_at": now,
		},
		Token: token,
	})
}

// Signin handles user login
func Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Username = utils.NormalizeUsername(req.Username)
	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	var userID uuid.UUID
	var passwordHash string
	var isActive bool
	err := database.PostgresDB.QueryRow(
		"SELECT id, password_hash, is_active FROM users WHERE username = $1", req.Username,
	).Scan(&userID, &passwordHash, &isActive)
	if err == sql.ErrNoRows {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	} else if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if !isActive {
		http.Error(w, "Account is deactivated", http.StatusForbidden)
		return
	}

	valid, err := utils.VerifyPassword(req.Password, passwordHash)
	if err != nil || !valid {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	token, err := services.CreateSession(userID)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Signed in successfully",
		User: map[string]interface{}{
			"id":       userID.String(),
			"username": req.Username,
		},
		Token: token,
	})
}

// Signout invalidates the session and forgets the user's dashboard so a
// later signin starts from a fresh, unloaded state.
func Signout(w http.ResponseWriter, r *http.Request) {
	userID, token, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := services.InvalidateSession(token); err != nil {
		log.Printf("Failed to invalidate session: %v", err)
	}
	Dashboards.Drop(userID)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Signed out successfully",
	})
}

// GetMe returns the authenticated user's profile
func GetMe(w http.ResponseWriter, r *http.Request) {
	userID, token, ok := requireSession(w, r)
	if !ok {
		return
	}

	// Sliding expiration: active users stay signed in
	services.RefreshSession(token)

	username, err := services.GetUsernameByID(userID.String())
	if err != nil || username == "" {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user": map[string]interface{}{
			"id":       userID.String(),
			"username": username,
		},
	})
}

// CheckUsernameAvailability reports whether a username can be registered
func CheckUsernameAvailability(w http.ResponseWriter, r *http.Request) {
	username := utils.NormalizeUsername(r.URL.Query().Get("username"))
	if err := utils.ValidateUsername(username); err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"available": false,
			"reason":    err.Error(),
		})
		return
	}

	existingID, err := services.GetUserIDByUsername(username)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if existingID != "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"available": false,
			"reason":    "Username is already taken",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"available": true})
}
