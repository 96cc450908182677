package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/mindlink-backend/internal/database"
)

// setMockDatabases points the package globals at a sqlmock database and an
// unreachable Redis, so session writes fail cleanly instead of panicking.
func setMockDatabases(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	prevDB, prevRedis := database.PostgresDB, database.RedisClient
	database.PostgresDB = db
	database.RedisClient = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() {
		database.PostgresDB = prevDB
		database.RedisClient = prevRedis
		db.Close()
	})
	return mock
}

func TestSignupInsertMatchesUsersSchema(t *testing.T) {
	mock := setMockDatabases(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT username FROM users WHERE username = $1",
	)).WithArgs("newuser").WillReturnError(sql.ErrNoRows)

	// The column list must stay in step with the users table created by
	// database.InitPostgresTables: id, username, password_hash,
	// created_at, is_active.
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO users (id, created_at, username, password_hash, is_active)",
	)).WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "newuser", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
		strings.NewReader(`{"username":"NewUser","password":"supersecret"}`))
	rec := httptest.NewRecorder()
	Signup(rec, req)

	// The insert went through; only the (unreachable) session store
	// failed afterwards.
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to create session")
}

func TestSignupRejectsTakenUsername(t *testing.T) {
	mock := setMockDatabases(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT username FROM users WHERE username = $1",
	)).WithArgs("taken").WillReturnRows(
		sqlmock.NewRows([]string{"username"}).AddRow("taken"),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
		strings.NewReader(`{"username":"taken","password":"supersecret"}`))
	rec := httptest.NewRecorder()
	Signup(rec, req)

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	setMockDatabases(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
		strings.NewReader(`{"username":"newuser","password":"short"}`))
	rec := httptest.NewRecorder()
	Signup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckUsernameAvailability(t *testing.T) {
	mock := setMockDatabases(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id FROM users WHERE LOWER(username) = $1 AND is_active = TRUE",
	)).WithArgs("freename").WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-username?username=FreeName", nil)
	rec := httptest.NewRecorder()
	CheckUsernameAvailability(rec, req)

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"available":true`)
}

func TestCheckUsernameAvailabilityTaken(t *testing.T) {
	mock := setMockDatabases(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id FROM users WHERE LOWER(username) = $1 AND is_active = TRUE",
	)).WithArgs("taken").WillReturnRows(
		sqlmock.NewRows([]string{"id"}).AddRow([]byte("7d4d91f2-9c3a-4b6e-8c51-0f2c6f1f8a10")),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-username?username=Taken", nil)
	rec := httptest.NewRecorder()
	CheckUsernameAvailability(rec, req)

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"available":false`)
}
