package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	// Set connection pool settings
	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize tables
	if err = InitPostgresTables(); err != nil {
		return err
	}

	return nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables() error {
	queries := []string{
		// Users table (PRIVACY-FIRST: username + password hash only)
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username VARCHAR(20) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		// Busy mode settings (one row per user, created on first write)
		`CREATE TABLE IF NOT EXISTS busy_mode_settings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			enabled BOOLEAN NOT NULL DEFAULT FALSE,
			auto_reply_template TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE(user_id)
		)`,

		// App connections (one row per user per messaging provider)
		`CREATE TABLE IF NOT EXISTS app_connections (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			provider VARCHAR(50) NOT NULL,
			is_connected BOOLEAN NOT NULL DEFAULT FALSE,
			features JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE(user_id, provider)
		)`,

		// Restricted contacts (deny list, user-created)
		`CREATE TABLE IF NOT EXISTS restricted_contacts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			contact_name VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Trusted contacts (allow list, may receive stress alerts)
		// contact_email is stored encrypted when ENCRYPTION_KEY is set
		`CREATE TABLE IF NOT EXISTS trusted_contacts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			contact_name VARCHAR(255) NOT NULL,
			contact_email TEXT,
			avatar_url TEXT,
			alert_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Messages (recent-message feed, append-only from the dashboard)
		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			sender_name VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			is_outgoing BOOLEAN NOT NULL DEFAULT FALSE,
			is_auto_reply BOOLEAN NOT NULL DEFAULT FALSE,
			sent_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Stress readings (written by the wearable ingestion pipeline;
		// the dashboard only reads the latest row)
		`CREATE TABLE IF NOT EXISTS stress_readings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			stress_score INTEGER NOT NULL CHECK (stress_score >= 0 AND stress_score <= 100),
			heart_rate DOUBLE PRECISION,
			hrv DOUBLE PRECISION,
			respiratory_rate DOUBLE PRECISION,
			skin_temp DOUBLE PRECISION,
			recorded_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Indexes for the per-user ordered reads every widget performs
		`CREATE INDEX IF NOT EXISTS idx_messages_user_sent ON messages(user_id, sent_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_stress_user_recorded ON stress_readings(user_id, recorded_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_trusted_user_created ON trusted_contacts(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_restricted_user ON restricted_contacts(user_id)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
