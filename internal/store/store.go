// Package store exposes the dashboard's view of the remote row store: a
// small select/insert/update/delete surface over named collections, always
// filtered by the owning user. The durable implementation is PostgreSQL;
// an in-memory implementation backs tests and local development.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Collection names. Every dashboard entity lives in exactly one of these.
const (
	CollectionBusyModeSettings   = "busy_mode_settings"
	CollectionAppConnections     = "app_connections"
	CollectionRestrictedContacts = "restricted_contacts"
	CollectionTrustedContacts    = "trusted_contacts"
	CollectionMessages           = "messages"
	CollectionStressReadings     = "stress_readings"
)

// Row is one record in wire form. Values are normalized scalars: string,
// bool, int64, float64, time.Time, uuid.UUID or nil. JSONB columns travel
// as their JSON text.
type Row map[string]any

// Filter scopes an operation. UserID is required on every call so that a
// row can never be read or written across users; ID narrows to one row.
type Filter struct {
	UserID uuid.UUID
	ID     uuid.UUID
}

// Order names the column results are sorted by.
type Order struct {
	Column string
	Desc   bool
}

var (
	// ErrNoRows is returned by Update and Delete when the filter matched
	// nothing, including a row that exists but belongs to another user.
	ErrNoRows = errors.New("store: no matching rows")
	// ErrUnknownCollection is returned for a collection name outside the
	// fixed set above.
	ErrUnknownCollection = errors.New("store: unknown collection")
	// ErrMissingUser is returned when a filter carries no user ID.
	ErrMissingUser = errors.New("store: filter requires a user id")
)

// Client is the capability set the synchronized states consume. Insert
// returns the stored rows with their server-assigned identifiers and
// defaults filled in.
type Client interface {
	Select(ctx context.Context, collection string, f Filter, order *Order, limit int) ([]Row, error)
	Insert(ctx context.Context, collection string, rows []Row) ([]Row, error)
	Update(ctx context.Context, collection string, f Filter, patch Row) error
	Delete(ctx context.Context, collection string, f Filter) error
}
