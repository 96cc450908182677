package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryInsertAssignsIDs(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	userID := uuid.New()

	out, err := m.Insert(ctx, CollectionRestrictedContacts, []Row{
		{"user_id": userID, "contact_name": "Jordan"},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.NotEqual(t, uuid.Nil, UUID(out[0], "id"))
}

func TestMemoryCrossUserIsolation(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	alice, bob := uuid.New(), uuid.New()

	inserted, err := m.Insert(ctx, CollectionRestrictedContacts, []Row{
		{"user_id": alice, "contact_name": "Jordan"},
	})
	require.NoError(t, err)
	rowID := UUID(inserted[0], "id")

	rows, err := m.Select(ctx, CollectionRestrictedContacts, Filter{UserID: bob}, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)

	// A row is invisible to writes from another user even by id.
	err = m.Update(ctx, CollectionRestrictedContacts, Filter{UserID: bob, ID: rowID}, Row{"contact_name": "x"})
	assert.ErrorIs(t, err, ErrNoRows)
	err = m.Delete(ctx, CollectionRestrictedContacts, Filter{UserID: bob, ID: rowID})
	assert.ErrorIs(t, err, ErrNoRows)

	rows, err = m.Select(ctx, CollectionRestrictedContacts, Filter{UserID: alice}, nil, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jordan", String(rows[0], "contact_name"))
}

func TestMemoryOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	userID := uuid.New()
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		_, err := m.Insert(ctx, CollectionMessages, []Row{
			{"user_id": userID, "content": string(rune('a' + i)), "sent_at": base.Add(time.Duration(i) * time.Minute)},
		})
		require.NoError(t, err)
	}

	rows, err := m.Select(ctx, CollectionMessages, Filter{UserID: userID},
		&Order{Column: "sent_at", Desc: true}, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "d", String(rows[0], "content"))
	assert.Equal(t, "c", String(rows[1], "content"))
}

func TestMemoryRejectsUnknownCollection(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_, err := m.Select(ctx, "users", Filter{UserID: uuid.New()}, nil, 0)
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestMemoryReturnsClones(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	userID := uuid.New()

	inserted, err := m.Insert(ctx, CollectionRestrictedContacts, []Row{
		{"user_id": userID, "contact_name": "Jordan"},
	})
	require.NoError(t, err)

	// Mutating a returned row must not leak into the store.
	inserted[0]["contact_name"] = "tampered"
	rows, err := m.Select(ctx, CollectionRestrictedContacts, Filter{UserID: userID}, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "Jordan", String(rows[0], "contact_name"))
}
