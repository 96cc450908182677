package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgres(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func TestPostgresSelectScopedByUser(t *testing.T) {
	p, mock := newMockPostgres(t)
	userID := uuid.New()
	rowID := uuid.New()
	sentAt := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT * FROM messages WHERE user_id = $1 ORDER BY sent_at DESC LIMIT 10",
	)).WithArgs(userID).WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "sender_name", "content", "is_outgoing", "is_auto_reply", "sent_at"}).
			AddRow([]byte(rowID.String()), []byte(userID.String()), []byte("Priya Patel"), []byte("Hey!"), false, false, sentAt),
	)

	rows, err := p.Select(context.Background(), CollectionMessages, Filter{UserID: userID},
		&Order{Column: "sent_at", Desc: true}, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// []byte columns come back as strings and the accessors resolve them.
	assert.Equal(t, rowID, UUID(rows[0], "id"))
	assert.Equal(t, "Priya Patel", String(rows[0], "sender_name"))
	assert.Equal(t, false, Bool(rows[0], "is_outgoing"))
	assert.Equal(t, sentAt, Time(rows[0], "sent_at"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSelectRejectsUnknownCollection(t *testing.T) {
	p, _ := newMockPostgres(t)
	_, err := p.Select(context.Background(), "users", Filter{UserID: uuid.New()}, nil, 0)
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestPostgresSelectRequiresUser(t *testing.T) {
	p, _ := newMockPostgres(t)
	_, err := p.Select(context.Background(), CollectionMessages, Filter{}, nil, 0)
	assert.ErrorIs(t, err, ErrMissingUser)
}

func TestPostgresSelectRejectsUnsortableColumn(t *testing.T) {
	p, _ := newMockPostgres(t)
	_, err := p.Select(context.Background(), CollectionMessages, Filter{UserID: uuid.New()},
		&Order{Column: "content"}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not sortable")
}

func TestPostgresInsertReturnsAssignedIDs(t *testing.T) {
	p, mock := newMockPostgres(t)
	userID := uuid.New()
	assigned := uuid.New()

	// Columns render in sorted key order.
	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO restricted_contacts (contact_name, user_id) VALUES ($1, $2) RETURNING *",
	)).WithArgs("Jordan", userID).WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "contact_name", "created_at"}).
			AddRow([]byte(assigned.String()), []byte(userID.String()), []byte("Jordan"), time.Now()),
	)

	out, err := p.Insert(context.Background(), CollectionRestrictedContacts, []Row{
		{"user_id": userID, "contact_name": "Jordan"},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, assigned, UUID(out[0], "id"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsertEmptyBatch(t *testing.T) {
	p, mock := newMockPostgres(t)
	out, err := p.Insert(context.Background(), CollectionMessages, nil)
	require.NoError(t, err)
	assert.Nil(t, out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateScopedByUserAndID(t *testing.T) {
	p, mock := newMockPostgres(t)
	userID := uuid.New()
	rowID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE app_connections SET is_connected = $1 WHERE user_id = $2 AND id = $3",
	)).WithArgs(true, userID, rowID).WillReturnResult(sqlmock.NewResult(0, 1))

	err := p.Update(context.Background(), CollectionAppConnections,
		Filter{UserID: userID, ID: rowID}, Row{"is_connected": true})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateNoMatchIsErrNoRows(t *testing.T) {
	p, mock := newMockPostgres(t)
	userID := uuid.New()
	rowID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE trusted_contacts SET alert_enabled = $1 WHERE user_id = $2 AND id = $3",
	)).WithArgs(false, userID, rowID).WillReturnResult(sqlmock.NewResult(0, 0))

	err := p.Update(context.Background(), CollectionTrustedContacts,
		Filter{UserID: userID, ID: rowID}, Row{"alert_enabled": false})
	assert.ErrorIs(t, err, ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteRequiresRowID(t *testing.T) {
	p, _ := newMockPostgres(t)
	err := p.Delete(context.Background(), CollectionRestrictedContacts, Filter{UserID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a row id")
}

func TestPostgresDeleteNoMatchIsErrNoRows(t *testing.T) {
	p, mock := newMockPostgres(t)
	userID := uuid.New()
	rowID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM restricted_contacts WHERE user_id = $1 AND id = $2",
	)).WithArgs(userID, rowID).WillReturnResult(sqlmock.NewResult(0, 0))

	err := p.Delete(context.Background(), CollectionRestrictedContacts, Filter{UserID: userID, ID: rowID})
	assert.ErrorIs(t, err, ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
