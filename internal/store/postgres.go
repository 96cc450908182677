package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// sortable whitelists the collections this client may touch and, per
// collection, the columns an ORDER BY may name. Collection and column
// names are interpolated into SQL, so nothing outside this table is
// ever accepted.
var sortable = map[string]map[string]bool{
	CollectionBusyModeSettings:   {},
	CollectionAppConnections:     {"provider": true, "created_at": true},
	CollectionRestrictedContacts: {"created_at": true},
	CollectionTrustedContacts:    {"created_at": true},
	CollectionMessages:           {"sent_at": true},
	CollectionStressReadings:     {"recorded_at": true},
}

// Postgres implements Client over the PostgreSQL schema created by
// database.InitPostgresTables.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Select(ctx context.Context, collection string, f Filter, order *Order, limit int) ([]Row, error) {
	cols, ok := sortable[collection]
	if !ok {
		return nil, ErrUnknownCollection
	}
	if f.UserID == uuid.Nil {
		return nil, ErrMissingUser
	}

	query := "SELECT * FROM " + collection + " WHERE user_id = $1"
	args := []any{f.UserID}
	if f.ID != uuid.Nil {
		query += " AND id = $2"
		args = append(args, f.ID)
	}
	if order != nil {
		if !cols[order.Column] {
			return nil, fmt.Errorf("store: column %q is not sortable in %s", order.Column, collection)
		}
		query += " ORDER BY " + order.Column
		if order.Desc {
			query += " DESC"
		}
	}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: select %s: %w", collection, err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (p *Postgres) Insert(ctx context.Context, collection string, inserts []Row) ([]Row, error) {
	if _, ok := sortable[collection]; !ok {
		return nil, ErrUnknownCollection
	}
	if len(inserts) == 0 {
		return nil, nil
	}

	keys := rowKeys(inserts[0])
	var (
		args         []any
		placeholders []string
	)
	for _, row := range inserts {
		marks := make([]string, len(keys))
		for i, k := range keys {
			args = append(args, row[k])
			marks[i] = fmt.Sprintf("$%d", len(args))
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")
	}

	query := "INSERT INTO " + collection + " (" + strings.Join(keys, ", ") + ") VALUES " +
		strings.Join(placeholders, ", ") + " RETURNING *"

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: insert %s: %w", collection, err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (p *Postgres) Update(ctx context.Context, collection string, f Filter, patch Row) error {
	if _, ok := sortable[collection]; !ok {
		return ErrUnknownCollection
	}
	if f.UserID == uuid.Nil {
		return ErrMissingUser
	}
	if len(patch) == 0 {
		return nil
	}

	keys := rowKeys(patch)
	var (
		args []any
		sets []string
	)
	for _, k := range keys {
		args = append(args, patch[k])
		sets = append(sets, fmt.Sprintf("%s = $%d", k, len(args)))
	}
	args = append(args, f.UserID)
	query := "UPDATE " + collection + " SET " + strings.Join(sets, ", ") +
		fmt.Sprintf(" WHERE user_id = $%d", len(args))
	if f.ID != uuid.Nil {
		args = append(args, f.ID)
		query += fmt.Sprintf(" AND id = $%d", len(args))
	}

	res, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("store: update %s: %w", collection, err)
	}
	return requireAffected(res)
}

func (p *Postgres) Delete(ctx context.Context, collection string, f Filter) error {
	if _, ok := sortable[collection]; !ok {
		return ErrUnknownCollection
	}
	if f.UserID == uuid.Nil {
		return ErrMissingUser
	}
	if f.ID == uuid.Nil {
		return fmt.Errorf("store: delete from %s requires a row id", collection)
	}

	res, err := p.db.ExecContext(ctx, "DELETE FROM "+collection+" WHERE user_id = $1 AND id = $2", f.UserID, f.ID)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", collection, err)
	}
	return requireAffected(res)
}

// requireAffected turns a zero-row write into ErrNoRows so callers can
// tell "row gone or not yours" apart from success.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRows
	}
	return nil
}

func rowKeys(row Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// scanRows reads every result row into the normalized Row form. []byte
// values (uuids, text, jsonb) become strings; numeric, boolean and
// timestamp values keep the driver's type.
func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
