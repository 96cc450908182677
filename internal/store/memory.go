package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-memory Client with the same observable behavior as the
// Postgres client: server-assigned identifiers on insert, user-scoped
// filtering everywhere, ErrNoRows on writes that match nothing. It backs
// unit tests and local development without a database.
type Memory struct {
	mu   sync.Mutex
	data map[string][]Row
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]Row)}
}

func (m *Memory) Select(ctx context.Context, collection string, f Filter, order *Order, limit int) ([]Row, error) {
	if _, ok := sortable[collection]; !ok {
		return nil, ErrUnknownCollection
	}
	if f.UserID == uuid.Nil {
		return nil, ErrMissingUser
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Row
	for _, row := range m.data[collection] {
		if UUID(row, "user_id") != f.UserID {
			continue
		}
		if f.ID != uuid.Nil && UUID(row, "id") != f.ID {
			continue
		}
		out = append(out, Clone(row))
	}

	if order != nil {
		col, desc := order.Column, order.Desc
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return lessValue(out[j][col], out[i][col])
			}
			return lessValue(out[i][col], out[j][col])
		})
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Insert(ctx context.Context, collection string, inserts []Row) ([]Row, error) {
	if _, ok := sortable[collection]; !ok {
		return nil, ErrUnknownCollection
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Row, 0, len(inserts))
	for _, row := range inserts {
		stored := Clone(row)
		if UUID(stored, "id") == uuid.Nil {
			stored["id"] = uuid.New()
		}
		m.data[collection] = append(m.data[collection], stored)
		out = append(out, Clone(stored))
	}
	return out, nil
}

func (m *Memory) Update(ctx context.Context, collection string, f Filter, patch Row) error {
	if _, ok := sortable[collection]; !ok {
		return ErrUnknownCollection
	}
	if f.UserID == uuid.Nil {
		return ErrMissingUser
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	matched := 0
	for _, row := range m.data[collection] {
		if UUID(row, "user_id") != f.UserID {
			continue
		}
		if f.ID != uuid.Nil && UUID(row, "id") != f.ID {
			continue
		}
		for k, v := range patch {
			row[k] = v
		}
		matched++
	}
	if matched == 0 {
		return ErrNoRows
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection string, f Filter) error {
	if _, ok := sortable[collection]; !ok {
		return ErrUnknownCollection
	}
	if f.UserID == uuid.Nil {
		return ErrMissingUser
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.data[collection]
	kept := rows[:0]
	matched := 0
	for _, row := range rows {
		if UUID(row, "user_id") == f.UserID && (f.ID == uuid.Nil || UUID(row, "id") == f.ID) {
			matched++
			continue
		}
		kept = append(kept, row)
	}
	m.data[collection] = kept
	if matched == 0 {
		return ErrNoRows
	}
	return nil
}

func lessValue(a, b any) bool {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return av < bv
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	}
	return false
}
