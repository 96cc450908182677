// Package statesync keeps a per-user in-memory mirror of one remote
// collection consistent with the store. One generic implementation serves
// every dashboard entity; each instance is configured by a Descriptor
// (collection, display order, row codec, seed defaults).
//
// The contract, shared by all entities:
//
//   - Load replaces the mirror wholesale on success and leaves it intact
//     on failure.
//   - SeedIfEmpty inserts the entity's defaults exactly once per session,
//     only after a load has observed zero rows, and adopts the stored
//     rows (with their server-assigned ids) as the new mirror.
//   - Mutations go to the store first and touch the mirror only after the
//     store acknowledged the write. A failed write leaves the mirror
//     byte-for-byte unchanged.
//   - Reset discards the mirror and any in-flight completion, returning
//     the state to Unloaded (sign-out, identity change).
package statesync

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mindlink-backend/internal/store"
)

// Phase is the lifecycle position of one (user, entity) pair.
type Phase int

const (
	Unloaded Phase = iota
	Loading
	Empty
	Seeding
	Populated
)

func (p Phase) String() string {
	switch p {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Empty:
		return "empty"
	case Seeding:
		return "seeding"
	case Populated:
		return "populated"
	}
	return "unknown"
}

// Entity is any row type with a server-assigned identifier.
type Entity interface {
	EntityID() uuid.UUID
}

// Descriptor configures a State for one entity type.
type Descriptor[T Entity] struct {
	// Collection is the remote collection name.
	Collection string
	// Order and Limit shape loads (display order, display cap).
	Order *store.Order
	Limit int
	// Decode and Encode translate between wire rows and the entity.
	// Encode must not emit an "id" key; identifiers are server-assigned.
	Decode func(store.Row) (T, error)
	Encode func(T) store.Row
	// Less, when set, is the display order the mirror is kept in after
	// local inserts. Must agree with Order.
	Less func(a, b T) bool
	// Defaults returns the seed payload for a user with zero rows.
	// Nil means the entity has no seed policy.
	Defaults func(userID uuid.UUID) []T
}

// State owns the authoritative local view of one user's slice of one
// collection. All exported methods are safe for concurrent use; remote
// calls happen outside the lock and their completions are dropped if the
// state was reset in the meantime.
type State[T Entity] struct {
	client store.Client
	desc   Descriptor[T]
	userID uuid.UUID

	mu     sync.Mutex
	phase  Phase
	rows   []T
	seeded bool
	gen    uint64
}

// New builds a state bound to one user. The user may be uuid.Nil (no
// session); the state then stays Unloaded and loads are no-ops.
func New[T Entity](client store.Client, desc Descriptor[T], userID uuid.UUID) *State[T] {
	return &State[T]{client: client, desc: desc, userID: userID}
}

func (s *State[T]) UserID() uuid.UUID { return s.userID }

func (s *State[T]) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Rows returns a copy of the mirror.
func (s *State[T]) Rows() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.rows))
	copy(out, s.rows)
	return out
}

// Load fetches the user's slice and replaces the mirror on success. On
// failure the previous mirror and phase are kept and a FetchFailure is
// returned.
func (s *State[T]) Load(ctx context.Context) error {
	if s.userID == uuid.Nil {
		return nil
	}

	s.mu.Lock()
	prev := s.phase
	s.phase = Loading
	gen := s.gen
	s.mu.Unlock()

	rows, err := s.client.Select(ctx, s.desc.Collection, store.Filter{UserID: s.userID}, s.desc.Order, s.desc.Limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return ErrStale
	}
	if err != nil {
		s.phase = prev
		return &Error{Kind: FetchFailure, Collection: s.desc.Collection, Err: err}
	}

	decoded := make([]T, 0, len(rows))
	for _, row := range rows {
		e, err := s.desc.Decode(row)
		if err != nil {
			s.phase = prev
			return &Error{Kind: FetchFailure, Collection: s.desc.Collection, Err: err}
		}
		decoded = append(decoded, e)
	}

	s.rows = decoded
	if len(decoded) == 0 {
		s.phase = Empty
	} else {
		s.phase = Populated
	}
	return nil
}

// SeedIfEmpty inserts the entity's defaults when the last load observed
// zero rows. At most one seed attempt is in flight per state, and a seed
// that already ran this session never repeats, so re-triggering is a
// no-op. Returns whether a seed was performed.
func (s *State[T]) SeedIfEmpty(ctx context.Context) (bool, error) {
	if s.userID == uuid.Nil || s.desc.Defaults == nil {
		return false, nil
	}

	s.mu.Lock()
	if s.phase != Empty || s.seeded {
		s.mu.Unlock()
		return false, nil
	}
	s.phase = Seeding
	gen := s.gen
	s.mu.Unlock()

	defaults := s.desc.Defaults(s.userID)
	rows := make([]store.Row, len(defaults))
	for i, e := range defaults {
		rows[i] = s.desc.Encode(e)
	}

	inserted, err := s.client.Insert(ctx, s.desc.Collection, rows)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false, ErrStale
	}
	if err != nil {
		s.phase = Empty
		return false, &Error{Kind: SeedFailure, Collection: s.desc.Collection, Err: err}
	}

	decoded := make([]T, 0, len(inserted))
	for _, row := range inserted {
		e, err := s.desc.Decode(row)
		if err != nil {
			s.phase = Empty
			return false, &Error{Kind: SeedFailure, Collection: s.desc.Collection, Err: err}
		}
		decoded = append(decoded, e)
	}

	s.rows = decoded
	s.seeded = true
	s.phase = Populated
	return true, nil
}

// Insert stores one new row and, once the store returns it with its
// assigned identifier, adopts it into the mirror.
func (s *State[T]) Insert(ctx context.Context, entity T) (T, error) {
	var zero T
	if s.userID == uuid.Nil {
		return zero, ErrNoUser
	}

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	inserted, err := s.client.Insert(ctx, s.desc.Collection, []store.Row{s.desc.Encode(entity)})
	if err != nil {
		return zero, &Error{Kind: MutationFailure, Collection: s.desc.Collection, Err: err}
	}
	if len(inserted) != 1 {
		return zero, &Error{Kind: MutationFailure, Collection: s.desc.Collection, Err: ErrRowNotFound}
	}
	adopted, err := s.desc.Decode(inserted[0])
	if err != nil {
		return zero, &Error{Kind: MutationFailure, Collection: s.desc.Collection, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return zero, ErrStale
	}
	s.rows = append(s.rows, adopted)
	s.resortLocked()
	s.phase = Populated
	return adopted, nil
}

// Update patches one row, scoped by both row id and owning user, and
// applies the same patch to the mirror after the store acknowledged it.
func (s *State[T]) Update(ctx context.Context, id uuid.UUID, patch store.Row) error {
	if s.userID == uuid.Nil {
		return ErrNoUser
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrRowNotFound
	}
	current := s.rows[idx]
	gen := s.gen
	s.mu.Unlock()

	err := s.client.Update(ctx, s.desc.Collection, store.Filter{UserID: s.userID, ID: id}, store.Clone(patch))
	if err != nil {
		return &Error{Kind: MutationFailure, Collection: s.desc.Collection, Err: err}
	}

	merged := s.desc.Encode(current)
	merged["id"] = id
	for k, v := range patch {
		merged[k] = v
	}
	next, err := s.desc.Decode(merged)
	if err != nil {
		return &Error{Kind: MutationFailure, Collection: s.desc.Collection, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return ErrStale
	}
	// Re-resolve: the row may have moved while the write was in flight.
	idx = s.indexLocked(id)
	if idx < 0 {
		return ErrRowNotFound
	}
	s.rows[idx] = next
	s.resortLocked()
	return nil
}

// Delete removes one row, scoped by row id and owning user, and drops it
// from the mirror after the store acknowledged the delete.
func (s *State[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if s.userID == uuid.Nil {
		return ErrNoUser
	}

	s.mu.Lock()
	if s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return ErrRowNotFound
	}
	gen := s.gen
	s.mu.Unlock()

	err := s.client.Delete(ctx, s.desc.Collection, store.Filter{UserID: s.userID, ID: id})
	if err != nil {
		return &Error{Kind: MutationFailure, Collection: s.desc.Collection, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return ErrStale
	}
	idx := s.indexLocked(id)
	if idx >= 0 {
		s.rows = append(s.rows[:idx], s.rows[idx+1:]...)
	}
	// A mirror emptied by deliberate deletes stays Populated; emptiness
	// here is not the Empty that triggers seeding.
	s.phase = Populated
	return nil
}

// Reset returns the state to Unloaded and invalidates every in-flight
// completion. Called on sign-out or any session identity change.
func (s *State[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.phase = Unloaded
	s.rows = nil
	s.seeded = false
}

func (s *State[T]) indexLocked(id uuid.UUID) int {
	for i, e := range s.rows {
		if e.EntityID() == id {
			return i
		}
	}
	return -1
}

func (s *State[T]) resortLocked() {
	if s.desc.Less != nil {
		sort.SliceStable(s.rows, func(i, j int) bool { return s.desc.Less(s.rows[i], s.rows[j]) })
	}
	if s.desc.Limit > 0 && len(s.rows) > s.desc.Limit {
		s.rows = s.rows[:s.desc.Limit]
	}
}
