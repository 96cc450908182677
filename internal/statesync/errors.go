package statesync

import (
	"errors"
	"fmt"
)

// Failure classifies what part of the synchronization cycle broke. Every
// failure is local to one entity's cycle; callers surface it and move on.
type Failure int

const (
	// FetchFailure: a load could not complete. The previous mirror is
	// kept as-is.
	FetchFailure Failure = iota
	// SeedFailure: default rows could not be inserted. The entity stays
	// Empty and seeding may be retried.
	SeedFailure
	// MutationFailure: a write was rejected or timed out. The mirror is
	// unchanged.
	MutationFailure
)

func (f Failure) String() string {
	switch f {
	case FetchFailure:
		return "fetch"
	case SeedFailure:
		return "seed"
	case MutationFailure:
		return "mutation"
	}
	return "unknown"
}

// Error wraps a store error with the failure class and the collection it
// happened on.
type Error struct {
	Kind       Failure
	Collection string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Kind, e.Collection, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var (
	// ErrNoUser is returned by mutations on a state that has no owning user.
	ErrNoUser = errors.New("statesync: no authenticated user")
	// ErrStale means the state was reset while the call was in flight;
	// the result was discarded.
	ErrStale = errors.New("statesync: state reset while call in flight")
	// ErrRowNotFound means the target row is not in the mirror.
	ErrRowNotFound = errors.New("statesync: row not in mirror")
)
