// Package identity models the client-side identifiers that tie a Go value
// to a document on the server: entity ids, server-minted ids, commit ids,
// and versioned references, plus the lazily-resolved TdbLazy wrapper.
package identity

import (
	"fmt"

	"github.com/google/uuid"
)

// EntityIDFor is a typed local identifier for a model of type T, scoped to
// the type so an identifier minted for one model can't be passed where
// another is expected.
type EntityIDFor[T any] struct {
	Value string
}

// NewEntityID mints a fresh random entity id, the Go equivalent of the
// source's Random key strategy.
func NewEntityID[T any]() EntityIDFor[T] {
	return EntityIDFor[T]{Value: uuid.NewString()}
}

func (e EntityIDFor[T]) String() string { return e.Value }

// ServerIDFor is an identifier the server has assigned (or confirmed) for
// an instance of T — distinct from EntityIDFor because it is only valid
// after a successful round trip, never minted locally.
type ServerIDFor[T any] struct {
	Value string
}

func (s ServerIDFor[T]) String() string { return s.Value }

// ServerIDForValue wraps a server-returned id string. Neither this package
// nor the client package checks that the id really came from a completed
// insert rather than from a locally-minted EntityIDFor.
func ServerIDForValue[T any](id string) ServerIDFor[T] {
	return ServerIDFor[T]{Value: id}
}

// CommitID identifies a single commit within a database's history.
type CommitID struct {
	Value string
}

func (c CommitID) String() string { return c.Value }

// VersionedEntityIDFor pins an entity id to a specific commit, so a fetch
// through it always returns that exact historical revision.
type VersionedEntityIDFor[T any] struct {
	ID     ServerIDFor[T]
	Commit CommitID
}

func (v VersionedEntityIDFor[T]) String() string {
	return fmt.Sprintf("%s@%s", v.ID.Value, v.Commit.Value)
}

// Resolver fetches and decodes the document behind a ServerIDFor[T]. The
// client package's *DatabaseResolver[T] implements this for live resolution; tests can
// substitute a fake.
type Resolver[T any] interface {
	Resolve(id ServerIDFor[T]) (T, error)
}

// TdbLazy defers fetching an entity until first access. Per the resolved
// Open Question (see DESIGN.md), resolution is synchronous on first Get,
// memoized on success, and retried (not cached) on failure — mirroring the
// reconnect-don't-give-up posture the change router itself applies to a
// persistent connection, here applied to a single fetch.
type TdbLazy[T any] struct {
	id       ServerIDFor[T]
	resolver Resolver[T]
	resolved bool
	value    T
}

// NewLazy wraps id for deferred resolution through resolver.
func NewLazy[T any](id ServerIDFor[T], resolver Resolver[T]) *TdbLazy[T] {
	return &TdbLazy[T]{id: id, resolver: resolver}
}

// ID returns the underlying identifier without forcing resolution.
func (l *TdbLazy[T]) ID() ServerIDFor[T] { return l.id }

// Get resolves and returns the referenced entity, fetching it on first call
// and returning the cached value thereafter. A failed fetch is not cached:
// the next call to Get retries.
func (l *TdbLazy[T]) Get() (T, error) {
	if l.resolved {
		return l.value, nil
	}
	v, err := l.resolver.Resolve(l.id)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("identity: resolve %s: %w", l.id, err)
	}
	l.value = v
	l.resolved = true
	return l.value, nil
}
