// ABOUTME: Local cache of one backend collection with CRUD actions
// ABOUTME: Tracks the loading flag, last error message, and selected record

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/gateway"
)

// ErrNotFound is wrapped into errors for ids the backend does not know
var ErrNotFound = errors.New("record not found")

// Position is where Create inserts new records
type Position int

const (
	Append Position = iota
	Prepend
)

// Backend is the REST collection a Store mirrors
type Backend[T client.Record] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, data T) (*T, error)
	Update(ctx context.Context, id int64, data T) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// Store caches the records of one resource
type Store[T client.Record] struct {
	name     string
	backend  Backend[T]
	position Position
	now      func() time.Time

	mu        sync.RWMutex
	items     []T
	selected  *T
	inflight  int
	errMsg    string
	updatedAt time.Time

	// seq is bumped by every fetch and every successful mutation; a fetch
	// response is applied only if nothing was applied after it was issued.
	seq     uint64
	applied uint64
}

// New creates an empty store
func New[T client.Record](name string, backend Backend[T], pos Position) *Store[T] {
	return &Store[T]{
		name:     name,
		backend:  backend,
		position: pos,
		now:      time.Now,
		items:    []T{},
	}
}

// Name returns the resource name
func (s *Store[T]) Name() string {
	return s.name
}

// FetchAll replaces the cached list. On failure the previous list is kept
// and the error message is recorded.
func (s *Store[T]) FetchAll(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	s.seq++
	mySeq := s.seq
	s.inflight++
	s.errMsg = ""
	s.mu.Unlock()

	items, err := s.backend.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight > 0 {
		s.inflight--
	}

	if mySeq <= s.applied {
		slog.Debug("Discarding stale fetch", "store", s.name, "seq", mySeq, "applied", s.applied)
		return slices.Clone(s.items), s.wrap(err)
	}
	if err != nil {
		s.errMsg = gateway.Message(err)
		slog.Warn("Fetch failed", "store", s.name, "error", s.errMsg)
		return slices.Clone(s.items), s.wrap(err)
	}

	s.applied = mySeq
	s.items = items
	s.updatedAt = s.now()
	slog.Debug("Fetched records", "store", s.name, "count", len(items))
	return slices.Clone(items), nil
}

// Refresh is FetchAll without the result
func (s *Store[T]) Refresh(ctx context.Context) error {
	_, err := s.FetchAll(ctx)
	return err
}

// GetByID loads one record into the selected slot. The list is untouched.
func (s *Store[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	item, err := s.backend.Get(ctx, id)
	if err != nil {
		return nil, s.fail("get", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
	selected := *item
	s.selected = &selected
	return item, nil
}

// Create adds the backend's copy of the new record to the list
func (s *Store[T]) Create(ctx context.Context, data T) (*T, error) {
	item, err := s.backend.Create(ctx, data)
	if err != nil {
		return nil, s.fail("create", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
	s.bump()

	// Upsert so a record already delivered by a concurrent fetch is not duplicated
	if i := s.index((*item).RecordID()); i >= 0 {
		s.items[i] = *item
	} else if s.position == Prepend {
		s.items = slices.Insert(s.items, 0, *item)
	} else {
		s.items = append(s.items, *item)
	}
	return item, nil
}

// Update replaces the matching list entry. If the id is not cached the list
// is left alone and no error is reported.
func (s *Store[T]) Update(ctx context.Context, id int64, data T) (*T, error) {
	item, err := s.backend.Update(ctx, id, data)
	if err != nil {
		return nil, s.fail("update", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
	s.bump()

	if i := s.index(id); i >= 0 {
		s.items[i] = *item
	}
	if s.selected != nil && (*s.selected).RecordID() == id {
		selected := *item
		s.selected = &selected
	}
	return item, nil
}

// Delete removes the matching list entry. Deleting an id that is not
// cached leaves the list alone.
func (s *Store[T]) Delete(ctx context.Context, id int64) error {
	if err := s.backend.Delete(ctx, id); err != nil {
		return s.fail("delete", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
	s.bump()

	s.items = slices.DeleteFunc(s.items, func(item T) bool { return item.RecordID() == id })
	if s.selected != nil && (*s.selected).RecordID() == id {
		s.selected = nil
	}
	return nil
}

// Items returns a copy of the cached list
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Find returns the cached record with id
func (s *Store[T]) Find(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// Len returns the number of cached records
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Selected returns the record loaded by GetByID, or nil
func (s *Store[T]) Selected() *T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	selected := *s.selected
	return &selected
}

// Loading reports whether a FetchAll is in flight
func (s *Store[T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Err returns the message of the last failed action, or ""
func (s *Store[T]) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// UpdatedAt returns when the list was last replaced by a fetch
func (s *Store[T]) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// ClearSelected empties the selected slot
func (s *Store[T]) ClearSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// ResetState clears the loading flag and the error message
func (s *Store[T]) ResetState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight = 0
	s.errMsg = ""
}

// Clear drops every cached record, used when the session ends
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bump()
	s.items = []T{}
	s.selected = nil
	s.errMsg = ""
	s.updatedAt = time.Time{}
}

func (s *Store[T]) fail(action string, err error) error {
	msg := gateway.Message(err)
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
	slog.Warn("Store action failed", "store", s.name, "action", action, "error", msg)
	return s.wrap(err)
}

func (s *Store[T]) wrap(err error) error {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

// bump marks a local change so older in-flight fetches are discarded.
// Callers hold s.mu.
func (s *Store[T]) bump() {
	s.seq++
	s.applied = s.seq
}

// index finds id in the list. Callers hold s.mu.
func (s *Store[T]) index(id int64) int {
	return slices.IndexFunc(s.items, func(item T) bool { return item.RecordID() == id })
}
