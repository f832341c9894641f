// internal/registry/memory.go
//
// In-memory registry of live game sessions.
// Sessions exist only while a game is in progress; a finished game is removed
// once its scorecard has been archived. State is lost when the process restarts.
//
// Characteristics:
//   - Sessions keyed by their identifier in a map.
//   - The map is guarded by an RWMutex held only for lookups, inserts and deletes.
//   - Each session has its own weighted semaphore, held for the whole callback,
//     so operations on one session are serialised and never block another.
//   - Lock acquisition honours the caller's context.

package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/pie-flavor/yahtzee/internal/game"
)

var (
	// ErrNotFound is returned for ids with no live session, including a
	// session removed while the caller was waiting for its lock.
	ErrNotFound = errors.New("registry: session not found")

	// ErrLockUnavailable is returned when the session lock could not be
	// acquired before the context ended. Nothing was applied.
	ErrLockUnavailable = errors.New("registry: session lock unavailable")
)

// Store defines the access interface for live sessions.
type Store interface {
	// GetOrCreate runs fn with exclusive access to the session under id,
	// creating it with create if absent. created reports whether it was new.
	GetOrCreate(ctx context.Context, id string, create func() *game.Session, fn func(*game.Session) error) (created bool, err error)

	// Get runs fn with exclusive access to the session under id.
	// Returns ErrNotFound if there is none.
	Get(ctx context.Context, id string, fn func(*game.Session) error) error

	// Remove deletes the session. Callers queued on its lock see ErrNotFound.
	Remove(id string)

	// Len is the number of live sessions.
	Len() int
}

type entry struct {
	lock    *semaphore.Weighted
	session *game.Session
	removed atomic.Bool
}

var _ Store = (*Memory)(nil)

// Memory is the map-based Store implementation.
type Memory struct {
	mu       sync.RWMutex      // guards sessions map
	sessions map[string]*entry // keyed by session id
}

// NewMemory constructs an empty registry.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]*entry)}
}

// GetOrCreate looks up id, inserting a new session when it is missing.
func (m *Memory) GetOrCreate(ctx context.Context, id string, create func() *game.Session, fn func(*game.Session) error) (bool, error) {
	for {
		e, created := m.lookupOrInsert(id, create)
		alive, err := m.with(ctx, e, fn)
		if !alive && err == nil {
			// Lost a race with Remove; the next lookup inserts a fresh session.
			continue
		}
		return created, err
	}
}

// Get looks up id and runs fn under the session lock.
func (m *Memory) Get(ctx context.Context, id string, fn func(*game.Session) error) error {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	alive, err := m.with(ctx, e, fn)
	if !alive && err == nil {
		return ErrNotFound
	}
	return err
}

// Remove deletes id from the map and marks its entry dead.
func (m *Memory) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[id]; ok {
		e.removed.Store(true)
		delete(m.sessions, id)
	}
}

// Len returns the number of live sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Memory) lookupOrInsert(id string, create func() *game.Session) (*entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[id]; ok {
		return e, false
	}
	e := &entry{lock: semaphore.NewWeighted(1), session: create()}
	m.sessions[id] = e
	return e, true
}

// with runs fn under the entry's lock. alive is false when the entry was
// removed before the lock was granted; fn is not called in that case.
func (m *Memory) with(ctx context.Context, e *entry, fn func(*game.Session) error) (alive bool, err error) {
	if err := e.lock.Acquire(ctx, 1); err != nil {
		return true, fmt.Errorf("%w: %v", ErrLockUnavailable, err)
	}
	defer e.lock.Release(1)
	if e.removed.Load() {
		return false, nil
	}
	return true, fn(e.session)
}
