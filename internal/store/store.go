// Package store provides the generic in-memory CRUD container used for every
// master-record collection. One Store holds one record type in insertion
// order; mutations notify subscribed observers synchronously so list views
// and the persistence mirror stay current.
//
// Stores are constructed objects with controlled lifetime: the service builds
// one per entity and passes it by reference. There is no package-level state,
// which keeps tests isolated (fresh store per test).
package store

import (
	"errors"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned by Update when no record has the given id.
// Delete deliberately does not return it: repeated deletes stay no-ops.
var ErrNotFound = errors.New("record not found")

// Record is any value managed by a Store.
type Record interface {
	EntityID() string
}

// Op identifies the kind of mutation reported in an Event.
type Op string

const (
	OpSet    Op = "set"
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event describes one store mutation. For OpSet the ID is empty: the whole
// collection was replaced.
type Event struct {
	Op Op
	ID string
}

// Store holds the authoritative ordered collection for one record type.
// All methods are safe for concurrent use.
type Store[T Record] struct {
	mu      sync.RWMutex
	records []T
	index   map[string]int

	withID  func(T, string) T
	entropy io.Reader

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// New creates an empty store. withID must return a copy of the record with
// the given id set; pass the entity's WithID method expression, e.g.
// store.New(entity.Center.WithID).
func New[T Record](withID func(T, string) T) *Store[T] {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Store[T]{
		index:   make(map[string]int),
		withID:  withID,
		entropy: ulid.Monotonic(src, 0),
		subs:    make(map[int]func(Event)),
	}
}

// newID returns a fresh ULID. The monotonic entropy source guarantees
// uniqueness even for adds within the same millisecond.
func (s *Store[T]) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// SetAll replaces the entire collection. No validation is performed; the
// caller guarantees well-formed records with ids already assigned.
func (s *Store[T]) SetAll(records []T) {
	s.mu.Lock()
	s.records = make([]T, len(records))
	copy(s.records, records)
	s.index = make(map[string]int, len(records))
	for i, r := range s.records {
		s.index[r.EntityID()] = i
	}
	s.mu.Unlock()

	s.notify(Event{Op: OpSet})
}

// Add assigns a new unique id, appends the record, and returns it. Add never
// fails: there is no uniqueness-of-content constraint, so records with
// duplicate codes are permitted.
func (s *Store[T]) Add(rec T) T {
	s.mu.Lock()
	rec = s.withID(rec, s.newID())
	s.index[rec.EntityID()] = len(s.records)
	s.records = append(s.records, rec)
	s.mu.Unlock()

	s.notify(Event{Op: OpAdd, ID: rec.EntityID()})
	return rec
}

// Update applies mutate to the record with the given id. The mutator sees the
// current value and changes only the fields it sets, so unspecified fields
// keep their prior values. The id itself is restored afterwards and can never
// change. Returns ErrNotFound when the id is absent.
func (s *Store[T]) Update(id string, mutate func(*T)) error {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	rec := s.records[i]
	mutate(&rec)
	rec = s.withID(rec, id)
	s.records[i] = rec
	s.mu.Unlock()

	s.notify(Event{Op: OpUpdate, ID: id})
	return nil
}

// Delete removes the record with the given id. Deleting an absent id is a
// no-op, never an error; delete is idempotent.
func (s *Store[T]) Delete(id string) {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].EntityID()] = j
	}
	s.mu.Unlock()

	s.notify(Event{Op: OpDelete, ID: id})
}

// Get returns the record with the given id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.records[i], true
}

// All returns a copy of the collection in insertion order.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Subscribe registers fn to be called synchronously after every mutation.
// The returned function removes the subscription.
func (s *Store[T]) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// notify runs outside the record lock so observers may read the store.
func (s *Store[T]) notify(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
