package booking

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrDraftNotFound = errors.New("draft not found")

// Store holds in-flight booking drafts in memory. Drafts are transient: they
// disappear on cancel, successful submit, or process restart.
type Store struct {
	mu     sync.Mutex
	drafts map[string]*draftEntry
}

// draftEntry carries its own lock so a slow mutation (a submit waiting on the
// database) only blocks callers touching the same draft, while still keeping
// a second submit from racing an outstanding one.
type draftEntry struct {
	mu    sync.Mutex
	draft Draft
	gone  bool
}

func NewStore() *Store {
	return &Store{drafts: make(map[string]*draftEntry)}
}

func (s *Store) Open(clientID, coachID int64) Draft {
	entry := &draftEntry{
		draft: Draft{
			ID:        uuid.NewString(),
			ClientID:  clientID,
			CoachID:   coachID,
			Step:      StepDetails,
			CreatedAt: time.Now().UTC(),
		},
	}

	s.mu.Lock()
	s.drafts[entry.draft.ID] = entry
	s.mu.Unlock()

	return entry.draft
}

// View returns a copy of the draft, so readers never observe a concurrent
// update mid-write.
func (s *Store) View(id string) (Draft, bool) {
	entry, ok := s.lookup(id)
	if !ok {
		return Draft{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.gone {
		return Draft{}, false
	}
	return entry.draft, true
}

// Update runs fn against the live draft under that draft's lock.
func (s *Store) Update(id string, fn func(*Draft) error) (Draft, error) {
	entry, ok := s.lookup(id)
	if !ok {
		return Draft{}, ErrDraftNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.gone {
		return Draft{}, ErrDraftNotFound
	}
	if err := fn(&entry.draft); err != nil {
		return entry.draft, err
	}
	return entry.draft, nil
}

// Delete waits for any in-flight update on the draft before tombstoning it,
// so a cancelled draft can never be resurrected by a concurrent mutation.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	entry, ok := s.drafts[id]
	delete(s.drafts, id)
	s.mu.Unlock()

	if ok {
		entry.mu.Lock()
		entry.gone = true
		entry.mu.Unlock()
	}
}

func (s *Store) lookup(id string) (*draftEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.drafts[id]
	return entry, ok
}
