// Package authstate caches the session and profile behind authenticated
// identities. Auth changes are published as events onto a channel and applied
// by a single consumer goroutine, so the cache always reflects the most
// recent event without locking across the profile fetch: last write wins.
package authstate

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/coachwave/backend/internal/models"
)

type EventType string

const (
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventProfileUpdated EventType = "profile_updated"
)

type SessionInfo struct {
	UserID int64
	Email  string
}

type Event struct {
	Type    EventType
	UserID  int64
	Session SessionInfo
}

type ProfileSource interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
}

// Entry is the cached state for one identity. A nil Profile with a live
// session means the signup never completed; the router guard turns that into
// an onboarding redirect rather than an error.
type Entry struct {
	Session SessionInfo
	Profile *models.Profile
}

type Store struct {
	profiles ProfileSource

	mu      sync.RWMutex
	entries map[int64]Entry

	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func New(profiles ProfileSource) *Store {
	return &Store{
		profiles: profiles,
		entries:  make(map[int64]Entry),
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
}

// Init starts the event consumer. ctx bounds the profile fetches the consumer
// performs; cancelling it stops refreshes but not the loop itself.
func (s *Store) Init(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.done:
				return
			case ev := <-s.events:
				s.Apply(ctx, ev)
			}
		}
	}()
}

// Dispose stops the consumer and waits for it to exit. Pending events are
// dropped.
func (s *Store) Dispose() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}

// Publish enqueues an auth event. Fire-and-forget: if the store has been
// disposed or the queue is full the event is dropped, since the database
// remains the source of truth on the next read-through.
func (s *Store) Publish(ev Event) {
	select {
	case <-s.done:
	case s.events <- ev:
	default:
	}
}

// Apply updates the cache for one event. Called sequentially by the consumer
// loop; exposed so tests can drive the store deterministically.
func (s *Store) Apply(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventSignedIn:
		profile := s.fetchProfile(ctx, ev.Session.UserID)
		s.mu.Lock()
		s.entries[ev.Session.UserID] = Entry{Session: ev.Session, Profile: profile}
		s.mu.Unlock()
	case EventSignedOut:
		s.mu.Lock()
		delete(s.entries, ev.UserID)
		s.mu.Unlock()
	case EventProfileUpdated:
		profile := s.fetchProfile(ctx, ev.UserID)
		s.mu.Lock()
		entry := s.entries[ev.UserID]
		entry.Profile = profile
		if entry.Session.UserID == 0 {
			entry.Session = SessionInfo{UserID: ev.UserID}
		}
		s.entries[ev.UserID] = entry
		s.mu.Unlock()
	}
}

// Load returns the cached entry for an identity, fetching the profile on a
// miss. A missing profile row is not an error.
func (s *Store) Load(ctx context.Context, userID int64) (Entry, error) {
	s.mu.RLock()
	entry, ok := s.entries[userID]
	s.mu.RUnlock()
	if ok {
		return entry, nil
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, err
	}

	entry = Entry{Session: SessionInfo{UserID: userID}, Profile: profile}
	s.mu.Lock()
	// An event may have landed while we fetched; the event's view is newer.
	if current, ok := s.entries[userID]; ok {
		entry = current
	} else {
		s.entries[userID] = entry
	}
	s.mu.Unlock()
	return entry, nil
}

func (s *Store) Snapshot(userID int64) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[userID]
	return entry, ok
}

func (s *Store) IsAuthenticated(userID int64) bool {
	_, ok := s.Snapshot(userID)
	return ok
}

func (s *Store) IsClient(userID int64) bool { return s.hasRole(userID, models.RoleClient) }
func (s *Store) IsCoach(userID int64) bool  { return s.hasRole(userID, models.RoleCoach) }
func (s *Store) IsAdmin(userID int64) bool  { return s.hasRole(userID, models.RoleAdmin) }

func (s *Store) hasRole(userID int64, role models.Role) bool {
	entry, ok := s.Snapshot(userID)
	if !ok || entry.Profile == nil {
		return false
	}
	return models.ParseRole(entry.Profile.Role) == role
}

// fetchProfile resolves a profile, folding "no row" and lookup failures into
// a nil profile so the caller still clears its loading state.
func (s *Store) fetchProfile(ctx context.Context, userID int64) *models.Profile {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil
	}
	return profile
}
