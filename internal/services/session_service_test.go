package services

import (
	"errors"
	"testing"
	"time"

	"github.com/coachwave/backend/internal/models"
)

func TestNormalizeRequestedStatus(t *testing.T) {
	cases := map[string]string{
		"confirm":     models.SessionStatusConfirmed,
		"Confirmed":   models.SessionStatusConfirmed,
		"start":       models.SessionStatusInProgress,
		"in-progress": models.SessionStatusInProgress,
		"complete":    models.SessionStatusCompleted,
		"cancel":      models.SessionStatusCancelled,
		"canceled":    models.SessionStatusCancelled,
		"no-show":     models.SessionStatusNoShow,
	}

	for raw, want := range cases {
		got, err := normalizeRequestedStatus(raw)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", raw, err)
		}
		if got != want {
			t.Fatalf("%q: expected %q, got %q", raw, want, got)
		}
	}

	if _, err := normalizeRequestedStatus("paused"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func scheduledSession(status string) *models.Session {
	start := time.Now().UTC().Add(24 * time.Hour)
	return &models.Session{
		ID:             1,
		ClientID:       42,
		CoachID:        7,
		Status:         status,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Hour),
	}
}

func TestClientMayOnlyCancel(t *testing.T) {
	session := scheduledSession(models.SessionStatusScheduled)

	if err := validateStatusTransition(models.RoleClient, 42, session, models.SessionStatusCancelled); err != nil {
		t.Fatalf("expected client cancel to be allowed, got %v", err)
	}
	if err := validateStatusTransition(models.RoleClient, 42, session, models.SessionStatusConfirmed); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for client confirm, got %v", err)
	}
	if err := validateStatusTransition(models.RoleClient, 99, session, models.SessionStatusCancelled); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other client, got %v", err)
	}
}

func TestClientCannotCancelTerminalSession(t *testing.T) {
	for _, status := range []string{
		models.SessionStatusCompleted,
		models.SessionStatusCancelled,
		models.SessionStatusNoShow,
	} {
		session := scheduledSession(status)
		err := validateStatusTransition(models.RoleClient, 42, session, models.SessionStatusCancelled)
		if !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("%s: expected ErrInvalidStateTransition, got %v", status, err)
		}
	}
}

func TestCoachLifecyclePath(t *testing.T) {
	steps := []struct {
		current string
		next    string
	}{
		{models.SessionStatusScheduled, models.SessionStatusConfirmed},
		{models.SessionStatusConfirmed, models.SessionStatusInProgress},
		{models.SessionStatusInProgress, models.SessionStatusCompleted},
	}

	for _, step := range steps {
		session := scheduledSession(step.current)
		if err := validateStatusTransition(models.RoleCoach, 7, session, step.next); err != nil {
			t.Fatalf("%s -> %s: expected allowed, got %v", step.current, step.next, err)
		}
	}
}

func TestCoachCannotSkipLifecycleSteps(t *testing.T) {
	session := scheduledSession(models.SessionStatusScheduled)

	if err := validateStatusTransition(models.RoleCoach, 7, session, models.SessionStatusCompleted); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition for scheduled -> completed, got %v", err)
	}
	if err := validateStatusTransition(models.RoleCoach, 7, session, models.SessionStatusInProgress); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition for scheduled -> in_progress, got %v", err)
	}
}

func TestCoachNoShowOnlyAfterStart(t *testing.T) {
	future := scheduledSession(models.SessionStatusConfirmed)
	if err := validateStatusTransition(models.RoleCoach, 7, future, models.SessionStatusNoShow); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected no-show before start to be rejected, got %v", err)
	}

	past := scheduledSession(models.SessionStatusConfirmed)
	past.ScheduledStart = time.Now().UTC().Add(-time.Hour)
	past.ScheduledEnd = past.ScheduledStart.Add(time.Hour)
	if err := validateStatusTransition(models.RoleCoach, 7, past, models.SessionStatusNoShow); err != nil {
		t.Fatalf("expected no-show after start to be allowed, got %v", err)
	}
}

func TestCanAccessSessionByRole(t *testing.T) {
	session := scheduledSession(models.SessionStatusScheduled)

	if !canAccessSession(models.RoleClient, 42, session) {
		t.Fatal("expected owning client to access session")
	}
	if canAccessSession(models.RoleClient, 99, session) {
		t.Fatal("expected other client to be denied")
	}
	if !canAccessSession(models.RoleCoach, 7, session) {
		t.Fatal("expected owning coach to access session")
	}
	if canAccessSession(models.RoleCoach, 8, session) {
		t.Fatal("expected other coach to be denied")
	}
	if !canAccessSession(models.RoleAdmin, 1, session) {
		t.Fatal("expected admin to access any session")
	}
}
