package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coachwave/backend/internal/booking"
	"github.com/coachwave/backend/internal/models"
	"github.com/coachwave/backend/internal/repository"
)

var (
	ErrForbidden              = errors.New("forbidden")
	ErrConflict               = errors.New("conflict")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvalidInput           = errors.New("invalid input")
	ErrCoachNotFound          = errors.New("coach not found")
)

type coachReader interface {
	GetByID(ctx context.Context, coachID int64) (*models.Coach, error)
}

type SessionService struct {
	db          *pgxpool.Pool
	sessionRepo *repository.SessionRepository
	coachRepo   coachReader
}

func NewSessionService(
	db *pgxpool.Pool,
	sessionRepo *repository.SessionRepository,
	coachRepo coachReader,
) *SessionService {
	return &SessionService{
		db:          db,
		sessionRepo: sessionRepo,
		coachRepo:   coachRepo,
	}
}

// CreateSession persists a validated booking draft as a scheduled session.
// It is the wizard's submission target; the wizard has already validated the
// fields, so failures here are either directory misses, slot conflicts, or
// infrastructure errors.
func (s *SessionService) CreateSession(
	ctx context.Context,
	input booking.CreateSessionInput,
) (*models.Session, error) {
	if input.ClientID <= 0 || input.CoachID <= 0 {
		return nil, ErrInvalidInput
	}
	if fieldErr := booking.ValidateInterval(input.ScheduledStart, input.ScheduledEnd); fieldErr != nil {
		return nil, fieldErr
	}

	if _, err := s.coachRepo.GetByID(ctx, input.CoachID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)

	// Serialize bookings per coach so two clients cannot grab the same slot.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", input.CoachID); err != nil {
		return nil, err
	}

	hasConflict, err := txSessionRepo.HasConflict(
		ctx,
		input.CoachID,
		input.ScheduledStart.UTC(),
		input.ScheduledEnd.UTC(),
	)
	if err != nil {
		return nil, err
	}
	if hasConflict {
		return nil, ErrConflict
	}

	session, err := txSessionRepo.Create(ctx, repository.CreateSessionInput{
		ClientID:       input.ClientID,
		CoachID:        input.CoachID,
		Title:          input.Title,
		Description:    input.Description,
		SessionType:    input.SessionType,
		Location:       input.Location,
		ScheduledStart: input.ScheduledStart.UTC(),
		ScheduledEnd:   input.ScheduledEnd.UTC(),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *SessionService) ListSessions(
	ctx context.Context,
	actorID int64,
	role models.Role,
	filter repository.SessionListFilter,
) ([]models.Session, error) {
	return s.sessionRepo.List(ctx, repository.SessionListFilter{
		ActorID:   actorID,
		Role:      role,
		Status:    filter.Status,
		Timeframe: filter.Timeframe,
	})
}

func (s *SessionService) GetSession(
	ctx context.Context,
	actorID int64,
	role models.Role,
	sessionID int64,
) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !canAccessSession(role, actorID, session) {
		return nil, ErrForbidden
	}
	return session, nil
}

func (s *SessionService) UpdateStatus(
	ctx context.Context,
	actorID int64,
	role models.Role,
	sessionID int64,
	requestedStatus string,
) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !canAccessSession(role, actorID, session) {
		return nil, ErrForbidden
	}

	nextStatus, err := normalizeRequestedStatus(requestedStatus)
	if err != nil {
		return nil, err
	}
	if err := validateStatusTransition(role, actorID, session, nextStatus); err != nil {
		return nil, err
	}

	updated, err := s.sessionRepo.UpdateStatusIfCurrent(ctx, sessionID, session.Status, nextStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return updated, nil
}

func canAccessSession(role models.Role, actorID int64, session *models.Session) bool {
	switch role {
	case models.RoleClient:
		return session.ClientID == actorID
	case models.RoleCoach:
		return session.CoachID == actorID
	case models.RoleAdmin:
		return true
	default:
		return false
	}
}

func normalizeRequestedStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "confirm", "confirmed":
		return models.SessionStatusConfirmed, nil
	case "start", "in_progress", "in-progress":
		return models.SessionStatusInProgress, nil
	case "complete", "completed":
		return models.SessionStatusCompleted, nil
	case "cancel", "cancelled", "canceled":
		return models.SessionStatusCancelled, nil
	case "no_show", "no-show", "noshow":
		return models.SessionStatusNoShow, nil
	default:
		return "", ErrInvalidStatus
	}
}

func isTerminalStatus(status string) bool {
	switch status {
	case models.SessionStatusCompleted, models.SessionStatusCancelled, models.SessionStatusNoShow:
		return true
	default:
		return false
	}
}

// validateStatusTransition enforces who may move a session where. Clients can
// only back out; coaches drive the scheduled -> confirmed -> in_progress ->
// completed path plus cancellations and no-shows.
func validateStatusTransition(
	role models.Role,
	actorID int64,
	session *models.Session,
	nextStatus string,
) error {
	switch role {
	case models.RoleClient:
		if session.ClientID != actorID || nextStatus != models.SessionStatusCancelled {
			return ErrForbidden
		}
		if isTerminalStatus(session.Status) {
			return ErrInvalidStateTransition
		}
		return nil
	case models.RoleCoach:
		if session.CoachID != actorID {
			return ErrForbidden
		}
		switch nextStatus {
		case models.SessionStatusConfirmed:
			if session.Status != models.SessionStatusScheduled {
				return ErrInvalidStateTransition
			}
		case models.SessionStatusInProgress:
			if session.Status != models.SessionStatusConfirmed {
				return ErrInvalidStateTransition
			}
		case models.SessionStatusCompleted:
			if session.Status != models.SessionStatusInProgress {
				return ErrInvalidStateTransition
			}
		case models.SessionStatusCancelled:
			if isTerminalStatus(session.Status) {
				return ErrInvalidStateTransition
			}
		case models.SessionStatusNoShow:
			if session.Status != models.SessionStatusScheduled && session.Status != models.SessionStatusConfirmed {
				return ErrInvalidStateTransition
			}
			if session.ScheduledStart.After(time.Now().UTC()) {
				return ErrInvalidStateTransition
			}
		default:
			return ErrInvalidStatus
		}
		return nil
	default:
		return ErrForbidden
	}
}
