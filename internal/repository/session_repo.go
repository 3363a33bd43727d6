package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coachwave/backend/internal/models"
)

type CreateSessionInput struct {
	ClientID       int64
	CoachID        int64
	Title          string
	Description    *string
	SessionType    string
	Location       *string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
}

type SessionListFilter struct {
	ActorID   int64
	Role      models.Role
	Status    string
	Timeframe string
}

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, client_id, coach_id, title, description, session_type, location,
	scheduled_start, scheduled_end, status, created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (*models.Session, error) {
	var session models.Session
	err := row.Scan(
		&session.ID,
		&session.ClientID,
		&session.CoachID,
		&session.Title,
		&session.Description,
		&session.SessionType,
		&session.Location,
		&session.ScheduledStart,
		&session.ScheduledEnd,
		&session.Status,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Create inserts a session in the scheduled state. All later states are
// reached through UpdateStatusIfCurrent.
func (r *SessionRepository) Create(ctx context.Context, input CreateSessionInput) (*models.Session, error) {
	query := `
		INSERT INTO sessions (client_id, coach_id, title, description, session_type, location,
			scheduled_start, scheduled_end, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'scheduled')
		RETURNING ` + sessionColumns
	return scanSession(r.db.QueryRow(ctx, query,
		input.ClientID,
		input.CoachID,
		input.Title,
		input.Description,
		input.SessionType,
		input.Location,
		input.ScheduledStart,
		input.ScheduledEnd,
	))
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) List(ctx context.Context, filter SessionListFilter) ([]models.Session, error) {
	query, args := buildSessionListQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// buildSessionListQuery scopes the listing by role: clients and coaches see
// their own column, admins see everything.
func buildSessionListQuery(filter SessionListFilter) (string, []any) {
	var whereParts []string
	var args []any

	switch filter.Role {
	case models.RoleAdmin:
	case models.RoleCoach:
		args = append(args, filter.ActorID)
		whereParts = append(whereParts, fmt.Sprintf("coach_id = $%d", len(args)))
	default:
		args = append(args, filter.ActorID)
		whereParts = append(whereParts, fmt.Sprintf("client_id = $%d", len(args)))
	}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}

	switch strings.TrimSpace(filter.Timeframe) {
	case "upcoming":
		whereParts = append(whereParts, "scheduled_end > NOW()")
	case "past":
		whereParts = append(whereParts, "scheduled_end <= NOW()")
	}

	where := "TRUE"
	if len(whereParts) > 0 {
		where = strings.Join(whereParts, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM sessions
		WHERE %s
		ORDER BY scheduled_start ASC, id ASC
	`, sessionColumns, where)
	return query, args
}

// UpdateStatusIfCurrent is a compare-and-swap on the status column; a stale
// currentStatus yields pgx.ErrNoRows.
func (r *SessionRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	sessionID int64,
	currentStatus string,
	nextStatus string,
) (*models.Session, error) {
	query := `
		UPDATE sessions
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + sessionColumns
	return scanSession(r.db.QueryRow(ctx, query, sessionID, currentStatus, nextStatus))
}

// HasConflict reports whether the coach already has a non-cancelled session
// overlapping the requested interval.
func (r *SessionRepository) HasConflict(
	ctx context.Context,
	coachID int64,
	start time.Time,
	end time.Time,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM sessions
			WHERE coach_id = $1
			  AND status NOT IN ('cancelled', 'no_show')
			  AND scheduled_start < $3
			  AND scheduled_end > $2
		)
	`
	var hasConflict bool
	if err := r.db.QueryRow(ctx, query, coachID, start, end).Scan(&hasConflict); err != nil {
		return false, err
	}
	return hasConflict, nil
}
