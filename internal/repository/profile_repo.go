package repository

import (
	"context"

	"github.com/coachwave/backend/internal/models"
)

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, user_id, display_name, role, status, timezone, language, avatar_url,
	email_notifications, sms_notifications, onboarding_complete, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*models.Profile, error) {
	var profile models.Profile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.DisplayName,
		&profile.Role,
		&profile.Status,
		&profile.Timezone,
		&profile.Language,
		&profile.AvatarURL,
		&profile.EmailNotifications,
		&profile.SMSNotifications,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateEmpty inserts the single profile row for a freshly registered user.
func (r *ProfileRepository) CreateEmpty(ctx context.Context, userID int64, role string) error {
	query := `INSERT INTO profiles (user_id, role) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, userID, role)
	return err
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return scanProfile(r.db.QueryRow(ctx, query, userID))
}

type UpdateProfileInput struct {
	DisplayName        *string
	Timezone           *string
	Language           *string
	AvatarURL          *string
	EmailNotifications *bool
	SMSNotifications   *bool
}

func (r *ProfileRepository) UpdatePartial(ctx context.Context, userID int64, input UpdateProfileInput) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET display_name = COALESCE($1, display_name),
			timezone = COALESCE($2, timezone),
			language = COALESCE($3, language),
			avatar_url = COALESCE($4, avatar_url),
			email_notifications = COALESCE($5, email_notifications),
			sms_notifications = COALESCE($6, sms_notifications),
			onboarding_complete = TRUE,
			updated_at = NOW()
		WHERE user_id = $7
		RETURNING ` + profileColumns
	return scanProfile(r.db.QueryRow(ctx, query,
		input.DisplayName,
		input.Timezone,
		input.Language,
		input.AvatarURL,
		input.EmailNotifications,
		input.SMSNotifications,
		userID,
	))
}

// UpdateRole is the explicit administrative role change; nothing else may
// touch a profile's role.
func (r *ProfileRepository) UpdateRole(ctx context.Context, userID int64, role string) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET role = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + profileColumns
	return scanProfile(r.db.QueryRow(ctx, query, userID, role))
}
