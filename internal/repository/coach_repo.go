package repository

import (
	"context"

	"github.com/coachwave/backend/internal/models"
)

type CoachRepository struct {
	db DBTX
}

func NewCoachRepository(db DBTX) *CoachRepository {
	return &CoachRepository{db: db}
}

const coachColumns = `id, name, handle, role_label, avatar_url, bio, headline, category,
	rating, reviews_count, show_up_rate, price_hint, badges, specialties, languages,
	location, created_at, updated_at`

func scanCoach(row interface{ Scan(...any) error }) (*models.Coach, error) {
	var coach models.Coach
	err := row.Scan(
		&coach.ID,
		&coach.Name,
		&coach.Handle,
		&coach.RoleLabel,
		&coach.AvatarURL,
		&coach.Bio,
		&coach.Headline,
		&coach.Category,
		&coach.Rating,
		&coach.ReviewsCount,
		&coach.ShowUpRate,
		&coach.PriceHint,
		&coach.Badges,
		&coach.Specialties,
		&coach.Languages,
		&coach.Location,
		&coach.CreatedAt,
		&coach.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &coach, nil
}

// ListAll returns the whole directory in insertion order. The directory is
// seed data and small; filtering happens in memory.
func (r *CoachRepository) ListAll(ctx context.Context) ([]models.Coach, error) {
	query := `SELECT ` + coachColumns + ` FROM coaches ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coaches := make([]models.Coach, 0)
	for rows.Next() {
		coach, err := scanCoach(rows)
		if err != nil {
			return nil, err
		}
		coaches = append(coaches, *coach)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return coaches, nil
}

func (r *CoachRepository) GetByID(ctx context.Context, coachID int64) (*models.Coach, error) {
	query := `SELECT ` + coachColumns + ` FROM coaches WHERE id = $1`
	return scanCoach(r.db.QueryRow(ctx, query, coachID))
}

func (r *CoachRepository) GetByHandle(ctx context.Context, handle string) (*models.Coach, error) {
	query := `SELECT ` + coachColumns + ` FROM coaches WHERE handle = $1`
	return scanCoach(r.db.QueryRow(ctx, query, handle))
}

func (r *CoachRepository) ListFAQ(ctx context.Context, coachID int64) ([]models.CoachFAQ, error) {
	query := `
		SELECT id, coach_id, question, answer, position
		FROM coach_faqs
		WHERE coach_id = $1
		ORDER BY position ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.CoachFAQ, 0)
	for rows.Next() {
		var entry models.CoachFAQ
		if err := rows.Scan(&entry.ID, &entry.CoachID, &entry.Question, &entry.Answer, &entry.Position); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *CoachRepository) ListReviews(ctx context.Context, coachID int64) ([]models.CoachReview, error) {
	query := `
		SELECT id, coach_id, author, rating, comment, created_at
		FROM coach_reviews
		WHERE coach_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]models.CoachReview, 0)
	for rows.Next() {
		var review models.CoachReview
		if err := rows.Scan(&review.ID, &review.CoachID, &review.Author, &review.Rating, &review.Comment, &review.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviews, nil
}
