package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/coachwave/backend/pkg/utils"
)

// SeedAdmin provisions the operational admin account. Signup only issues
// client and coach roles, so without this there is no admin at all. Idempotent
// across restarts.
func SeedAdmin(ctx context.Context, db *pgxpool.Pool, email, password string) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	var userID int64
	err = db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, 'admin')
		ON CONFLICT (email) DO UPDATE SET role = 'admin'
		RETURNING id
	`, email, hashed).Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO profiles (user_id, role, status, onboarding_complete)
		VALUES ($1, 'admin', 'active', TRUE)
		ON CONFLICT (user_id) DO UPDATE SET role = 'admin'
	`, userID)
	if err != nil {
		return fmt.Errorf("seed admin profile: %w", err)
	}

	logrus.WithField("email", email).Info("Admin account provisioned")
	return nil
}
