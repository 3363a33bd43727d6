package models

import "time"

// Role is the application-level role carried by a profile. Legacy rows may
// still hold "psychologist" or "staff"; ParseRole folds those into the
// canonical set.
type Role string

const (
	RoleClient Role = "client"
	RoleCoach  Role = "coach"
	RoleAdmin  Role = "admin"
)

// ParseRole normalizes a stored role label. Unknown labels map to RoleClient.
func ParseRole(raw string) Role {
	switch raw {
	case "client", "user":
		return RoleClient
	case "coach", "psychologist":
		return RoleCoach
	case "admin", "staff":
		return RoleAdmin
	default:
		return RoleClient
	}
}

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleCoach || r == RoleAdmin
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
