package models

import "time"

// Profile is the application-level record behind an authenticated identity.
// Exactly one profile exists per user; the role only changes through an
// explicit administrative update.
type Profile struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	DisplayName        *string   `json:"display_name"`
	Role               string    `json:"role"`
	Status             string    `json:"status"`
	Timezone           *string   `json:"timezone"`
	Language           *string   `json:"language"`
	AvatarURL          *string   `json:"avatar_url"`
	EmailNotifications bool      `json:"email_notifications"`
	SMSNotifications   bool      `json:"sms_notifications"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
