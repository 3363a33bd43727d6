package models

import "time"

const (
	SessionStatusScheduled  = "scheduled"
	SessionStatusConfirmed  = "confirmed"
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
	SessionStatusCancelled  = "cancelled"
	SessionStatusNoShow     = "no_show"
)

const (
	SessionTypeVideo    = "video"
	SessionTypePhone    = "phone"
	SessionTypeChat     = "chat"
	SessionTypeInPerson = "in-person"
)

type Session struct {
	ID             int64     `json:"id"`
	ClientID       int64     `json:"client_id"`
	CoachID        int64     `json:"coach_id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	SessionType    string    `json:"session_type"`
	Location       *string   `json:"location"`
	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DurationMinutes derives the booked length from the scheduled interval.
func (s *Session) DurationMinutes() int {
	return int(s.ScheduledEnd.Sub(s.ScheduledStart) / time.Minute)
}
