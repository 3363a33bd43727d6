package models

import "time"

// Coach is a public directory entry. Rating and ShowUpRate are aggregates
// maintained by the backend; nothing in this service mutates them.
type Coach struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Handle       string    `json:"handle"`
	RoleLabel    string    `json:"role_label"`
	AvatarURL    *string   `json:"avatar_url"`
	Bio          *string   `json:"bio"`
	Headline     string    `json:"headline"`
	Category     string    `json:"category"`
	Rating       float64   `json:"rating"`
	ReviewsCount int       `json:"reviews_count"`
	ShowUpRate   float64   `json:"show_up_rate"`
	PriceHint    string    `json:"price_hint"`
	Badges       []string  `json:"badges"`
	Specialties  []string  `json:"specialties"`
	Languages    []string  `json:"languages"`
	Location     *string   `json:"location"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CoachFAQ struct {
	ID       int64  `json:"id"`
	CoachID  int64  `json:"coach_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Position int    `json:"position"`
}

type CoachReview struct {
	ID        int64     `json:"id"`
	CoachID   int64     `json:"coach_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type CoachDetail struct {
	Coach
	FAQ     []CoachFAQ    `json:"faq"`
	Reviews []CoachReview `json:"reviews"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
