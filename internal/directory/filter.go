// Package directory filters the public coach list in memory. The list is
// small seed data, so there is no index or ranking: filtering preserves the
// input order and never mutates the source slice.
package directory

import (
	"strings"

	"github.com/coachwave/backend/internal/models"
)

type Filters struct {
	Category    string
	MinRating   float64
	Languages   []string
	Specialties []string
}

// Filter returns the subsequence of coaches matching the free-text query and
// every set filter. An empty query with empty filters is the identity.
func Filter(coaches []models.Coach, query string, filters Filters) []models.Coach {
	query = strings.ToLower(strings.TrimSpace(query))
	languages := normalizeSet(filters.Languages)
	specialties := normalizeSet(filters.Specialties)
	category := strings.TrimSpace(filters.Category)

	matched := make([]models.Coach, 0, len(coaches))
	for _, coach := range coaches {
		if query != "" && !matchesQuery(coach, query) {
			continue
		}
		if category != "" && coach.Category != category {
			continue
		}
		if filters.MinRating > 0 && coach.Rating < filters.MinRating {
			continue
		}
		if len(languages) > 0 && !intersects(coach.Languages, languages) {
			continue
		}
		if len(specialties) > 0 && !intersects(coach.Specialties, specialties) {
			continue
		}
		matched = append(matched, coach)
	}
	return matched
}

func matchesQuery(coach models.Coach, query string) bool {
	if strings.Contains(strings.ToLower(coach.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(coach.Headline), query) {
		return true
	}
	for _, specialty := range coach.Specialties {
		if strings.Contains(strings.ToLower(specialty), query) {
			return true
		}
	}
	return false
}

func normalizeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value != "" {
			set[value] = struct{}{}
		}
	}
	return set
}

func intersects(values []string, set map[string]struct{}) bool {
	for _, value := range values {
		if _, ok := set[strings.ToLower(value)]; ok {
			return true
		}
	}
	return false
}
