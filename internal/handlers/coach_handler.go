package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/coachwave/backend/internal/directory"
	"github.com/coachwave/backend/internal/models"
)

type coachDirectory interface {
	Search(ctx context.Context, query string, filters directory.Filters) ([]models.Coach, error)
	Detail(ctx context.Context, coachID int64) (*models.CoachDetail, error)
	DetailByHandle(ctx context.Context, handle string) (*models.CoachDetail, error)
}

// CoachHandler serves the public coach directory: search with filters, and
// the landing-page detail with FAQ and reviews.
type CoachHandler struct {
	directory coachDirectory
}

func NewCoachHandler(directory coachDirectory) *CoachHandler {
	return &CoachHandler{directory: directory}
}

func (h *CoachHandler) ListCoaches(c *fiber.Ctx) error {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	minRating, err := parseNonNegativeFloat(c.Query("min_rating"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "min_rating must be a valid non-negative number"})
	}

	coaches, err := h.directory.Search(c.Context(), c.Query("q"), directory.Filters{
		Category:    strings.TrimSpace(c.Query("category")),
		MinRating:   minRating,
		Languages:   splitCSV(c.Query("languages")),
		Specialties: splitCSV(c.Query("specialties")),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch coaches"})
	}

	total := len(coaches)
	return c.JSON(fiber.Map{
		"coaches":    paginate(coaches, page, limit),
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *CoachHandler) GetCoachDetail(c *fiber.Ctx) error {
	coachID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || coachID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach id"})
	}

	detail, err := h.directory.Detail(c.Context(), coachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch coach"})
	}

	return c.JSON(fiber.Map{"coach": detail})
}

func (h *CoachHandler) GetCoachByHandle(c *fiber.Ctx) error {
	handle := strings.TrimSpace(c.Params("handle"))
	if handle == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach handle"})
	}

	detail, err := h.directory.DetailByHandle(c.Context(), handle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch coach"})
	}

	return c.JSON(fiber.Map{"coach": detail})
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parseNonNegativeFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return 0, errInvalidNumber
	}
	return value, nil
}

var errInvalidNumber = errors.New("invalid number")

func splitCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
