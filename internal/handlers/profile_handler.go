package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/coachwave/backend/internal/authstate"
	"github.com/coachwave/backend/internal/models"
	"github.com/coachwave/backend/internal/repository"
	"github.com/coachwave/backend/internal/services"
)

type profileApplicationService interface {
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, input repository.UpdateProfileInput) (*models.Profile, error)
	ChangeRole(ctx context.Context, userID int64, role models.Role) (*models.Profile, error)
}

type ProfileHandler struct {
	service   profileApplicationService
	storage   services.AvatarStorage
	authState *authstate.Store
}

func NewProfileHandler(
	service *services.ProfileService,
	storage services.AvatarStorage,
	authState *authstate.Store,
) *ProfileHandler {
	return &ProfileHandler{service: service, storage: storage, authState: authState}
}

type updateProfileRequest struct {
	DisplayName        *string `json:"display_name"`
	Timezone           *string `json:"timezone"`
	Language           *string `json:"language"`
	EmailNotifications *bool   `json:"email_notifications"`
	SMSNotifications   *bool   `json:"sms_notifications"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.service.GetProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateProfileUpdateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.service.UpdateProfile(c.Context(), userID, repository.UpdateProfileInput{
		DisplayName:        req.DisplayName,
		Timezone:           req.Timezone,
		Language:           req.Language,
		EmailNotifications: req.EmailNotifications,
		SMSNotifications:   req.SMSNotifications,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	h.authState.Publish(authstate.Event{Type: authstate.EventProfileUpdated, UserID: userID})

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if h.storage == nil {
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(fiber.Map{"error": "Avatar storage is not configured"})
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read avatar file"})
	}
	defer file.Close()

	previous, err := h.service.GetProfile(c.Context(), userID)
	if err != nil {
		previous = nil
	}

	filename := fmt.Sprintf("%d-%s", userID, strings.ReplaceAll(fileHeader.Filename, "/", "_"))
	avatarURL, err := h.storage.UploadAvatar(c.Context(), file, filename)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to upload avatar"})
	}

	profile, err := h.service.UpdateProfile(c.Context(), userID, repository.UpdateProfileInput{
		AvatarURL: &avatarURL,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	// Best effort: drop the replaced object so the bucket does not accumulate
	// orphans. The new avatar is already live.
	if previous != nil && previous.AvatarURL != nil && *previous.AvatarURL != avatarURL {
		_ = h.storage.DeleteAvatar(c.Context(), *previous.AvatarURL)
	}

	h.authState.Publish(authstate.Event{Type: authstate.EventProfileUpdated, UserID: userID})

	return c.JSON(fiber.Map{"profile": profile})
}

// ChangeRole is the only path that mutates a profile's role, and it is
// admin-only.
func (h *ProfileHandler) ChangeRole(c *fiber.Ctx) error {
	role, ok := actorRole(c)
	if !ok || role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	targetID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || targetID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var req changeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	profile, err := h.service.ChangeRole(c.Context(), targetID, models.Role(strings.TrimSpace(req.Role)))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "role must be one of: client, coach, admin"})
		case errors.Is(err, pgx.ErrNoRows):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update role"})
		}
	}

	h.authState.Publish(authstate.Event{Type: authstate.EventProfileUpdated, UserID: targetID})

	return c.JSON(fiber.Map{"profile": profile})
}

func validateProfileUpdateRequest(req updateProfileRequest) string {
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) == "" {
		return "display_name must not be empty"
	}
	if req.Timezone != nil && strings.TrimSpace(*req.Timezone) == "" {
		return "timezone must not be empty"
	}
	if req.Language != nil && strings.TrimSpace(*req.Language) == "" {
		return "language must not be empty"
	}
	return ""
}
