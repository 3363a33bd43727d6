package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/coachwave/backend/internal/authstate"
	"github.com/coachwave/backend/internal/models"
	"github.com/coachwave/backend/internal/routing"
)

// ActingRoleHeader carries the admin's persisted view-as preference (the
// coachwave_last_role key in the client's local storage).
const ActingRoleHeader = "X-Acting-Role"

// RoutingHandler answers "may I navigate here, and if not, where to". The
// answer is a UX hint for the frontend router; it grants nothing — every data
// endpoint enforces its own role checks.
type RoutingHandler struct {
	authState *authstate.Store
}

func NewRoutingHandler(authState *authstate.Store) *RoutingHandler {
	return &RoutingHandler{authState: authState}
}

func (h *RoutingHandler) Resolve(c *fiber.Ctx) error {
	path := c.Query("path")
	if strings.TrimSpace(path) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}

	input := routing.Input{
		Path:       path,
		ActingRole: strictRole(c.Get(ActingRoleHeader)),
	}

	if userID, err := parseActorID(c); err == nil {
		input.Authenticated = true

		entry, loadErr := h.authState.Load(c.Context(), userID)
		if loadErr != nil {
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to resolve profile"})
		}
		if entry.Profile != nil {
			input.ProfileLoaded = true
			input.Role = models.ParseRole(entry.Profile.Role)
		}
	}

	return c.JSON(routing.Resolve(input))
}

// strictRole accepts only canonical role names; anything else means the
// preference is unset. ParseRole's fallback-to-client would otherwise turn a
// garbage header into a real redirect.
func strictRole(raw string) models.Role {
	role := models.Role(strings.TrimSpace(raw))
	if role.Valid() {
		return role
	}
	return ""
}
