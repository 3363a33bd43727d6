package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/coachwave/backend/internal/booking"
	"github.com/coachwave/backend/internal/models"
	"github.com/coachwave/backend/internal/services"
)

// BookingHandler drives the three-step booking wizard over HTTP. Drafts are
// transient server state; only a successful submit touches the database.
type BookingHandler struct {
	store  *booking.Store
	wizard *booking.Wizard
}

func NewBookingHandler(store *booking.Store, wizard *booking.Wizard) *BookingHandler {
	return &BookingHandler{store: store, wizard: wizard}
}

type openDraftRequest struct {
	CoachID int64 `json:"coach_id"`
}

type detailsRequest struct {
	Title       string `json:"title"`
	SessionType string `json:"session_type"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type scheduleRequest struct {
	ScheduledStart string `json:"scheduled_start"`
	ScheduledEnd   string `json:"scheduled_end"`
}

func (h *BookingHandler) OpenDraft(c *fiber.Ctx) error {
	clientID, ok := requireClient(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	var req openDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.CoachID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "coach_id is required"})
	}

	draft := h.store.Open(clientID, req.CoachID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"draft": draft})
}

func (h *BookingHandler) GetDraft(c *fiber.Ctx) error {
	clientID, ok := requireClient(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	draft, found := h.store.View(c.Params("id"))
	if !found || draft.ClientID != clientID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Draft not found"})
	}

	return c.JSON(fiber.Map{"draft": draft})
}

func (h *BookingHandler) SubmitDetails(c *fiber.Ctx) error {
	clientID, ok := requireClient(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	var req detailsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	draft, err := h.updateOwned(c.Params("id"), clientID, func(d *booking.Draft) error {
		return h.wizard.SubmitDetails(d, booking.Details{
			Title:       req.Title,
			SessionType: req.SessionType,
			Description: req.Description,
			Location:    req.Location,
		})
	})
	if err != nil {
		return mapBookingError(c, err)
	}

	return c.JSON(fiber.Map{"draft": draft})
}

func (h *BookingHandler) SubmitSchedule(c *fiber.Ctx) error {
	clientID, ok := requireClient(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	var req scheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	start, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledStart))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "scheduled_start must be a valid RFC3339 timestamp"})
	}
	end, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledEnd))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "scheduled_end must be a valid RFC3339 timestamp"})
	}

	draft, err := h.updateOwned(c.Params("id"), clientID, func(d *booking.Draft) error {
		return h.wizard.SubmitSchedule(d, booking.Schedule{ScheduledStart: start, ScheduledEnd: end})
	})
	if err != nil {
		return mapBookingError(c, err)
	}

	return c.JSON(fiber.Map{"draft": draft})
}

func (h *BookingHandler) Back(c *fiber.Ctx) error {
	clientID, ok := requireClient(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	draft, err := h.updateOwned(c.Params("id"), clientID, func(d *booking.Draft) error {
		return h.wizard.Back(d)
	})
	if err != nil {
		return mapBookingError(c, err)
	}

	return c.JSON(fiber.Map{"draft": draft})
}

func (h *BookingHandler) Submit(c *fiber.Ctx) error {
	clientID, ok := requireClient(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	var session *models.Session
	_, err := h.updateOwned(c.Params("id"), clientID, func(d *booking.Draft) error {
		created, submitErr := h.wizard.Submit(c.Context(), d)
		if submitErr != nil {
			return submitErr
		}
		session = created
		return nil
	})
	if err != nil {
		// The draft stays at review so the client can retry.
		return mapBookingError(c, err)
	}

	h.store.Delete(c.Params("id"))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": session})
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	clientID, ok := requireClient(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	draft, found := h.store.View(c.Params("id"))
	if !found || draft.ClientID != clientID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Draft not found"})
	}

	h.store.Delete(draft.ID)
	return c.SendStatus(fiber.StatusNoContent)
}

// updateOwned applies fn to the draft after checking ownership. Foreign
// drafts look identical to missing ones.
func (h *BookingHandler) updateOwned(
	draftID string,
	clientID int64,
	fn func(*booking.Draft) error,
) (booking.Draft, error) {
	return h.store.Update(draftID, func(d *booking.Draft) error {
		if d.ClientID != clientID {
			return booking.ErrDraftNotFound
		}
		return fn(d)
	})
}

func requireClient(c *fiber.Ctx) (int64, bool) {
	role, ok := actorRole(c)
	if !ok || role != models.RoleClient {
		return 0, false
	}
	actorID, err := parseActorID(c)
	if err != nil {
		return 0, false
	}
	return actorID, true
}

func mapBookingError(c *fiber.Ctx, err error) error {
	var fieldErr *booking.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fieldErr})
	case errors.Is(err, booking.ErrDraftNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Draft not found"})
	case errors.Is(err, booking.ErrWrongStep):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Operation not valid for current step"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).
			JSON(fiber.Map{"error": "Requested time conflicts with another session"})
	case errors.Is(err, services.ErrCoachNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process booking request"})
	}
}
