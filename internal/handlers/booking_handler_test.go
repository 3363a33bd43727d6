package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/coachwave/backend/internal/booking"
	"github.com/coachwave/backend/internal/models"
	"github.com/coachwave/backend/internal/services"
)

type stubSessionCreator struct {
	created   *models.Session
	createErr error
	lastInput booking.CreateSessionInput
	calls     int
}

func (s *stubSessionCreator) CreateSession(_ context.Context, input booking.CreateSessionInput) (*models.Session, error) {
	s.calls++
	s.lastInput = input
	return s.created, s.createErr
}

func newBookingTestApp(handler *BookingHandler, role, userID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Post("/api/v1/bookings", handler.OpenDraft)
	app.Get("/api/v1/bookings/:id", handler.GetDraft)
	app.Put("/api/v1/bookings/:id/details", handler.SubmitDetails)
	app.Put("/api/v1/bookings/:id/schedule", handler.SubmitSchedule)
	app.Post("/api/v1/bookings/:id/back", handler.Back)
	app.Post("/api/v1/bookings/:id/submit", handler.Submit)
	app.Delete("/api/v1/bookings/:id", handler.Cancel)
	return app
}

func postJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestOpenDraftRequiresClientRole(t *testing.T) {
	store := booking.NewStore()
	handler := NewBookingHandler(store, booking.NewWizard(&stubSessionCreator{}))
	app := newBookingTestApp(handler, "coach", "7")

	resp := postJSON(t, app, http.MethodPost, "/api/v1/bookings", `{"coach_id": 3}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestForeignDraftLooksMissing(t *testing.T) {
	store := booking.NewStore()
	draft := store.Open(99, 3)
	handler := NewBookingHandler(store, booking.NewWizard(&stubSessionCreator{}))
	app := newBookingTestApp(handler, "client", "42")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+draft.ID, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for another client's draft, got %d", resp.StatusCode)
	}
}

func TestBookingWalkThroughCreatesSession(t *testing.T) {
	store := booking.NewStore()
	creator := &stubSessionCreator{
		created: &models.Session{ID: 91, ClientID: 42, CoachID: 3, Status: models.SessionStatusScheduled},
	}
	handler := NewBookingHandler(store, booking.NewWizard(creator))
	app := newBookingTestApp(handler, "client", "42")

	resp := postJSON(t, app, http.MethodPost, "/api/v1/bookings", `{"coach_id": 3}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 opening draft, got %d", resp.StatusCode)
	}
	var opened struct {
		Draft booking.Draft `json:"draft"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&opened); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	resp.Body.Close()
	draftID := opened.Draft.ID

	resp = postJSON(t, app, http.MethodPut, "/api/v1/bookings/"+draftID+"/details", `{
		"title": "Interview prep",
		"session_type": "video"
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 submitting details, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, app, http.MethodPut, "/api/v1/bookings/"+draftID+"/schedule", `{
		"scheduled_start": "2026-09-10T09:00:00Z",
		"scheduled_end": "2026-09-10T10:00:00Z"
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 submitting schedule, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, app, http.MethodPost, "/api/v1/bookings/"+draftID+"/submit", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 on submit, got %d", resp.StatusCode)
	}
	if creator.calls != 1 {
		t.Fatalf("expected one create call, got %d", creator.calls)
	}
	if creator.lastInput.ClientID != 42 || creator.lastInput.CoachID != 3 {
		t.Fatalf("unexpected create input: %+v", creator.lastInput)
	}

	// The draft is gone once the session exists.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+draftID, nil)
	getResp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after submit, got %d", getResp.StatusCode)
	}
}

func TestSubmitDetailsValidationFailureReturnsFieldError(t *testing.T) {
	store := booking.NewStore()
	handler := NewBookingHandler(store, booking.NewWizard(&stubSessionCreator{}))
	app := newBookingTestApp(handler, "client", "42")
	draft := store.Open(42, 3)

	resp := postJSON(t, app, http.MethodPut, "/api/v1/bookings/"+draft.ID+"/details", `{
		"title": "On site",
		"session_type": "in-person"
	}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body struct {
		Error booking.FieldError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Error.Field != "location" {
		t.Fatalf("expected location field error, got %+v", body.Error)
	}
}

func TestSubmitOutOfOrderReturnsConflict(t *testing.T) {
	store := booking.NewStore()
	handler := NewBookingHandler(store, booking.NewWizard(&stubSessionCreator{}))
	app := newBookingTestApp(handler, "client", "42")
	draft := store.Open(42, 3)

	resp := postJSON(t, app, http.MethodPost, "/api/v1/bookings/"+draft.ID+"/submit", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 submitting from details step, got %d", resp.StatusCode)
	}
}

func TestSubmitConflictKeepsDraftForRetry(t *testing.T) {
	store := booking.NewStore()
	creator := &stubSessionCreator{createErr: services.ErrConflict}
	handler := NewBookingHandler(store, booking.NewWizard(creator))
	app := newBookingTestApp(handler, "client", "42")

	draft := store.Open(42, 3)
	resp := postJSON(t, app, http.MethodPut, "/api/v1/bookings/"+draft.ID+"/details", `{
		"title": "Interview prep",
		"session_type": "video"
	}`)
	resp.Body.Close()
	resp = postJSON(t, app, http.MethodPut, "/api/v1/bookings/"+draft.ID+"/schedule", `{
		"scheduled_start": "2026-09-10T09:00:00Z",
		"scheduled_end": "2026-09-10T10:00:00Z"
	}`)
	resp.Body.Close()

	resp = postJSON(t, app, http.MethodPost, "/api/v1/bookings/"+draft.ID+"/submit", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on slot conflict, got %d", resp.StatusCode)
	}

	current, found := store.View(draft.ID)
	if !found {
		t.Fatal("draft should survive a failed submit")
	}
	if current.Step != booking.StepReview {
		t.Fatalf("expected draft to stay at review, got %q", current.Step)
	}
}

func TestCancelDeletesDraft(t *testing.T) {
	store := booking.NewStore()
	handler := NewBookingHandler(store, booking.NewWizard(&stubSessionCreator{}))
	app := newBookingTestApp(handler, "client", "42")
	draft := store.Open(42, 3)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/"+draft.ID, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if _, found := store.View(draft.ID); found {
		t.Fatal("draft should be gone after cancel")
	}
}
