package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/coachwave/backend/internal/directory"
	"github.com/coachwave/backend/internal/models"
)

type stubCoachDirectory struct {
	searchResult []models.Coach
	searchErr    error
	detailResult *models.CoachDetail
	detailErr    error
	lastQuery    string
	lastFilters  directory.Filters
	lastCoachID  int64
	lastHandle   string
}

func (s *stubCoachDirectory) Search(_ context.Context, query string, filters directory.Filters) ([]models.Coach, error) {
	s.lastQuery = query
	s.lastFilters = filters
	return s.searchResult, s.searchErr
}

func (s *stubCoachDirectory) Detail(_ context.Context, coachID int64) (*models.CoachDetail, error) {
	s.lastCoachID = coachID
	return s.detailResult, s.detailErr
}

func (s *stubCoachDirectory) DetailByHandle(_ context.Context, handle string) (*models.CoachDetail, error) {
	s.lastHandle = handle
	return s.detailResult, s.detailErr
}

func newCoachTestApp(handler *CoachHandler) *fiber.App {
	app := fiber.New()
	app.Get("/api/v1/coaches", handler.ListCoaches)
	app.Get("/api/v1/coaches/handle/:handle", handler.GetCoachByHandle)
	app.Get("/api/v1/coaches/:id", handler.GetCoachDetail)
	return app
}

func TestListCoachesForwardsFilters(t *testing.T) {
	stub := &stubCoachDirectory{searchResult: []models.Coach{{ID: 1, Name: "Ana García"}}}
	app := newCoachTestApp(NewCoachHandler(stub))

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/coaches?q=career&category=career&min_rating=4.5&languages=English,Spanish&specialties=Leadership", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if stub.lastQuery != "career" {
		t.Fatalf("expected query forwarded, got %q", stub.lastQuery)
	}
	if stub.lastFilters.Category != "career" || stub.lastFilters.MinRating != 4.5 {
		t.Fatalf("unexpected filters: %+v", stub.lastFilters)
	}
	if len(stub.lastFilters.Languages) != 2 || stub.lastFilters.Languages[1] != "Spanish" {
		t.Fatalf("expected parsed language list, got %v", stub.lastFilters.Languages)
	}
	if len(stub.lastFilters.Specialties) != 1 || stub.lastFilters.Specialties[0] != "Leadership" {
		t.Fatalf("expected parsed specialty list, got %v", stub.lastFilters.Specialties)
	}
}

func TestListCoachesRejectsBadMinRating(t *testing.T) {
	app := newCoachTestApp(NewCoachHandler(&stubCoachDirectory{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/coaches?min_rating=high", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListCoachesPaginatesAfterFiltering(t *testing.T) {
	coaches := make([]models.Coach, 0, 12)
	for i := int64(1); i <= 12; i++ {
		coaches = append(coaches, models.Coach{ID: i})
	}
	stub := &stubCoachDirectory{searchResult: coaches}
	app := newCoachTestApp(NewCoachHandler(stub))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/coaches?page=2&limit=5", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Coaches    []models.Coach        `json:"coaches"`
		Pagination models.PaginationMeta `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Coaches) != 5 || body.Coaches[0].ID != 6 {
		t.Fatalf("expected second page of 5 starting at id 6, got %+v", body.Coaches)
	}
	if body.Pagination.Total != 12 || body.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected pagination meta: %+v", body.Pagination)
	}
}

func TestGetCoachDetailNotFound(t *testing.T) {
	app := newCoachTestApp(NewCoachHandler(&stubCoachDirectory{detailErr: pgx.ErrNoRows}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/coaches/999", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetCoachByHandleForwardsHandle(t *testing.T) {
	stub := &stubCoachDirectory{
		detailResult: &models.CoachDetail{Coach: models.Coach{ID: 2, Handle: "tom-becker"}},
	}
	app := newCoachTestApp(NewCoachHandler(stub))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/coaches/handle/tom-becker", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if stub.lastHandle != "tom-becker" {
		t.Fatalf("expected handle forwarded, got %q", stub.lastHandle)
	}
}
