package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/coachwave/backend/internal/authstate"
	"github.com/coachwave/backend/internal/models"
	"github.com/coachwave/backend/internal/repository"
)

type stubProfileService struct {
	getResult    *models.Profile
	getErr       error
	updateResult *models.Profile
	updateErr    error
	lastUpdate   repository.UpdateProfileInput
}

func (s *stubProfileService) GetProfile(context.Context, int64) (*models.Profile, error) {
	return s.getResult, s.getErr
}

func (s *stubProfileService) UpdateProfile(_ context.Context, _ int64, input repository.UpdateProfileInput) (*models.Profile, error) {
	s.lastUpdate = input
	return s.updateResult, s.updateErr
}

func (s *stubProfileService) ChangeRole(context.Context, int64, models.Role) (*models.Profile, error) {
	return s.updateResult, s.updateErr
}

type stubAvatarStorage struct {
	uploadURL   string
	uploadErr   error
	deletedURLs []string
}

func (s *stubAvatarStorage) UploadAvatar(context.Context, io.Reader, string) (string, error) {
	return s.uploadURL, s.uploadErr
}

func (s *stubAvatarStorage) DeleteAvatar(_ context.Context, fileURL string) error {
	s.deletedURLs = append(s.deletedURLs, fileURL)
	return nil
}

func newProfileTestApp(service *stubProfileService, storage *stubAvatarStorage) *fiber.App {
	handler := &ProfileHandler{
		service:   service,
		storage:   storage,
		authState: authstate.New(&fixedProfileSource{}),
	}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", "client")
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Post("/api/v1/profiles/me/avatar", handler.UploadAvatar)
	return app
}

func avatarUploadRequest(t *testing.T) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("avatar", "me.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles/me/avatar", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadAvatarDeletesReplacedObject(t *testing.T) {
	oldURL := "https://bucket.example/storage/v1/object/public/avatars/42-old.png"
	newURL := "https://bucket.example/storage/v1/object/public/avatars/42-me.png"
	service := &stubProfileService{
		getResult:    &models.Profile{UserID: 42, Role: "client", AvatarURL: &oldURL},
		updateResult: &models.Profile{UserID: 42, Role: "client", AvatarURL: &newURL},
	}
	storage := &stubAvatarStorage{uploadURL: newURL}
	app := newProfileTestApp(service, storage)

	resp, err := app.Test(avatarUploadRequest(t))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastUpdate.AvatarURL == nil || *service.lastUpdate.AvatarURL != newURL {
		t.Fatalf("expected new url persisted, got %+v", service.lastUpdate.AvatarURL)
	}
	if len(storage.deletedURLs) != 1 || storage.deletedURLs[0] != oldURL {
		t.Fatalf("expected old object deleted, got %v", storage.deletedURLs)
	}
}

func TestUploadAvatarFirstUploadDeletesNothing(t *testing.T) {
	newURL := "https://bucket.example/storage/v1/object/public/avatars/42-me.png"
	service := &stubProfileService{
		getResult:    &models.Profile{UserID: 42, Role: "client"},
		updateResult: &models.Profile{UserID: 42, Role: "client", AvatarURL: &newURL},
	}
	storage := &stubAvatarStorage{uploadURL: newURL}
	app := newProfileTestApp(service, storage)

	resp, err := app.Test(avatarUploadRequest(t))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(storage.deletedURLs) != 0 {
		t.Fatalf("expected no delete on first upload, got %v", storage.deletedURLs)
	}
}
