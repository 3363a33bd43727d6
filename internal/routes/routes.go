package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coachwave/backend/internal/authstate"
	"github.com/coachwave/backend/internal/booking"
	"github.com/coachwave/backend/internal/config"
	"github.com/coachwave/backend/internal/handlers"
	"github.com/coachwave/backend/internal/middleware"
	"github.com/coachwave/backend/internal/repository"
	"github.com/coachwave/backend/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, authState *authstate.Store) {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	coachRepo := repository.NewCoachRepository(db)

	var avatarStorage services.AvatarStorage
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		avatarStorage = services.NewSupabaseAvatarStorage(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	sessionService := services.NewSessionService(db, sessionRepo, coachRepo)
	directoryService := services.NewDirectoryService(coachRepo)
	profileService := services.NewProfileService(profileRepo, profileRepo)

	bookingStore := booking.NewStore()
	bookingWizard := booking.NewWizard(sessionService)

	authHandler := handlers.NewAuthHandler(db, userRepo, profileRepo, authState, cfg.JWTSecret)
	profileHandler := handlers.NewProfileHandler(profileService, avatarStorage, authState)
	coachHandler := handlers.NewCoachHandler(directoryService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	bookingHandler := handlers.NewBookingHandler(bookingStore, bookingWizard)
	routingHandler := handlers.NewRoutingHandler(authState)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", middleware.AuthRequired(cfg.JWTSecret), authHandler.Logout)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	// Public routes under /v1 must be registered before the auth gate below;
	// Fiber matches in registration order.
	public := api.Group("/v1")
	public.Get("/coaches", coachHandler.ListCoaches)
	public.Get("/coaches/handle/:handle", coachHandler.GetCoachByHandle)
	public.Get("/coaches/:id", coachHandler.GetCoachDetail)
	public.Get("/routing/resolve", middleware.OptionalAuth(cfg.JWTSecret), routingHandler.Resolve)

	protected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	profiles := protected.Group("/profiles")
	profiles.Get("/me", profileHandler.GetProfile)
	profiles.Put("/me", profileHandler.UpdateProfile)
	profiles.Post("/me/avatar", profileHandler.UploadAvatar)
	profiles.Put("/:id/role", profileHandler.ChangeRole)

	bookings := protected.Group("/bookings")
	bookings.Post("", bookingHandler.OpenDraft)
	bookings.Get("/:id", bookingHandler.GetDraft)
	bookings.Put("/:id/details", bookingHandler.SubmitDetails)
	bookings.Put("/:id/schedule", bookingHandler.SubmitSchedule)
	bookings.Post("/:id/back", bookingHandler.Back)
	bookings.Post("/:id/submit", bookingHandler.Submit)
	bookings.Delete("/:id", bookingHandler.Cancel)

	sessions := protected.Group("/sessions")
	sessions.Get("", sessionHandler.ListSessions)
	sessions.Get("/:id", sessionHandler.GetSession)
	sessions.Put("/:id/status", sessionHandler.UpdateStatus)
}
