package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/coachwave/backend/internal/authstate"
	"github.com/coachwave/backend/internal/config"
	"github.com/coachwave/backend/internal/database"
	"github.com/coachwave/backend/internal/repository"
	"github.com/coachwave/backend/internal/routes"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	if cfg.AppEnv == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.DBUrl == "" {
		logrus.Fatal("DB_URL is required")
	}
	if err := database.ConnectDB(cfg.DBUrl, cfg.DBMaxConns, cfg.DBMinConns); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB()

	ctx := context.Background()

	if cfg.DefaultAdminEmail != "" && cfg.DefaultAdminPassword != "" {
		if err := database.SeedAdmin(ctx, database.DB, cfg.DefaultAdminEmail, cfg.DefaultAdminPassword); err != nil {
			logrus.Fatalf("Failed to seed admin account: %v", err)
		}
	}

	authState := authstate.New(repository.NewProfileRepository(database.DB))
	authState.Init(ctx)
	defer authState.Dispose()

	app := fiber.New()

	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	routes.RegisterRoutes(app, cfg, database.DB, authState)

	logrus.Infof("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.Fatalf("Server failed to start: %v", err)
	}
}
