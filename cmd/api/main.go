package main

import (
	"context"
	"os"
	"time"

	"noteweaver/internal/auth"
	"noteweaver/internal/domain/policy"
	"noteweaver/internal/domain/sqlite"
	"noteweaver/internal/domain/sqlite/repository"
	"noteweaver/internal/http/handler"
	authmw "noteweaver/internal/http/middleware"
	"noteweaver/internal/service"
	"noteweaver/internal/service/jobs"
	"noteweaver/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const sessionTTL = 7 * 24 * time.Hour

func main() {
	validate := validator.New()
	registerValidators(validate)

	// Loads from .env in development; plain env vars otherwise
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Warnf("no .env file loaded: %v", err)
		}
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Init SQLite
	db, err := sqlite.Init()
	if err != nil {
		panic(err)
	}

	// Getting repos
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	tagRepo := repository.NewTagRepository(db)

	// Getting services
	tokens := auth.NewTokenIssuer(secret, sessionTTL)
	userService := service.NewUserService(userRepo, validate, tokens, policy.NewUserPolicy())
	noteService := service.NewNoteService(noteRepo, tagRepo, policy.NewNotePolicy(), validate)
	userLoader := service.NewUserLoader(userRepo)

	// Getting handlers
	userRoutes := handler.NewUserDefault(userService)
	noteRoutes := handler.NewNoteDefault(noteService)

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1M"))

	authRequired := authmw.NewAuthMiddleware(&authmw.AuthMiddlewareConfig{
		Tokens: tokens,
		Loader: userLoader,
	})

	// Users
	e.POST("/api/users", userRoutes.Register)
	e.POST("/api/users/login", userRoutes.CreateLogin)
	e.GET("/api/users/me", userRoutes.GetMe, authRequired)
	e.GET("/api/users/:id", userRoutes.GetUser, authRequired)
	e.PATCH("/api/users/:id", userRoutes.UpdateUser, authRequired)
	e.POST("/api/users/password", userRoutes.ChangePassword, authRequired)
	e.DELETE("/api/users/:id", userRoutes.DeleteUser, authRequired)

	// Notes
	e.GET("/api/notes", noteRoutes.GetNotes, authRequired)
	e.GET("/api/notes/:id", noteRoutes.GetNote, authRequired)
	e.POST("/api/notes", noteRoutes.CreateNote, authRequired)
	e.PATCH("/api/notes/:id", noteRoutes.UpdateNote, authRequired)
	e.DELETE("/api/notes/:id", noteRoutes.DeleteNote, authRequired)

	// Reminders
	e.PUT("/api/notes/:id/reminder", noteRoutes.SetReminder, authRequired)
	e.DELETE("/api/notes/:id/reminder", noteRoutes.ClearReminder, authRequired)

	// Tags
	e.GET("/api/notes/:id/tags", noteRoutes.GetNoteTags, authRequired)
	e.POST("/api/notes/:id/tags", noteRoutes.AttachTag, authRequired)
	e.DELETE("/api/notes/:id/tags/:tagId", noteRoutes.DetachTag, authRequired)
	e.GET("/api/tags/:tagId/notes", noteRoutes.GetNotesByTag, authRequired)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	// Reminder sweeper
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := jobs.NewReminderSweeper(noteRepo, jobs.LogNotifier{}, reminderInterval())
	go sweeper.Start(ctx)

	port := os.Getenv("PORT")
	if port == "" {
		port = "7070"
	}

	if err := e.Start(":" + port); err != nil {
		panic(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("hasupper", validators.HasUpper)
	_ = validate.RegisterValidation("haslower", validators.HasLower)
	_ = validate.RegisterValidation("hasdigit", validators.HasDigit)
	_ = validate.RegisterValidation("hasspecial", validators.HasSpecial)
	_ = validate.RegisterValidation("nodupes", validators.NoDupes)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
}

func reminderInterval() time.Duration {
	raw := os.Getenv("REMINDER_INTERVAL")
	if raw == "" {
		return time.Minute
	}

	interval, err := time.ParseDuration(raw)
	if err != nil {
		log.Warnf("invalid REMINDER_INTERVAL %q, using default: %v", raw, err)
		return time.Minute
	}
	return interval
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}
