package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/MarvinNotRobot/aichef/internal/config"
	"github.com/MarvinNotRobot/aichef/internal/domain/photo"
	"github.com/MarvinNotRobot/aichef/internal/domain/recipe"
	"github.com/MarvinNotRobot/aichef/internal/middleware"
	"github.com/MarvinNotRobot/aichef/internal/pkg/aiimage"
	"github.com/MarvinNotRobot/aichef/internal/pkg/database"
	"github.com/MarvinNotRobot/aichef/internal/pkg/jwt"
	"github.com/MarvinNotRobot/aichef/internal/pkg/logger"
	pkgresponse "github.com/MarvinNotRobot/aichef/internal/pkg/response"
	"github.com/MarvinNotRobot/aichef/internal/pkg/storage"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting AIChef API")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	settings := cfg.StorageSettings()
	if _, err := storage.Update(settings); err != nil {
		log.Fatal().Err(err).Msg("Invalid storage settings")
	}

	factory := storage.NewFactory(cfg.StorageCredentials())
	store, err := factory.GetInstance(&settings)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)
	aiClient := aiimage.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, 30*time.Second)

	// ---------- Repositories ----------
	photoRepo := photo.NewRepository(db)
	recipeRepo := recipe.NewRepository(db)

	// ---------- Services ----------
	photoService := photo.NewService(photoRepo, store, aiClient, recipeRepo)

	// ---------- Handlers ----------
	photoHandler := photo.NewHandler(photoService)

	authMiddleware := middleware.Auth(jwtService)

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/recipes", photoHandler.RecipeRoutes(authMiddleware))
		r.Mount("/photos", photoHandler.Routes(authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
