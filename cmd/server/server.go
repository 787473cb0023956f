package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"zoo-server/services/media-api/internal/config"
	domain "zoo-server/services/media-api/internal/domain/media"
	"zoo-server/services/media-api/internal/infrastructure/auth"
	"zoo-server/services/media-api/internal/infrastructure/database"
	"zoo-server/services/media-api/internal/infrastructure/imageproc"
	"zoo-server/services/media-api/internal/infrastructure/logger"
	"zoo-server/services/media-api/internal/infrastructure/observability"
	repo "zoo-server/services/media-api/internal/infrastructure/repository/media"
	"zoo-server/services/media-api/internal/infrastructure/storage"
	"zoo-server/services/media-api/internal/interfaces/httpserver"
	"zoo-server/services/media-api/internal/interfaces/httpserver/handlers"
)

// @title Zoo Media API
// @version 1.0
// @description Image ingestion for animal and exhibit pictures
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if err := database.Migrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	// An incomplete storage config does not stop the service; uploads report it instead.
	store, err := storage.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	pipeline := domain.NewPipeline(imageproc.NewOptimizer(log), store, domain.OptionsFromConfig(cfg), log)
	mediaService := domain.NewService(pipeline, repo.NewRepository(db), log)

	validator := auth.NewValidator(ctx, cfg, log)
	httpServer := httpserver.New(cfg, log, handlers.NewProvider(mediaService, store, log), validator)
	app := NewApplication(httpServer, log)

	log.Info().
		Str("storage_backend", store.Backend()).
		Bool("storage_configured", store.IsConfigured()).
		Str("transform_policy", string(pipeline.Policy())).
		Msg("media pipeline ready")

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
