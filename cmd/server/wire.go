//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"zoo-server/services/media-api/internal/config"
	domain "zoo-server/services/media-api/internal/domain/media"
	"zoo-server/services/media-api/internal/infrastructure/auth"
	"zoo-server/services/media-api/internal/infrastructure/database"
	"zoo-server/services/media-api/internal/infrastructure/imageproc"
	"zoo-server/services/media-api/internal/infrastructure/logger"
	repo "zoo-server/services/media-api/internal/infrastructure/repository/media"
	"zoo-server/services/media-api/internal/infrastructure/storage"
	"zoo-server/services/media-api/internal/interfaces/httpserver"
	"zoo-server/services/media-api/internal/interfaces/httpserver/handlers"
)

var mediaSet = wire.NewSet(
	repo.NewRepository,
	wire.Bind(new(domain.Repository), new(*repo.Repository)),
	imageproc.NewOptimizer,
	wire.Bind(new(domain.Transformer), new(*imageproc.Optimizer)),
	storage.New,
	domain.OptionsFromConfig,
	domain.NewPipeline,
	domain.NewService,
	handlers.NewProvider,
)

// BuildApplication assembles the media API with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		auth.NewValidator,
		newGormDB,
		mediaSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newGormDB(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}
