package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"platecheck/internal/bootstrap/config"
	"platecheck/internal/bootstrap/database"
	"platecheck/internal/bootstrap/logging"
	"platecheck/internal/infrastructure/assistant"
	cacheinfra "platecheck/internal/infrastructure/cache"
	"platecheck/internal/infrastructure/mirror"
	sqliterepo "platecheck/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "platecheck/internal/infrastructure/persistence/sqlite/uow"
	"platecheck/internal/ports"
	"platecheck/internal/usecase/quality"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewCheckRepository,
			fx.As(new(ports.CheckRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			provideSnapshotCache,
			fx.As(new(ports.SnapshotCache)),
		),
	),
	fx.Provide(
		fx.Annotate(
			provideMirror,
			fx.As(new(ports.Mirror)),
		),
	),
	fx.Provide(
		fx.Annotate(
			provideAssistant,
			fx.As(new(ports.Assistant)),
		),
	),
	fx.Provide(provideQualitySettings),
	fx.Provide(quality.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideSnapshotCache(cfg config.Config) *cacheinfra.SnapshotCache {
	return cacheinfra.NewSnapshotCache(time.Duration(cfg.Quality.SnapshotTTLSeconds) * time.Second)
}

func provideMirror(cfg config.Config) *mirror.SheetsMirror {
	return mirror.NewSheetsMirror(cfg.Sheets)
}

func provideAssistant(cfg config.Config) *assistant.OpenAIAssistant {
	return assistant.NewOpenAIAssistant(cfg.OpenAI)
}

func provideQualitySettings(cfg config.Config) quality.Settings {
	return quality.Settings{
		Branches:         cfg.Quality.Branches,
		Dishes:           cfg.Quality.Dishes,
		DuplicateWindow:  time.Duration(cfg.Quality.DuplicateWindowHours) * time.Hour,
		MinBranchSamples: cfg.Quality.MinBranchSamples,
		MinChefSamples:   cfg.Quality.MinChefSamples,
		InsightMaxRows:   cfg.Quality.InsightMaxRows,
	}
}
