package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"offer-ranker/internal/shared/config"
	"offer-ranker/internal/shared/server"
	"offer-ranker/internal/shared/server/middleware"
	"offer-ranker/internal/shared/storage/db"
	"offer-ranker/internal/workspaces"
)

// App holds shared dependencies.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	WorkspacesRepo    workspaces.Repo
	WorkspacesService *workspaces.Service
	WorkspacesHandler *workspaces.Handler
}

// Build prepares dependencies and the router. Without DATABASE_URL a dev-like
// environment falls back to in-memory workspaces.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	if sqlDB != nil {
		app.WorkspacesRepo = &workspaces.PGRepo{DB: sqlDB}
	} else {
		app.WorkspacesRepo = workspaces.NewMemoryRepo()
	}
	app.WorkspacesService = workspaces.NewService(app.WorkspacesRepo)
	app.WorkspacesHandler = workspaces.NewHandler(app.WorkspacesService)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:   cfg,
		DB:       sqlDB,
		Handlers: []server.RouteRegistrar{app.WorkspacesHandler},
		Limiter:  middleware.NewRateLimiter(nil),
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, db.ErrNoDatabaseURL
	}

	sqlDB, err := db.GetSingleton(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}
