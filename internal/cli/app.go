package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/rc397/FlavorMap/internal/config"
	"github.com/rc397/FlavorMap/internal/logging"
	"github.com/rc397/FlavorMap/internal/repo"
	"github.com/rc397/FlavorMap/migrations"
)

// App holds the long-lived services a command needs.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Store  repo.SpotRepo

	closers []func()
}

// loadApp reads configuration and opens the configured store.
func loadApp(ctx context.Context, opts *RootOptions) (*App, error) {
	if err := config.LoadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return newApp(ctx, cfg)
}

// newApp builds the logger and store for cfg.
func newApp(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.LogDevelopment, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		store, err := a.openPostgres(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Store = store
	default:
		store := repo.NewFileSpotRepo(afero.NewOsFs(), cfg.Store.Path, logger.Named("store"))
		if err := store.Ensure(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("initialize store %s: %w", cfg.Store.Path, err)
		}
		logger.Info("using file store", zap.String("path", store.Path()))
		a.Store = store
	}
	return a, nil
}

// openPostgres connects the pool, applies pending migrations, and returns the
// Postgres store.
func (a *App) openPostgres(ctx context.Context) (repo.SpotRepo, error) {
	// New() does not open connections immediately; Ping does.
	pool, err := pgxpool.New(ctx, a.Config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}
	a.closers = append(a.closers, pool.Close)

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	results, err := migrations.Up(ctx, sqlDB)
	_ = sqlDB.Close()
	if err != nil {
		return nil, err
	}
	a.Logger.Info("database ready", zap.Int("migrations_applied", len(results)))

	return repo.NewPostgresSpotRepo(pool), nil
}

// Close releases everything opened by newApp, newest first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
