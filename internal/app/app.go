package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	_ "github.com/lib/pq"

	"AutoPress/internal/config"
	"AutoPress/internal/engine"
	"AutoPress/internal/infrastructure/llm"
	"AutoPress/internal/infrastructure/scheduler"
	"AutoPress/internal/infrastructure/search"
	"AutoPress/internal/infrastructure/storage"
	"AutoPress/internal/logging"
	"AutoPress/internal/server"
	"AutoPress/internal/slug"
	"AutoPress/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	db         *sql.DB
	repository *storage.PostgresRepository
	server     *server.Server
	scheduler  *usecase.Scheduler
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repository := storage.NewPostgresRepository(db)

	pool := engine.NewPool(cfg.Engines.Preferred, baseLogger.With("component", "engines"))
	pool.Register(llm.NewOpenAIEngine(cfg.Engines.OpenAI))
	pool.Register(llm.NewGeminiEngine(cfg.Engines.Gemini))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Search:      search.NewBraveClient(cfg.Search, baseLogger.With("component", "search")),
		Repository:  repository,
		Notifier:    repository,
		Engines:     pool,
		Slugs:       slug.NewAllocator(repository, nil),
		Rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger:      baseLogger.With("component", "pipeline"),
		SearchCount: cfg.Search.Count,
	})

	brands := cfg.EnabledBrandProfiles()

	app := &Application{
		cfg:        cfg,
		logger:     baseLogger,
		db:         db,
		repository: repository,
		server:     server.New(cfg.Server.Addr, pipeline, pool, brands, baseLogger.With("component", "server")),
	}

	if cfg.Scheduler.Enabled {
		driver := scheduler.NewIntervalScheduler(cfg.Scheduler.Every())
		app.scheduler = usecase.NewScheduler(driver, pipeline, brands, baseLogger.With("component", "scheduler"))
	}

	return app, nil
}

// Run bootstraps the schema, starts the optional scheduler, and serves HTTP
// until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.repository.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}

	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer func() { _ = a.scheduler.Stop(context.Background()) }()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", a.cfg.Server.Addr)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
