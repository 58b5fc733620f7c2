package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/algoquest/internal/achievements"
	"github.com/abhisek/algoquest/internal/app"
	"github.com/abhisek/algoquest/internal/cache"
	"github.com/abhisek/algoquest/internal/challenge"
	"github.com/abhisek/algoquest/internal/config"
	"github.com/abhisek/algoquest/internal/content"
	"github.com/abhisek/algoquest/internal/learner"
	"github.com/abhisek/algoquest/internal/llm"
	"github.com/abhisek/algoquest/internal/logging"
	"github.com/abhisek/algoquest/internal/screen"
	"github.com/abhisek/algoquest/internal/store"
	"github.com/abhisek/algoquest/internal/tutor"
)

// environment is everything a command needs once the store is open.
type environment struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *store.Store
	catalog *content.Catalog
	learner *learner.Service
}

// openEnvironment loads config and content, opens the store and makes
// sure the local profile exists.
func openEnvironment(cmd *cobra.Command, logger *slog.Logger) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.New(cfg.Level(), cmd.ErrOrStderr())
	}

	catalog, err := content.Load()
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	events := st.EventRepo()
	l := learner.NewService(events, st.ProfileRepo(),
		achievements.NewService(catalog.Achievements, events),
		learner.WithSnapshots(st.SnapshotRepo()),
		learner.WithLogger(logger),
	)
	if _, err := l.EnsureProfile(cmd.Context(), ""); err != nil {
		st.Close()
		return nil, fmt.Errorf("ensure profile: %w", err)
	}

	return &environment{cfg: cfg, logger: logger, store: st, catalog: catalog, learner: l}, nil
}

func (e *environment) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("close store", "error", err)
	}
}

// tutor builds the AI tutor. A missing or broken provider disables it.
func (e *environment) tutor(ctx context.Context) *tutor.Service {
	if !e.cfg.LLM.Enabled() {
		return tutor.New(nil)
	}
	p, err := llm.NewProvider(ctx, e.cfg.LLM, e.store.EventRepo(), e.logger)
	if err != nil {
		e.logger.Warn("LLM provider not configured, tutor disabled", "error", err)
		return tutor.New(nil)
	}
	return tutor.New(p)
}

func (e *environment) deps(ctx context.Context) screen.Deps {
	return screen.Deps{
		Learner: e.learner,
		Catalog: e.catalog,
		Runner:  challenge.NewRunner(),
		Tutor:   e.tutor(ctx),
		Delay:   e.cfg.DelayFor,
	}
}

// historyCache returns the redis cache when configured, else an in-process
// LRU. The returned func releases it.
func historyCache(ctx context.Context, cfg config.Config) (cache.Cache, func(), error) {
	if cfg.RedisURL == "" {
		return cache.NewMemory(cfg.CacheSize), func() {}, nil
	}
	r, err := cache.NewRedis(cfg.RedisURL, cache.WithTTL(cfg.CacheTTL))
	if err != nil {
		return nil, nil, err
	}
	if err := r.Ping(ctx); err != nil {
		r.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return r, func() { r.Close() }, nil
}

// tuiLogger writes to a file in the data dir; the terminal belongs to the UI.
func tuiLogger() (*slog.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	dir, err := store.DataDir()
	if err != nil {
		return nil, nil, err
	}
	logger, f, err := logging.OpenFile(filepath.Join(dir, "algoquest.log"), cfg.Level())
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}

// runTUI opens the environment and launches the TUI with opts.
func runTUI(cmd *cobra.Command, opts app.Options) error {
	logger, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	env, err := openEnvironment(cmd, logger)
	if err != nil {
		return err
	}
	defer env.Close()

	opts.Deps = env.deps(cmd.Context())
	opts.Logger = logger
	logger.Info("starting tui", "tutor", opts.Deps.TutorEnabled())
	return app.Run(opts)
}

// runApp launches the TUI on the home screen.
func runApp(cmd *cobra.Command) error {
	skip, _ := cmd.Flags().GetBool("no-splash")
	return runTUI(cmd, app.Options{SkipSplash: skip})
}
