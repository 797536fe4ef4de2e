package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/career-assistant/internal/cache"
	"github.com/jonathan/career-assistant/internal/config"
	"github.com/jonathan/career-assistant/internal/db"
	"github.com/jonathan/career-assistant/internal/fetch"
	"github.com/jonathan/career-assistant/internal/ingestion"
	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/logger"
	"github.com/jonathan/career-assistant/internal/profile"
)

// newGenerationClient is swapped out in tests.
var newGenerationClient = llm.NewClient

// app is the resolved configuration plus the lazily opened backends of one command run.
type app struct {
	cfg config.Config
	log *logrus.Logger

	store   profile.Store
	db      *db.DB
	cache   cache.Cache
	closers []func()
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath, os.Getenv)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return &app{cfg: cfg, log: logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)}, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// profiles opens the profile store: Postgres when a database URL is configured,
// otherwise one JSON file per profile under the data directory.
func (a *app) profiles(ctx context.Context) (profile.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	if a.cfg.DatabaseURL == "" {
		store, err := profile.NewFileStore(a.cfg.DataDir, a.log)
		if err != nil {
			return nil, err
		}
		a.store = store
		return store, nil
	}

	database, err := db.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, database.Close)
	if err := database.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	a.db = database
	a.store = database.Profiles()
	a.log.Info("using postgres profile store")
	return a.store, nil
}

// responseCache returns Redis when configured and reachable, otherwise an in-process cache.
func (a *app) responseCache(ctx context.Context) cache.Cache {
	if a.cache != nil {
		return a.cache
	}
	a.cache = cache.NewMemory()
	if a.cfg.RedisURL != "" {
		rc, err := cache.Connect(ctx, a.cfg.RedisURL, "career:")
		if err != nil {
			a.log.WithError(err).Warn("redis unavailable, using in-memory cache")
		} else {
			a.closers = append(a.closers, func() { _ = rc.Close() })
			a.cache = rc
		}
	}
	return a.cache
}

// generator builds the timeout-bounded, cached generation client.
func (a *app) generator(ctx context.Context) (llm.Client, error) {
	client, err := newGenerationClient(ctx, a.cfg.LLMConfig(), a.cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })
	client = llm.WithTimeout(client, a.cfg.Timeout.Std())
	return llm.Cached(client, a.responseCache(ctx), a.cfg.CacheTTL.Std(), a.log), nil
}

// loader returns a resume loader whose URL fetches are cached.
func (a *app) loader(ctx context.Context) *ingestion.Loader {
	opts := fetch.DefaultOptions()
	opts.UseBrowser = a.cfg.UseBrowser
	getter := fetch.NewCached(fetch.New(opts, a.log), a.responseCache(ctx), 0, a.log)
	return ingestion.NewLoader(getter)
}
