// ABOUTME: Wires configuration, logging, cache and transport into the acquisition pipeline
// ABOUTME: Shared by every subcommand; call close when the command finishes

package main

import (
	"context"
	"fmt"
	"io"

	"shelf-widgets/core/fetcher"
	"shelf-widgets/core/interfaces"
	"shelf-widgets/core/reading"
	"shelf-widgets/core/relay"
	"shelf-widgets/core/snapshot"
	"shelf-widgets/infrastructure/cache/memory"
	"shelf-widgets/infrastructure/cache/redis"
	"shelf-widgets/infrastructure/cache/sqlite"
	stdhttp "shelf-widgets/infrastructure/http/standard"
	"shelf-widgets/infrastructure/logger/structured"
	"shelf-widgets/pkg/config"
	"shelf-widgets/pkg/featureflags"
)

// app holds the process-wide collaborators
type app struct {
	cfg     *config.Config
	deps    interfaces.Dependencies
	flags   featureflags.Manager
	fetcher *fetcher.Fetcher
	closers []io.Closer
}

// newApp loads configuration and builds the dependencies
func newApp(envFiles []string) (*app, error) {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := structured.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		flags:   featureflags.NewEnvManager("SHELF_"),
		closers: []io.Closer{logger},
	}

	a.deps = interfaces.Dependencies{
		Cache:      a.newCache(logger),
		HTTPClient: a.newHTTPClient(),
		Logger:     logger,
	}
	a.fetcher = fetcher.New(a.deps.HTTPClient,
		fetcher.WithTimeout(cfg.Fetch.Timeout),
		fetcher.WithMaxBodyBytes(cfg.Fetch.MaxBodyBytes),
	)

	logger.Debug("Configuration loaded", map[string]interface{}{
		"user_id":    cfg.Goodreads.UserID,
		"cache_type": cfg.Cache.Type,
		"relays":     cfg.Goodreads.Relays,
		"snapshot":   cfg.Snapshot.Location,
		"flags":      a.flags.GetAllFlags(),
	})

	return a, nil
}

// newCache creates the configured backend, falling back to memory when it cannot be opened
func (a *app) newCache(logger interfaces.Logger) interfaces.Cache {
	cfg := a.cfg.Cache

	switch cfg.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Redis)
		if err == nil {
			a.closers = append(a.closers, redisCache)
			logger.Debug("Using Redis cache", map[string]interface{}{"address": cfg.Redis.Address})
			return redisCache
		}
		logger.Warn("Failed to create Redis cache, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.SQLite.Path, logger)
		if err == nil {
			a.closers = append(a.closers, sqliteCache)
			logger.Debug("Using SQLite cache", map[string]interface{}{"path": cfg.SQLite.Path})
			return sqliteCache
		}
		logger.Warn("Failed to open SQLite cache, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return memory.NewMemoryCacheWithCleanup(cfg.Memory.CleanupInterval)
}

func (a *app) newHTTPClient() *stdhttp.StandardHTTPClient {
	opts := []stdhttp.Option{
		stdhttp.WithRetries(a.cfg.Fetch.Retries),
		stdhttp.WithUserAgent(a.cfg.Fetch.UserAgent),
	}
	if a.flags.IsEnabled(context.Background(), featureflags.RateLimitEnabled) {
		opts = append(opts, stdhttp.WithRateLimit(a.cfg.Fetch.RateLimit, a.cfg.Fetch.RateBurst))
	}
	// Deadlines come from the fetcher's per-call context
	return stdhttp.NewStandardHTTPClient(0, opts...)
}

// store returns the snapshot cache store
func (a *app) store() *snapshot.Store {
	return snapshot.NewStore(a.deps.Cache, a.deps.Logger,
		snapshot.WithKey(a.cfg.Cache.Key),
		snapshot.WithTTL(a.cfg.Cache.TTL),
	)
}

// orchestrator builds the acquisition pipeline. Nil relays means the configured ones.
func (a *app) orchestrator(presenter interfaces.Presenter, relays []relay.Relay) (*reading.Orchestrator, error) {
	if relays == nil {
		var err error
		relays, err = relay.ByNames(a.cfg.Goodreads.Relays)
		if err != nil {
			return nil, err
		}
	}

	return reading.New(reading.Dependencies{
		Store:     a.store(),
		Static:    snapshot.NewStaticSource(a.cfg.Snapshot.Location, a.fetcher),
		Fetcher:   a.fetcher,
		Presenter: presenter,
		Logger:    a.deps.Logger,
		Flags:     a.flags,
	}, reading.Config{
		UserID:      a.cfg.Goodreads.UserID,
		FeedBaseURL: a.cfg.Goodreads.FeedBaseURL,
		Relays:      relays,
	}), nil
}

// close releases the cache and log file, last opened first
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}
