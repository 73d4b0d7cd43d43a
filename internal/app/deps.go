package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumeview/backend/internal/catalog"
	"github.com/lumeview/backend/internal/config"
	"github.com/lumeview/backend/internal/db"
	"github.com/lumeview/backend/internal/handlers"
	"github.com/lumeview/backend/internal/middleware"
	"github.com/lumeview/backend/internal/positions"
	"github.com/lumeview/backend/internal/resolver"
	"github.com/lumeview/backend/internal/session"
	"github.com/lumeview/backend/internal/storage"
)

// albumWatcher adapts the catalog live query to the session watcher surface.
type albumWatcher struct {
	lister   catalog.AlbumLister
	interval time.Duration
	logger   *slog.Logger
}

func (w albumWatcher) WatchAlbum(albumID int64) session.AlbumFeed {
	return catalog.WatchAlbum(w.lister, albumID, w.interval, w.logger)
}

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. The returned cleanup drains background workers and tears down live
// sessions; it must be called before process exit.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, func(context.Context) error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store := catalog.NewStore(pool)
	gateway := catalog.NewGateway(store, logger)

	var share handlers.ShareLinker
	var saver handlers.MediaSaver
	var objectHeads resolver.ObjectHeader
	if cfg.ObjectStore.Bucket != "" {
		source, err := storage.NewS3MediaSource(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.Dependencies{}, nil, fmt.Errorf("configure object store: %w", err)
		}
		share = source
		saver = source
		objectHeads = source
	}

	prober := resolver.NewCachingProber(
		resolver.NewProber(&http.Client{Timeout: cfg.ProbeTimeout}, objectHeads),
		cfg.ProbeCacheTTL,
	)
	resolvePool := resolver.NewPool(resolver.New(store, prober, logger), resolver.PoolConfig{
		QueueSize: cfg.ResolveQueueSize,
		Workers:   cfg.ResolveWorkers,
		Timeout:   cfg.ProbeTimeout * 3,
	}, logger)

	posStore, redisClient, err := buildPositionStore(cfg)
	if err != nil {
		return handlers.Dependencies{}, nil, err
	}

	registry := session.NewRegistry(cfg.SessionIdleTTL, logger)
	watcher := albumWatcher{lister: store, interval: cfg.AlbumPollInterval, logger: logger}

	newSession := func(secure bool) *session.Controller {
		return session.New(secure, session.Config{
			Resolver:      resolvePool,
			Watcher:       watcher,
			Positions:     posStore,
			Gateway:       gateway,
			ActionTimeout: cfg.ActionTimeout,
			Logger:        logger,
		})
	}

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitPerMinute, time.Minute, cfg.RateLimitBurst, 10*time.Minute)

	cleanup := func(ctx context.Context) error {
		registry.Stop()
		err := resolvePool.Shutdown(ctx)
		if redisClient != nil {
			if closeErr := redisClient.Close(); err == nil {
				err = closeErr
			}
		}
		return err
	}

	return handlers.Dependencies{
		Sessions:   registry,
		NewSession: newSession,
		Catalog:    store,
		Media:      saver,
		Share:      share,
		Limiter:    limiter,
	}, cleanup, nil
}

// buildPositionStore picks Redis when configured, falling back to the
// in-process store.
func buildPositionStore(cfg config.Config) (session.PositionStore, *redis.Client, error) {
	if cfg.RedisURL == "" {
		return positions.NewMemoryStore(), nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	return positions.NewRedisStore(client, 0), client, nil
}
