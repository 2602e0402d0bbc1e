package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jmgilman/go/repometa"
	"github.com/jmgilman/go/repometa/cache"
	"github.com/jmgilman/go/repometa/engine"
	"github.com/jmgilman/go/repometa/executor"
	"github.com/jmgilman/go/repometa/internal/config"
	"github.com/jmgilman/go/repometa/internal/logging"
	"github.com/jmgilman/go/repometa/service"
)

// app is the wired application: cache, executor pool and service.
type app struct {
	cfg      config.Config
	logger   logging.Logger
	registry *prometheus.Registry
	provider cache.Provider
	cache    *cache.Cache
	pool     *executor.Pool
	svc      *service.Service
	repoOpts []repometa.Option
	closers  []func() error
}

func newApp(ctx context.Context, cfg config.Config, stderr io.Writer) (*app, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewTextLogger(stderr, level)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	a.provider, err = a.newProvider(ctx)
	if err != nil {
		return nil, err
	}
	a.cache = cache.New(a.provider,
		cache.WithLogger(logger.With("component", "cache")),
		cache.WithRegisterer(a.registry),
	)

	loc := engine.NewLocator(osfs.New("/"), cfg.StorageRoot)
	a.pool = executor.NewPool(a.newRunner(loc),
		executor.WithWorkers(cfg.Executor.Workers),
		executor.WithQueueSize(cfg.Executor.QueueSize),
		executor.WithRetries(cfg.Executor.Retries, cfg.Executor.RetryBase),
		executor.WithPoolLogger(logger.With("component", "executor")),
	)
	if cfg.Executor.InvalidateOnComplete {
		repometa.InvalidateOnCompletion(a.pool, a.cache, repometa.WithLogger(logger))
	}
	if err := a.pool.Start(ctx); err != nil {
		_ = a.closeProviders()
		return nil, err
	}

	a.repoOpts = []repometa.Option{
		repometa.WithOpener(repometa.LocatorOpener(loc)),
		repometa.WithCache(a.cache),
		repometa.WithQueue(a.pool),
		repometa.WithLogger(logger),
	}
	a.svc = service.New(service.NewRepositoryOpener(a.repoOpts...),
		service.WithProtectionStore(a.newProtectionStore()),
		service.WithLogger(logger.With("component", "service")),
	)

	logger.Debug(ctx, "application ready",
		"storage_root", cfg.StorageRoot,
		"cache", cfg.Cache.Provider,
		"runner", cfg.Executor.Runner)

	return a, nil
}

// newProvider builds the configured cache provider.
func (a *app) newProvider(ctx context.Context) (cache.Provider, error) {
	switch a.cfg.Cache.Provider {
	case config.CacheFile:
		return cache.NewFile(osfs.New("/"), a.cfg.Cache.Dir)
	case config.CachePostgres:
		db, err := cache.OpenPostgres(a.cfg.Cache.DSN)
		if err != nil {
			return nil, err
		}
		if err := cache.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return cache.NewPostgres(db), nil
	default:
		return cache.NewMemory(a.cfg.Cache.MaxEntries), nil
	}
}

// newProtectionStore keeps protection flags in the cache provider when it
// persists them. The memory provider evicts, so flags get their own store.
func (a *app) newProtectionStore() service.ProtectionStore {
	if a.cfg.Cache.Provider == config.CacheMemory {
		return service.NewMemoryProtectionStore()
	}

	return service.NewProviderProtectionStore(a.provider)
}

func (a *app) newRunner(loc *engine.Locator) executor.Runner {
	if a.cfg.Executor.Runner == config.RunnerCLI {
		return executor.NewCLIRunner(nil, loc)
	}

	return executor.NewEngineRunner(loc)
}

// open opens a repository with the application's cache and queue.
func (a *app) open(identifier, defaultBranch string) (*repometa.Repository, error) {
	repo, err := repometa.Open(identifier, defaultBranch, a.repoOpts...)
	if err != nil {
		return nil, err
	}
	if !repo.Exists() {
		return nil, fmt.Errorf("repository %q: %w", identifier, repometa.ErrNoHandle)
	}

	return repo, nil
}

// Close waits for queued mutations, writes metrics when metricsFile is set
// and releases the cache provider.
func (a *app) Close(metricsFile string) error {
	err := a.pool.Close()
	if metricsFile != "" {
		err = errors.Join(err, prometheus.WriteToTextfile(metricsFile, a.registry))
	}

	return errors.Join(err, a.closeProviders())
}

func (a *app) closeProviders() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}

	return errors.Join(errs...)
}
