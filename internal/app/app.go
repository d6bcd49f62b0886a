package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stacknscroll/linkd/internal/cache"
	"github.com/stacknscroll/linkd/internal/config"
	"github.com/stacknscroll/linkd/internal/httpserver"
	"github.com/stacknscroll/linkd/internal/httpserver/deps"
	"github.com/stacknscroll/linkd/internal/logger"
	"github.com/stacknscroll/linkd/internal/preview"
	"github.com/stacknscroll/linkd/internal/redis"
	"github.com/stacknscroll/linkd/internal/scheduler"
	"github.com/stacknscroll/linkd/internal/service"
	"github.com/stacknscroll/linkd/internal/sources/seed"
	"github.com/stacknscroll/linkd/internal/store"
	badgerstore "github.com/stacknscroll/linkd/internal/store/badger"
	redisstore "github.com/stacknscroll/linkd/internal/store/redis"
	"github.com/stacknscroll/linkd/internal/version"
)

type App struct {
	cfg       *config.Config
	logger    logger.Logger
	server    *httpserver.Server
	repo      store.Repository
	links     *service.Links
	importer  *seed.Importer
	reloader  *scheduler.CacheReloader
	refresher *scheduler.PreviewRefresher
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize the backing store early - fail fast if unavailable
	repo := openStore(cfg, loggerClient)

	linkCache := cache.New(repo, cfg.Owner, loggerClient)

	extractor := preview.NewClient(preview.Options{
		Timeout:   cfg.FetchTimeout,
		UserAgent: fmt.Sprintf("linkd/%s (+https://github.com/stacknscroll/linkd)", version.Version),
	}, loggerClient)

	links := service.New(repo, linkCache, extractor, cfg.Owner, loggerClient)

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	// Initialize cache reloader
	reloader := scheduler.NewCacheReloader(
		linkCache,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	// Initialize preview refresher
	refresher := scheduler.NewPreviewRefresher(
		repo,
		extractor,
		cfg.Owner,
		cfg.RefreshBatch,
		loggerClient,
		cfg.RefreshInterval,
	)

	// Initialize seed importer (if a seed file is configured)
	var importer *seed.Importer
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, initializing importer",
			logger.String("file", cfg.SeedFile))
		importer = seed.NewImporter(cfg.SeedFile, links, loggerClient)
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		Links:         links,
		Store:         repo,
		CacheLoaded:   linkCache.Loaded,
		ReloadTrigger: reloadTrigger,
		TrustProxy:    cfg.TrustProxy,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:       cfg,
		logger:    loggerClient,
		server:    server,
		repo:      repo,
		links:     links,
		importer:  importer,
		reloader:  reloader,
		refresher: refresher,
	}
}

func openStore(cfg *config.Config, log logger.Logger) store.Repository {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDialTimeout,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, log)
		if err != nil {
			log.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		log.Info("Redis initialized successfully")
		return redisstore.NewStore(client)
	default:
		log.Infof("Opening badger store at %s", cfg.BadgerDir)
		repo, err := badgerstore.Open(cfg.BadgerDir, log)
		if err != nil {
			log.Errorf("Failed to open badger store: %v", err)
			os.Exit(1)
		}
		log.Info("Badger store initialized successfully")
		return repo
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Linkd v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Linkd %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start cache reloader (performs the initial load and keeps refreshing)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start cache reloader: %w", err)
	}
	a.logger.Info("cache reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	// Import seed links (if configured) now that the cache mirrors the store
	if a.importer != nil {
		if _, err := a.importer.Run(ctx); err != nil {
			a.logger.Warn("seed import failed", logger.Error(err))
		}
	}

	// Start preview refresher
	a.refresher.Start(ctx)
	a.logger.Info("preview refresher started",
		logger.Duration("interval", a.cfg.RefreshInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	// Stop background work
	a.reloader.Stop()
	a.refresher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := a.repo.Close(); err != nil {
		a.logger.Warnf("failed to close store: %v", err)
	} else {
		a.logger.Info("✅ Store closed cleanly")
	}

	a.logger.Info("✅ Linkd stopped cleanly")
	return nil
}
