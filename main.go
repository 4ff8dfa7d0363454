package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creative-assigner/domain/model"
	"creative-assigner/domain/repository"
	"creative-assigner/infrastructure/cache"
	"creative-assigner/infrastructure/clients/adplatform"
	"creative-assigner/infrastructure/configuration"
	"creative-assigner/infrastructure/logger"
	"creative-assigner/infrastructure/persistence"
	"creative-assigner/infrastructure/pubsub"
	"creative-assigner/infrastructure/realtime"
	"creative-assigner/infrastructure/servicebus"
	httpHandler "creative-assigner/interfaces/http"
	"creative-assigner/server"
	"creative-assigner/usecase"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	cfg := configuration.C
	app := cfg.App

	registry := model.DefaultPlatforms().Restrict(cfg.EnabledPlatforms())
	redisClient := InitiateRedis(ctx, cfg.RedisClient)
	gateways := InitiateGateways(ctx, cfg, registry, redisClient)

	audit, closeAudit := InitiateAudit(cfg.Database.Driver)
	defer closeAudit()

	var library repository.IAssetLibrary
	if cfg.Database.MySql.Configured() {
		db, err := persistence.NewAssetLibraryDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Asset library not available - accepting posted asset metadata")
		} else {
			library = persistence.NewAssetLibraryRepository(db)
			logger.GetLogger().Info("Asset library connected")
		}
	}

	sink, closeSink := InitiateEventSink(ctx, cfg)
	defer closeSink()

	hub := realtime.NewHub()
	sessionUsecase := usecase.NewSessionUsecase(
		usecase.SessionConfig{
			DropCooldown:      cfg.Assignment.DropCooldown(),
			LockRelease:       cfg.Assignment.LockRelease(),
			SubmitTimeout:     cfg.Assignment.SubmitTimeout(),
			SubmitHardTimeout: cfg.Assignment.SubmitHardTimeout(),
		},
		usecase.SessionDeps{
			Platforms: registry,
			Gateways:  gateways,
			Library:   library,
			Audit:     audit,
			Sink:      sink,
		},
		func(s *usecase.Session) { s.Subscribe(hub.Broadcast) },
	)
	directoryUsecase := usecase.NewDirectoryUsecase(gateways)

	router := server.InitiateRouter(
		httpHandler.NewHealthHandler(),
		httpHandler.NewDirectoryHandler(directoryUsecase, sessionUsecase, library),
		httpHandler.NewSessionHandler(sessionUsecase, audit, hub),
		app.SecretKey,
		app.AllowedOrigins,
	)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{
		"port":      port,
		"tls":       app.TLSEnabled,
		"platforms": registry.Names(),
	}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Assignment.SubmitTimeout()+5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}
	if err := sessionUsecase.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Submissions still in flight at shutdown")
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateRedis returns nil when redis is not configured or not reachable; the
// directory is then served uncached.
func InitiateRedis(ctx context.Context, cfg configuration.RedisClient) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	client := cache.NewRedisClient(cfg)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - directory listings will not be cached")
		_ = client.Close()
		return nil
	}
	logger.GetLogger().Info("Redis client initialized successfully.")
	return client
}

// InitiateGateways picks the HTTP gateway for every platform with a base URL and
// the mock platform for the rest.
func InitiateGateways(ctx context.Context, cfg configuration.Config, registry model.PlatformRegistry, rdb *redis.Client) map[model.Platform]repository.IAdPlatform {
	settings := make(map[model.Platform]configuration.PlatformConfig, len(cfg.Platforms))
	for _, p := range cfg.Platforms {
		settings[model.Platform(p.Name).Normalize()] = p
	}

	var cmd redis.Cmdable
	if rdb != nil {
		cmd = rdb
	}

	gateways := make(map[model.Platform]repository.IAdPlatform, len(registry))
	for _, name := range registry.Names() {
		desc := registry[name]
		var gw repository.IAdPlatform
		if s := settings[name]; s.BaseURL != "" {
			gw = adplatform.NewClient(ctx, desc, s.BaseURL, s.AccessToken)
			logger.GetLogger().WithFields(map[string]interface{}{"platform": name, "baseURL": s.BaseURL}).Info("Using platform gateway")
		} else {
			gw = adplatform.NewMockPlatform(desc)
			logger.GetLogger().WithField("platform", name).Info("No gateway configured - using mock platform")
		}
		gateways[name] = cache.NewDirectoryCache(gw, cmd, cfg.Assignment.DirectoryCacheTTL())
	}
	return gateways
}

// InitiateAudit opens the submission audit store selected by driver. Audit is
// best effort, so a store that cannot be opened disables it.
func InitiateAudit(driver string) (repository.ISubmissionAudit, func()) {
	var (
		db    *sql.DB
		err   error
		audit repository.ISubmissionAudit
	)
	switch driver {
	case "mssql":
		if db, err = persistence.NewMSSQLDB(); err == nil {
			if err = persistence.EnsureSubmissionSchemaMSSQL(db); err == nil {
				audit = persistence.NewSubmissionRepositoryMSSQL(db)
			}
		}
	case "postgres":
		if db, err = persistence.NewPostgreSQLDB(); err == nil {
			if err = persistence.EnsureSubmissionSchema(db); err == nil {
				audit = persistence.NewSubmissionRepository(db)
			}
		}
	default:
		logger.GetLogger().Info("Submission audit disabled")
		return nil, func() {}
	}
	if err != nil {
		logger.GetLogger().WithField("driver", driver).WithField("error", err).Error("Submission audit not available")
		if db != nil {
			_ = db.Close()
		}
		return nil, func() {}
	}
	logger.GetLogger().WithField("driver", driver).Info("Database connected.")
	return audit, func() { _ = db.Close() }
}

// InitiateEventSink connects the configured forwarder for submission events.
func InitiateEventSink(ctx context.Context, cfg configuration.Config) (repository.IEventSink, func()) {
	topic := cfg.Events.Topic
	if topic == "" {
		topic = "creative-assigner-events"
	}
	switch cfg.Events.Sink {
	case "pubsub":
		client, err := pubsub.NewPubSub(ctx, cfg.Pubsub.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while instantiate PubSub")
			return nil, func() {}
		}
		publisher := pubsub.NewEventPublisher(client, topic)
		return publisher, func() {
			publisher.Close()
			_ = client.Close()
		}
	case "servicebus":
		client, err := servicebus.NewServiceBus(cfg.ServiceBus.Namespace)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - submission events will not be forwarded")
			return nil, func() {}
		}
		return servicebus.NewEventSender(client, topic), func() { _ = client.Close(context.Background()) }
	}
	return nil, func() {}
}
