package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/gatehouse/pkg/api"
	"github.com/platinummonkey/gatehouse/pkg/auth"
	"github.com/platinummonkey/gatehouse/pkg/config"
	"github.com/platinummonkey/gatehouse/pkg/middleware"
	"github.com/platinummonkey/gatehouse/pkg/observability"
	"github.com/platinummonkey/gatehouse/pkg/sessions"
	"github.com/platinummonkey/gatehouse/pkg/storage"
	"github.com/platinummonkey/gatehouse/pkg/users"

	"github.com/go-redis/redis/v8"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, os.Stdout)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the relational store and prepare its schema
	db, dialect, err := storage.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	log.WithFields(logrus.Fields{"driver": cfg.Storage.Driver}).Info("Database connected")

	userStore, err := users.NewDBStore(db, dialect)
	if err != nil {
		log.Fatalf("Failed to initialize user store: %v", err)
	}
	if err := userStore.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize user schema: %v", err)
	}

	// Sessions live in Redis when a URL is configured, otherwise in the
	// same database as the users.
	var sessionStore sessions.Store
	var redisClient *redis.Client
	if cfg.Session.RedisURL != "" {
		redisStore, err := sessions.NewRedisStore(cfg.Session.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		sessionStore = redisStore
		redisClient = redisStore.Client()
		defer redisClient.Close()
		log.Info("Session storage: redis")
	} else {
		dbStore := sessions.NewDBStore(db, dialect)
		if err := dbStore.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize session schema: %v", err)
		}
		sessionStore = dbStore
		log.Info("Session storage: database")
	}

	manager := sessions.NewManager(sessionStore, sessions.Options{
		TTL:          cfg.Session.TTL,
		Rolling:      cfg.Session.Rolling,
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.CookieSecure,
		Secret:       []byte(cfg.Session.Secret),
	})

	purger, err := sessions.NewPurger(sessionStore, logger, metrics, cfg.Session.PurgeSchedule)
	if err != nil {
		log.Fatalf("Failed to schedule session purge: %v", err)
	}
	purger.Start()
	defer purger.Stop()

	rateLimiter := &middleware.RateLimitConfig{
		AttemptsPerWindow: cfg.Auth.LoginRatePerMin,
		WindowDuration:    middleware.DefaultLoginRateLimitConfig().WindowDuration,
		BurstSize:         middleware.DefaultLoginRateLimitConfig().BurstSize,
	}

	server := api.NewServer(api.Options{
		Logger:            logger,
		Metrics:           metrics,
		Users:             userStore,
		Manager:           manager,
		Hasher:            auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		MinPasswordLength: cfg.Auth.MinPasswordLength,
		Verbose:           cfg.Verbose(),
		LoginRateLimit:    rateLimiter,
		AllowedOrigins:    cfg.Server.CORSOrigins,
	})

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Probes and metrics stay off the public port
	health := observability.NewHealthChecker(db, redisClient)
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", health.Liveness)
	healthMux.HandleFunc("/readyz", health.Readiness)
	healthMux.Handle("/metrics", metrics.Handler())
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr": apiServer.Addr,
			"env":  cfg.Environment,
		}).Info("Starting gatehouse server")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		log.WithFields(logrus.Fields{"addr": healthServer.Addr}).Info("Starting health server")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("API server shutdown failed")
		}
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Health server shutdown failed")
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Info("Shutdown complete")
}
