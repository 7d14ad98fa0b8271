package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"launchpad/internal/auth"
	"launchpad/internal/config"
	transporthttp "launchpad/internal/http"
	"launchpad/internal/platform/database"
	"launchpad/internal/platform/logging"
	"launchpad/internal/platform/migrate"
	"launchpad/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel)

	userRepo, sessionRepo, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	notifier := users.NewNotifier()
	userSvc := users.NewService(userRepo, notifier)
	authSvc := auth.NewService(sessionRepo, userSvc, cfg.SessionTTL)

	var provider *auth.Authenticator
	if cfg.AuthEnabled() {
		provider, err = auth.NewAuthenticator(ctx,
			cfg.OIDCIssuerURL, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL,
			cfg.AllowedAuthDomains, cfg.AllowedAuthEmails)
		if err != nil {
			logger.Error("failed to initialize oidc provider", "error", err)
			os.Exit(1)
		}
	}

	var router http.Handler
	if provider != nil {
		router = transporthttp.NewRouter(cfg, provider, authSvc, userSvc, notifier, logger)
	} else {
		router = transporthttp.NewRouter(cfg, nil, authSvc, userSvc, notifier, logger)
	}

	go cleanupSessions(ctx, authSvc, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// WriteTimeout must stay 0: the profile event stream holds its
		// response open indefinitely.
		WriteTimeout:   0,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: http.DefaultMaxHeaderBytes,
	}

	go func() {
		logger.Info("Launchpad API listening", "addr", srv.Addr, "store", cfg.DataStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (users.Repository, auth.SessionRepository, func(), error) {
	if cfg.UseInMemoryStore() {
		logger.Info("using in-memory repository")
		return users.NewInMemoryRepository(seedLocalUsers()), auth.NewInMemorySessionRepository(), nil, nil
	}

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {
		_ = db.Close()
	}

	if err := migrate.Apply(ctx, db, logger); err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	logger.Info("connected to postgres")
	return users.NewPostgresRepository(db), auth.NewPostgresRepository(db), cleanup, nil
}

func cleanupSessions(ctx context.Context, authSvc *auth.Service, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := authSvc.CleanupExpiredSessions(ctx)
			if err != nil {
				logger.Warn("session cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				logger.Info("expired sessions removed", "count", removed)
			}
		}
	}
}
