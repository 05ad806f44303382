// @title       CareCircle API
// @version     1.0
// @description Coordinación del cuidado de un familiar.
// @BasePath    /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carecircle/internal/adapters/auth/identity"
	"carecircle/internal/adapters/blobstore"
	"carecircle/internal/adapters/cachestore"
	pg "carecircle/internal/adapters/storage/postgres"
	"carecircle/internal/domain/reminders"
	"carecircle/internal/platform/config"
	"carecircle/internal/platform/logger"
	"carecircle/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("config error", map[string]any{"error": err})
		os.Exit(1)
	}

	lg := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	code := 0
	if err := run(cfg, lg); err != nil {
		lg.Error("server error", map[string]any{"error": err})
		code = 1
	}
	if zl, ok := lg.(*logger.ZapLogger); ok {
		_ = zl.Sync()
	}
	os.Exit(code)
}

func run(cfg config.Config, lg logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := router.Options{
		Logger:            lg,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		CommunityCacheTTL: cfg.CommunityCacheTTL,
		Reminders: reminders.Config{
			Interval:  cfg.ReminderInterval,
			Lookahead: cfg.ReminderLookahead,
		},
	}

	// Storage: Postgres si hay DSN, si no in-memory.
	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := pg.Migrate(ctx, db); err != nil {
			return err
		}
		opts.DB = db
		lg.Info("storage: postgres", nil)
	} else {
		lg.Warn("storage: in-memory (DB_DSN not set)", nil)
	}

	if cfg.RedisURL != "" {
		rc, err := cachestore.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()
		opts.Cache = rc
		lg.Info("cache: redis", nil)
	}

	if cfg.DocumentsDir != "" {
		fs, err := blobstore.NewFilesystem(cfg.DocumentsDir)
		if err != nil {
			return err
		}
		opts.Blobs = fs
		lg.Info("documents: filesystem", map[string]any{"dir": cfg.DocumentsDir})
	}

	// Sin AUTH_BASE_URL => modo dev con X-Debug-User-ID.
	if cfg.AuthBaseURL != "" {
		client, err := identity.NewClient(identity.Config{
			BaseURL: cfg.AuthBaseURL,
			APIKey:  cfg.AuthAPIKey,
			Timeout: cfg.AuthTimeout,
		})
		if err != nil {
			return err
		}
		opts.AuthVerifier = identity.NewVerifier(client)
	} else {
		lg.Warn("auth: dev mode (X-Debug-User-ID)", nil)
	}

	app := router.Build(opts)

	if cfg.SeedDemo {
		recID, err := app.LoadDemo(ctx, cfg.SeedOwnerID, lg)
		if err != nil {
			return err
		}
		lg.Info("seed: demo circle ready", map[string]any{"recipient_id": recID, "owner": cfg.SeedOwnerID})
	}

	done := make(chan struct{})
	if cfg.RemindersEnabled {
		go func() {
			defer close(done)
			app.Reminders.Run(ctx)
		}()
	} else {
		close(done)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      app.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	lg.Info("shutting down", nil)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	<-done
	return err
}
