package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iliyamo/animula-auth/internal/config"
	"github.com/iliyamo/animula-auth/internal/database"
	"github.com/iliyamo/animula-auth/internal/handler"
	"github.com/iliyamo/animula-auth/internal/logging"
	"github.com/iliyamo/animula-auth/internal/repository"
	"github.com/iliyamo/animula-auth/internal/router"
	"github.com/iliyamo/animula-auth/internal/service"
	"github.com/iliyamo/animula-auth/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "text", "error").Error(context.Background(), "invalid configuration", "err", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel).With("env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log logging.Logger) error {
	db, err := database.Open(ctx, database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName))
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	var store repository.UserStore = repository.NewUserRepo(db)
	if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled {
		rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
		if err != nil {
			log.Warn(ctx, "redis unavailable, profile cache disabled", "err", err)
		} else {
			defer rdb.Close()
			store = repository.NewCachedProfiles(store, rdb, cacheCfg, log)
		}
	}

	var events service.EventPublisher
	if cfg.RabbitMQURL != "" {
		events = service.NewPublisher(cfg.RabbitMQURL)
	}

	svc := service.NewAuthService(
		store,
		utils.NewPasswordHasher(cfg.BcryptCost),
		utils.NewTokenIssuer(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, cfg.RefreshTTL),
		events,
		log,
	)
	defer svc.Wait()

	e := router.New(log)
	router.RegisterRoutes(e, cfg.BaseURL)
	router.RegisterAuth(e, handler.NewAuthHandler(svc, log))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.WithCORS(e, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", srv.Addr, "events", events != nil)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info(shutdownCtx, "shutting down")
	return srv.Shutdown(shutdownCtx)
}
