package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/shopcore/backend/internal/api"
	"github.com/shopcore/backend/internal/audit"
	"github.com/shopcore/backend/internal/auth"
	"github.com/shopcore/backend/internal/blob"
	"github.com/shopcore/backend/internal/cart"
	"github.com/shopcore/backend/internal/catalog"
	"github.com/shopcore/backend/internal/config"
	"github.com/shopcore/backend/internal/logging"
	"github.com/shopcore/backend/internal/metrics"
	"github.com/shopcore/backend/internal/password"
	"github.com/shopcore/backend/internal/session"
	mongostore "github.com/shopcore/backend/internal/store/mongo"
	"github.com/shopcore/backend/internal/token"
)

func main() {
	// Missing .env is fine outside development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.New("error", false).Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.IsProduction())

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	mongoClient, err := mongostore.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Close(closeCtx); err != nil {
			log.Warn("mongo close", "error", err)
		}
	}()
	if err := mongoClient.EnsureIndexes(connectCtx); err != nil {
		return err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	sessions := session.NewCache(rdb)
	if err := sessions.Ping(connectCtx); err != nil {
		return err
	}

	issuer, err := token.NewIssuer(token.Config{
		AccessSecret:  []byte(cfg.AccessTokenSecret),
		RefreshSecret: []byte(cfg.RefreshTokenSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		Issuer:        "shopcore",
	})
	if err != nil {
		return err
	}

	hasher, err := password.NewHasher(password.DefaultConfig())
	if err != nil {
		return err
	}

	dispatcher := audit.NewDispatcher(audit.Config{
		Enabled:    cfg.AuditLogEnabled,
		BufferSize: 256,
		DropIfFull: true,
	}, audit.NewJSONWriterSink(os.Stdout))
	defer dispatcher.Close()

	m := metrics.New()

	authSvc := auth.NewService(mongoClient.Users(), sessions, issuer, hasher, dispatcher, m, log)
	catalogSvc := catalog.NewService(mongoClient.Products(), rdb, blob.NewPassthroughUploader(), m, log)
	cartSvc := cart.NewService(mongoClient.Users(), mongoClient.Products(), log)

	cookies := api.NewCookies(cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.IsProduction())
	server := api.NewServer(authSvc, catalogSvc, cartSvc, cookies, m, log)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", httpServer.Addr, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
