package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/receipts/internal/auth"
	"github.com/mmynk/receipts/internal/config"
	"github.com/mmynk/receipts/internal/handler"
	"github.com/mmynk/receipts/internal/middleware"
	"github.com/mmynk/receipts/internal/service"
	"github.com/mmynk/receipts/internal/storage"
	"github.com/mmynk/receipts/internal/storage/postgres"
	"github.com/mmynk/receipts/internal/storage/sqlite"
	"github.com/mmynk/receipts/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.Setup(cfg.LogLevel)
	if cfg.DevSecret {
		logger.Warn("JWT_SECRET not set, using development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, logger)
	receiptSvc := service.NewReceiptService(store, logger)
	h := handler.NewHandler(authSvc, receiptSvc, middleware.NewMetrics(), logger)

	// h2c serves HTTP/2 without TLS alongside HTTP/1.1.
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           h2c.NewHandler(h, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server exited")
	return nil
}

// openStore picks Postgres when DATABASE_URL is set and SQLite otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	if cfg.DatabaseURL != "" {
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
		logger.Info("Storage initialized", "backend", "postgres")
		return store, nil
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
	}
	logger.Info("Storage initialized", "backend", "sqlite", "database", cfg.DBPath)
	return store, nil
}
