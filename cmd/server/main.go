package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/costcraft/recipecost-be/internal/config"
	"github.com/costcraft/recipecost-be/internal/logger"
	"github.com/costcraft/recipecost-be/internal/server"
	"github.com/costcraft/recipecost-be/internal/storage"
	"github.com/costcraft/recipecost-be/internal/storage/postgres"
	"github.com/costcraft/recipecost-be/internal/storage/sqlite"
)

func main() {
	logger.Init()
	defer logger.Sync()
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalw("load config", "error", err)
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Log.Fatalw("init database", "error", err)
	}
	defer store.Close()

	srv := server.New(cfg, store)

	go func() {
		logger.Log.Infow("recipecost backend listening", "addr", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalw("http server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Log.Errorw("graceful shutdown error", "error", err)
	}
}

// openStore selects the storage backend from the DATABASE_URL shape: a
// postgres:// URL gets the pgx pool, anything else is treated as a SQLite
// file path.
func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.UsesPostgres() {
		return postgres.NewStore(ctx, cfg.DatabaseURL)
	}
	return sqlite.NewStore(ctx, cfg.DatabaseURL)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Log.Infow("no .env file found; relying on existing environment")
	}
}
