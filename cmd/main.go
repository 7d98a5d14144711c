package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"petShop/internal/config"
	"petShop/internal/handler"
	"petShop/internal/handler/mw"
	"petShop/internal/logger"
	"petShop/internal/repository"
	"petShop/internal/server"
	"petShop/internal/usecase"
)

func main() {
	os.Exit(run())
}

// run wires the service and blocks until the HTTP server stops. It returns the
// process exit code so deferred cleanup runs before exiting.
func run() int {
	cfg, err := config.NewConfig()
	if err != nil {
		bootLog := logger.New("petshop", "info")
		bootLog.Error().Err(err).Msg("failed to load config")
		return 1
	}
	log := logger.New("petshop", cfg.LogLevel)

	repo, err := openRepo(cfg)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.DBDriver).Msg("failed to init repository")
		return 1
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close repository")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = repo.Migrate(ctx)
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("failed to apply schema")
		return 1
	}

	svc := usecase.NewService(repo,
		usecase.WithLogger(log.With().Str("component", "usecase").Logger()),
		usecase.WithStartingCoins(cfg.StartingCoins),
		usecase.WithChargePerUnit(cfg.ChargePerUnit),
	)
	auth := mw.NewAuth([]byte(cfg.JWTSecret))
	limiter := mw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log)
	h := handler.NewHandler(svc, auth, limiter, log)
	r := server.NewRouter(h)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if err := server.StartHTTPServer(srv, log); err != nil {
		log.Error().Err(err).Msg("http server stopped")
		return 1
	}
	log.Info().Msg("http server stopped")
	return 0
}

func openRepo(cfg *config.Config) (*repository.Repo, error) {
	if cfg.DBDriver == config.DriverSQLite {
		return repository.NewSQLiteRepo(cfg.SQLitePath)
	}
	return repository.NewPostgresRepo(cfg.DSN())
}
