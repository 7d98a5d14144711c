package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"petShop/internal/config"
	"petShop/internal/logger"
	"petShop/internal/repository"
	"petShop/internal/usecase"
)

var (
	driverFlag string
	rootCmd    = &cobra.Command{
		Use:           "petctl",
		Short:         "Operator tool for the pet shop database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&driverFlag, "driver", "d", "", "Database driver override (postgres|sqlite)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openService loads the environment config and wires a service on top of the
// configured database. The returned func closes the database.
func openService() (*usecase.Service, *repository.Repo, func(), error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if driverFlag != "" {
		cfg.DBDriver = driverFlag
		if err := cfg.Validate(); err != nil {
			return nil, nil, nil, err
		}
	}

	var repo *repository.Repo
	if cfg.DBDriver == config.DriverSQLite {
		repo, err = repository.NewSQLiteRepo(cfg.SQLitePath)
	} else {
		repo, err = repository.NewPostgresRepo(cfg.DSN())
	}
	if err != nil {
		return nil, nil, nil, err
	}

	log := logger.NewWithWriter(os.Stderr, "petctl", cfg.LogLevel)
	svc := usecase.NewService(repo,
		usecase.WithLogger(log),
		usecase.WithStartingCoins(cfg.StartingCoins),
		usecase.WithChargePerUnit(cfg.ChargePerUnit),
	)
	return svc, repo, func() { _ = repo.Close() }, nil
}
