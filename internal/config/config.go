package config

import (
	"fmt"
	"math"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DBDriver   string `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DBPort     string `envconfig:"DATABASE_PORT" default:"5432"`
	DBUser     string `envconfig:"DATABASE_USER" default:"postgres"`
	DBPassword string `envconfig:"DATABASE_PASSWORD" default:"password"`
	DBName     string `envconfig:"DATABASE_NAME" default:"pets"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"data/pets.db"`

	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`
	JWTSecret  string `envconfig:"JWT_SECRET" default:"mysecret"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`

	StartingCoins int  `envconfig:"SHOP_STARTING_COINS" default:"1000"`
	ChargePerUnit bool `envconfig:"SHOP_CHARGE_PER_UNIT" default:"false"`

	RateLimitRPS   int `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int `envconfig:"RATE_LIMIT_BURST" default:"40"`
}

// NewConfig reads the environment, after loading a .env file from the working
// directory when one exists.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.StartingCoins < 0 || c.StartingCoins > math.MaxInt32 {
		return fmt.Errorf("SHOP_STARTING_COINS must be within [0, %d], got %d", math.MaxInt32, c.StartingCoins)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}
