package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		coins         INTEGER NOT NULL DEFAULT 1000 CHECK (coins >= 0 AND coins <= 2147483647)
	);`,
	`CREATE TABLE IF NOT EXISTS items (
		id                 SERIAL PRIMARY KEY,
		name               VARCHAR(100) NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		price              INTEGER NOT NULL DEFAULT 0 CHECK (price >= 0),
		is_food            BOOLEAN NOT NULL DEFAULT FALSE,
		is_toy             BOOLEAN NOT NULL DEFAULT FALSE,
		health_increase    INTEGER NOT NULL DEFAULT 0 CHECK (health_increase >= 0),
		happiness_increase INTEGER NOT NULL DEFAULT 0 CHECK (happiness_increase >= 0),
		energy_increase    INTEGER NOT NULL DEFAULT 0 CHECK (energy_increase >= 0)
	);`,
	`CREATE TABLE IF NOT EXISTS pets (
		id            SERIAL PRIMARY KEY,
		owner_id      INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		name          VARCHAR(25) NOT NULL,
		species       VARCHAR(50) NOT NULL DEFAULT '',
		age           INTEGER NOT NULL DEFAULT 0,
		health        INTEGER NOT NULL DEFAULT 100,
		max_health    INTEGER NOT NULL DEFAULT 100,
		happiness     INTEGER NOT NULL DEFAULT 100,
		max_happiness INTEGER NOT NULL DEFAULT 100,
		energy        INTEGER NOT NULL DEFAULT 100,
		max_energy    INTEGER NOT NULL DEFAULT 100,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS user_inventory (
		id         SERIAL PRIMARY KEY,
		user_id    INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		item_id    INTEGER NOT NULL REFERENCES items (id) ON DELETE CASCADE,
		quantity   INTEGER NOT NULL CHECK (quantity > 0 AND quantity <= 2147483647),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, item_id)
	);`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id         SERIAL PRIMARY KEY,
		user_id    INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		item_id    INTEGER NOT NULL REFERENCES items (id) ON DELETE CASCADE,
		quantity   INTEGER NOT NULL,
		amount     INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS purchases_user_created_idx ON purchases (user_id, created_at DESC);`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		coins         INTEGER NOT NULL DEFAULT 1000 CHECK (coins >= 0 AND coins <= 2147483647)
	);`,
	`CREATE TABLE IF NOT EXISTS items (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		name               TEXT NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		price              INTEGER NOT NULL DEFAULT 0 CHECK (price >= 0),
		is_food            BOOLEAN NOT NULL DEFAULT 0,
		is_toy             BOOLEAN NOT NULL DEFAULT 0,
		health_increase    INTEGER NOT NULL DEFAULT 0 CHECK (health_increase >= 0),
		happiness_increase INTEGER NOT NULL DEFAULT 0 CHECK (happiness_increase >= 0),
		energy_increase    INTEGER NOT NULL DEFAULT 0 CHECK (energy_increase >= 0)
	);`,
	`CREATE TABLE IF NOT EXISTS pets (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id      INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		species       TEXT NOT NULL DEFAULT '',
		age           INTEGER NOT NULL DEFAULT 0,
		health        INTEGER NOT NULL DEFAULT 100,
		max_health    INTEGER NOT NULL DEFAULT 100,
		happiness     INTEGER NOT NULL DEFAULT 100,
		max_happiness INTEGER NOT NULL DEFAULT 100,
		energy        INTEGER NOT NULL DEFAULT 100,
		max_energy    INTEGER NOT NULL DEFAULT 100,
		created_at    TIMESTAMP NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS user_inventory (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		item_id    INTEGER NOT NULL REFERENCES items (id) ON DELETE CASCADE,
		quantity   INTEGER NOT NULL CHECK (quantity > 0 AND quantity <= 2147483647),
		created_at TIMESTAMP NOT NULL,
		UNIQUE (user_id, item_id)
	);`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		item_id    INTEGER NOT NULL REFERENCES items (id) ON DELETE CASCADE,
		quantity   INTEGER NOT NULL,
		amount     INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS purchases_user_created_idx ON purchases (user_id, created_at DESC);`,
}

func schema(d Dialect) []string {
	if d == SQLite {
		return sqliteSchema
	}
	return postgresSchema
}

// Apply creates any missing tables. Every statement is idempotent, so it is
// safe to run on each start.
func Apply(ctx context.Context, db execer, d Dialect) error {
	for i, stmt := range schema(d) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "repo: apply schema statement %d", i)
		}
	}
	return nil
}
