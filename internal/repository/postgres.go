package repository

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"petShop/internal/usecase"
)

// Repo persists the shop in Postgres or SQLite. Outside InTx every call runs
// in its own implicit transaction.
type Repo struct {
	store
	db      *sqlx.DB
	dialect Dialect
}

func NewPostgresRepo(dsn string) (*Repo, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot ping db: %w", err)
	}
	return newRepo(db, Postgres), nil
}

func newRepo(db *sqlx.DB, d Dialect) *Repo {
	return &Repo{store: store{q: db}, db: db, dialect: d}
}

func (r *Repo) Dialect() Dialect {
	return r.dialect
}

// Migrate creates the schema for the repository's dialect.
func (r *Repo) Migrate(ctx context.Context) error {
	return Apply(ctx, r.db, r.dialect)
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repo) Close() error {
	return r.db.Close()
}

// InTx runs fn against a store bound to one database transaction, committing
// when fn returns nil and rolling back otherwise.
func (r *Repo) InTx(ctx context.Context, fn func(usecase.Store) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "repo: begin tx")
	}
	if err := fn(&store{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "repo: commit tx")
}
