package cache

import (
	"context"
	"database/sql"
	"embed"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	platformerrors "github.com/jmgilman/go/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DBTX is the subset of database/sql used by Postgres. Both *sql.DB and
// *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres is a Provider backed by the cache_entries table. Every process
// connected to the same database shares its entries.
type Postgres struct {
	db DBTX
}

// NewPostgres creates a Postgres provider. The schema must exist; see Migrate.
func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// OpenPostgres opens a connection pool through the pgx driver.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to open cache database")
	}

	return db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the embedded schema migrations to db.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to select migration dialect")
	}

	if err := gooseUpContext(ctx, db, "migrations"); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to migrate cache schema")
	}

	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := p.db.QueryRowContext(ctx, `SELECT value FROM cache_entries WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to read cache entry")
	}

	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO cache_entries (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at;
	`
	if _, err := p.db.ExecContext(ctx, query, key, value); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to write cache entry")
	}

	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = $1`, key); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to delete cache entry")
	}

	return nil
}
