// Package postgres persists character snapshots in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/steelkilt/internal/config"
)

// ApplicationName is reported to the server for every pooled connection.
const ApplicationName = "steelkilt"

// ErrSchemaMissing is returned by SchemaReady when the characters table has
// not been migrated into the database.
var ErrSchemaMissing = errors.New("characters table missing; run migrations")

// Pool wraps a pgx connection pool shared by the snapshot repositories.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool creates a new PostgreSQL connection pool from the given configuration.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a connected Pool or a non-nil error. Every
// connection identifies itself as ApplicationName.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// SchemaReady reports whether the characters table exists.
//
// Postcondition: Returns nil, ErrSchemaMissing, or the query error.
func (p *Pool) SchemaReady(ctx context.Context) error {
	var ok bool
	if err := p.pool.QueryRow(ctx, `SELECT to_regclass('characters') IS NOT NULL`).Scan(&ok); err != nil {
		return fmt.Errorf("checking schema: %w", err)
	}
	if !ok {
		return ErrSchemaMissing
	}
	return nil
}

// Close releases all pool resources.
//
// Postcondition: The pool is no longer usable after calling Close.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool for use by repositories.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}

// Characters returns a CharacterRepository sharing this pool.
func (p *Pool) Characters() *CharacterRepository {
	return NewCharacterRepository(p.pool)
}
