package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/andresuchdata/warehouseiq/internal/config"
)

const defaultMaxConns = 10

// DB is a sqlx pool whose queries and transactions share a bounded number of
// connection slots, so a burst of snapshot reads queues instead of failing.
type DB struct {
	*sqlx.DB
	slots *semaphore.Weighted
}

// NewDB connects to postgres and sizes the pool from cfg.MaxConns.
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	conn, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres %s:%s/%s: %w", cfg.Host, cfg.Port, cfg.DBName, err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	conn.SetMaxOpenConns(maxConns)
	conn.SetMaxIdleConns(max(1, maxConns/2))
	conn.SetConnMaxLifetime(5 * time.Minute)

	return &DB{DB: conn, slots: semaphore.NewWeighted(int64(maxConns))}, nil
}

func (db *DB) acquire(ctx context.Context) (func(), error) {
	if err := db.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("wait for db connection slot: %w", err)
	}
	return func() { db.slots.Release(1) }, nil
}

// SelectContext runs a read inside a connection slot.
func (db *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	release, err := db.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return db.DB.SelectContext(ctx, dest, query, args...)
}

// WithTx runs fn in a transaction, rolling back when fn fails.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	release, err := db.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("postgres: rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
