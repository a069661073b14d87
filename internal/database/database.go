package database

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"love-journal-backend/internal/config"
	"love-journal-backend/internal/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DB owns the process-wide connection pool. The pool is rebuilt from scratch
// when a health check fails or a caller marks it stale.
type DB struct {
	mu        sync.RWMutex
	pool      *pgxpool.Pool
	stale     atomic.Bool
	opTimeout time.Duration

	open func(ctx context.Context) (*pgxpool.Pool, error)
	ping func(ctx context.Context, pool *pgxpool.Pool) error
}

// Open creates the pool and verifies it with a ping
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	db := newDB(cfg.OpTimeout, func(ctx context.Context) (*pgxpool.Pool, error) {
		poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to parse database config: %w", err)
		}
		if cfg.MaxConns > 0 {
			poolCfg.MaxConns = cfg.MaxConns
		}
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
		return pgxpool.NewWithConfig(ctx, poolCfg)
	}, nil)

	pool, err := db.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.pool = pool

	if err := db.pingPool(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func newDB(
	opTimeout time.Duration,
	open func(ctx context.Context) (*pgxpool.Pool, error),
	ping func(ctx context.Context, pool *pgxpool.Pool) error,
) *DB {
	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}
	if ping == nil {
		ping = func(ctx context.Context, pool *pgxpool.Pool) error {
			return pool.Ping(ctx)
		}
	}
	return &DB{opTimeout: opTimeout, open: open, ping: ping}
}

// Pool returns the current pool
func (d *DB) Pool() *pgxpool.Pool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pool
}

// MarkStale forces the next Check to rebuild the pool
func (d *DB) MarkStale() {
	d.stale.Store(true)
}

// Check pings the pool and rebuilds it when the ping fails or it was marked stale
func (d *DB) Check(ctx context.Context) error {
	pool := d.Pool()
	if pool != nil && !d.stale.Load() {
		err := d.pingPool(ctx, pool)
		if err == nil {
			return nil
		}
		log.Warn().Err(err).Msg("Database health check failed, reconnecting")
	}
	return d.reconnect(ctx, pool)
}

func (d *DB) reconnect(ctx context.Context, seen *pgxpool.Pool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Another request already swapped the pool in
	if d.pool != seen && d.pool != nil && !d.stale.Load() {
		return nil
	}

	// The old pool stays in place (closed) until a new one is ready, so
	// concurrent callers get "closed pool" errors instead of a nil pool.
	if d.pool != nil {
		d.pool.Close()
	}

	// Until a new pool is installed the closed one must not pass a Check.
	d.stale.Store(true)

	pool, err := d.open(ctx)
	if err != nil {
		return fmt.Errorf("failed to reconnect to database: %w", err)
	}
	if err := d.pingPool(ctx, pool); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database after reconnect: %w", err)
	}

	d.pool = pool
	d.stale.Store(false)
	metrics.StoreReconnects.Inc()
	log.Info().Msg("Database connection re-established")
	return nil
}

func (d *DB) pingPool(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, d.opTimeout)
	defer cancel()
	return d.ping(ctx, pool)
}

// WithTx runs fn inside a transaction, committing when fn returns nil
func (d *DB) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, d.Pool(), fn)
}

// Close releases the pool
func (d *DB) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pool != nil {
		d.pool.Close()
	}
}
