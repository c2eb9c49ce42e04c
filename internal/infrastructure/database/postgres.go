package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/config"
)

// PostgresDB owns the connection pool and its lifecycle
type PostgresDB struct {
	Pool   *pgxpool.Pool
	Config config.DatabaseConfig
}

func NewPostgresDB(cfg config.DatabaseConfig) *PostgresDB {
	return &PostgresDB{Config: cfg}
}

func (db *PostgresDB) configurePool() (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(db.Config.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolCfg.MaxConns = int32(db.Config.MaxConns)
	poolCfg.MinConns = int32(db.Config.MinConns)
	poolCfg.MaxConnLifetime = db.Config.MaxConnLifetime
	poolCfg.MaxConnIdleTime = db.Config.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = db.Config.HealthCheckPeriod
	poolCfg.ConnConfig.ConnectTimeout = db.Config.ConnectTimeout

	return poolCfg, nil
}

// retryDelay doubles the base delay on every attempt: 1s, 2s, 4s, ...
func retryDelay(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(1<<uint(attempt-1))
}

func (db *PostgresDB) connectWithRetry(ctx context.Context, poolCfg *pgxpool.Config) (*pgxpool.Pool, error) {
	maxRetries := max(db.Config.MaxRetries, 1)
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Info().Int("attempt", attempt).Int("max", maxRetries).Msg("[DATABASE] Connection attempt")

		connectCtx, cancel := context.WithTimeout(ctx, db.Config.ConnectTimeout)
		pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
		cancel()

		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				log.Info().Int("attempt", attempt).Msg("[DATABASE] Connected")
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err
		log.Warn().Err(lastErr).Int("attempt", attempt).Msg("[DATABASE] Attempt failed")

		if attempt < maxRetries {
			delay := retryDelay(db.Config.RetryDelay, attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", maxRetries, lastErr)
}

// Connect configures the pool and connects with exponential backoff
func (db *PostgresDB) Connect(ctx context.Context) error {
	log.Info().Str("host", db.Config.Host).Str("database", db.Config.Database).Msg("[DATABASE] Initializing PostgreSQL connection")

	poolCfg, err := db.configurePool()
	if err != nil {
		return fmt.Errorf("pool configuration failed: %w", err)
	}

	pool, err := db.connectWithRetry(ctx, poolCfg)
	if err != nil {
		return err
	}
	db.Pool = pool

	return nil
}

// Ping is used by the /health endpoint
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database not connected")
	}
	return db.Pool.Ping(ctx)
}

// Stats logs the pool counters
func (db *PostgresDB) Stats() {
	if db.Pool == nil {
		return
	}
	s := db.Pool.Stat()
	log.Debug().
		Int32("total", s.TotalConns()).
		Int32("idle", s.IdleConns()).
		Int32("acquired", s.AcquiredConns()).
		Msg("[DATABASE] Pool stats")
}

func (db *PostgresDB) Close() {
	if db.Pool != nil {
		log.Info().Msg("[DATABASE] Closing connection pool")
		db.Pool.Close()
	}
}
