// Package postgres provides the PostgreSQL record-store adapter.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/caucusdesk/caucusdesk/pkg/observability/logger"
)

// Adapter provides PostgreSQL connectivity with connection pooling.
type Adapter struct {
	db     *sql.DB
	logger logger.Logger
	config Config
}

// Config holds PostgreSQL connection configuration.
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	QueryTimeout    time.Duration
}

// NewAdapter opens a pooled connection and verifies it with a ping.
func NewAdapter(cfg Config, log logger.Logger) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("PostgreSQL connection established",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
		"conn_max_lifetime", cfg.ConnMaxLifetime,
		"conn_max_idle_time", cfg.ConnMaxIdleTime,
	)

	return &Adapter{db: db, logger: log, config: cfg}, nil
}

// NewAdapterWithDB wraps an existing database handle, used by tests that
// drive the adapter with a mocked connection.
func NewAdapterWithDB(db *sql.DB, cfg Config, log logger.Logger) *Adapter {
	return &Adapter{db: db, logger: log, config: cfg}
}

// DB returns the underlying *sql.DB for direct access when needed.
func (a *Adapter) DB() *sql.DB {
	return a.db
}

// Ping verifies the database connection is alive.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// HealthCheck verifies the database connection is healthy with a timeout.
func (a *Adapter) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := a.db.PingContext(ctx); err != nil {
		a.logger.Error("PostgreSQL health check failed", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}

// Close gracefully closes the database connection.
func (a *Adapter) Close() error {
	a.logger.Info("closing PostgreSQL connection")

	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close PostgreSQL connection", "error", err)
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}

// WithTransaction executes fn within a transaction, rolling back when fn
// returns an error or panics, committing otherwise.
func (a *Adapter) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				a.logger.Error("failed to rollback transaction after panic",
					"panic", p,
					"rollback_error", rbErr,
				)
			}
			panic(p)
		}
	}()

	txCtx := context.WithValue(ctx, txContextKey, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			a.logger.Error("failed to rollback transaction",
				"original_error", err,
				"rollback_error", rbErr,
			)
			return fmt.Errorf("failed to rollback transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// contextKey is the key type used to store transactions in context.
type contextKey string

const txContextKey contextKey = "tx"

// GetTx extracts a transaction from the context, if present, so nested
// operations share the same transaction.
func GetTx(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txContextKey).(*sql.Tx)
	return tx, ok
}

// ExecContext executes a statement with the transaction from context if
// available, otherwise on the pooled connection.
func (a *Adapter) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	queryCtx, cancel := a.withQueryTimeout(ctx)
	if cancel != nil {
		defer cancel()
	}
	if tx, ok := GetTx(ctx); ok {
		return tx.ExecContext(queryCtx, query, args...)
	}
	return a.db.ExecContext(queryCtx, query, args...)
}

// QueryContext executes a query with the transaction from context if
// available, otherwise on the pooled connection. The derived timeout context
// must stay alive after this method returns: the caller iterates the rows
// afterwards, and canceling the context closes them mid-scan. Release is
// therefore handed to releaseOnDone instead of a defer.
func (a *Adapter) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	queryCtx, cancel := a.withQueryTimeout(ctx)

	var rows *sql.Rows
	var err error
	if tx, ok := GetTx(ctx); ok {
		rows, err = tx.QueryContext(queryCtx, query, args...)
	} else {
		rows, err = a.db.QueryContext(queryCtx, query, args...)
	}
	if err != nil {
		if cancel != nil {
			cancel()
		}
		return nil, err
	}

	releaseOnDone(queryCtx, cancel)
	return rows, nil
}

// QueryRowContext executes a single-row query with the transaction from
// context if available, otherwise on the pooled connection. As with
// QueryContext, the caller scans the row after return, so the timeout
// context is released by releaseOnDone rather than a defer.
func (a *Adapter) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	queryCtx, cancel := a.withQueryTimeout(ctx)

	var row *sql.Row
	if tx, ok := GetTx(ctx); ok {
		row = tx.QueryRowContext(queryCtx, query, args...)
	} else {
		row = a.db.QueryRowContext(queryCtx, query, args...)
	}

	releaseOnDone(queryCtx, cancel)
	return row
}

// withQueryTimeout derives a timeout context when the configuration asks for
// one and the caller has not already set a deadline. A nil cancel means no
// context was derived.
func (a *Adapter) withQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.QueryTimeout <= 0 {
		return ctx, nil
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, nil
	}
	return context.WithTimeout(ctx, a.config.QueryTimeout)
}

// releaseOnDone frees a derived timeout context once it expires or its
// parent ends. The query timeout bounds execution plus result iteration, so
// the context cannot be canceled on method return.
func releaseOnDone(ctx context.Context, cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
}
