package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connection owns the shared *gorm.DB handle and can replace it after the
// background loops hit a broken connection. Factories and query handlers
// ask for DB() on every use, so a reconnect is visible to the next call.
type Connection struct {
	mu     sync.RWMutex
	dsn    string
	db     *gorm.DB
	logger *slog.Logger
}

// Open connects to PostgreSQL and pings the database.
//
// Example:
//
//	conn, err := postgres.Open(ctx, dsn, logger)
//	if err != nil {
//	    log.Fatalf("failed to connect to database: %v", err)
//	}
//	defer conn.Close()
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Connection, error) {
	db, err := openGorm(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Connection{dsn: dsn, db: db, logger: logger.With("component", "postgres")}, nil
}

// NewConnection wraps an already opened handle. Reconnect reopens it with dsn.
func NewConnection(db *gorm.DB, dsn string, logger *slog.Logger) *Connection {
	return &Connection{dsn: dsn, db: db, logger: logger.With("component", "postgres")}
}

// DB returns the current handle.
func (c *Connection) DB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// Reconnect opens a fresh handle and closes the old one. On failure the old
// handle stays in place and the error is returned.
func (c *Connection) Reconnect(ctx context.Context) error {
	fresh, err := openGorm(ctx, c.dsn)
	if err != nil {
		return fmt.Errorf("reconnect: %w", err)
	}

	c.mu.Lock()
	stale := c.db
	c.db = fresh
	c.mu.Unlock()

	if sqlDB, sqlErr := stale.DB(); sqlErr == nil {
		_ = sqlDB.Close()
	}
	c.logger.InfoContext(ctx, "database connection re-established")
	return nil
}

// Close releases the underlying pool.
func (c *Connection) Close() error {
	sqlDB, err := c.DB().DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func openGorm(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}
