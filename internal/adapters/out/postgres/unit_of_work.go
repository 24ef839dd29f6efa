// Package postgres provides the GORM-based Unit of Work and the shared database
// connection used by every PostgreSQL adapter.
//
// A unit of work spans the order and user repositories, so placing an order
// can consume the user's pending penalty and insert the order atomically, and a
// cancellation can update the order and accrue the penalty atomically.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(conn)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	penalty, err := uow.UserRepository().ConsumePendingPenalty(ctx, userID)
//	if err != nil {
//	    return err
//	}
//	if err := uow.OrderRepository().Add(ctx, order); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides isolated transactions
//   - Multiple goroutines should use separate UnitOfWork instances
//   - Order updates are version-checked; penalty updates lock or upsert the user row
package postgres

import (
	"context"

	"orderlifecycle/internal/adapters/out/postgres/orderrepo"
	"orderlifecycle/internal/adapters/out/postgres/userrepo"
	"orderlifecycle/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances on the connection's current handle.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	conn *Connection
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	conn, err := postgres.Open(ctx, dsn, logger)
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(conn)
func NewGormUnitOfWorkFactory(conn *Connection) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{conn: conn}
}

// Create produces a new UnitOfWork instance bound to the handle current at call time,
// so a unit of work created after a reconnect uses the fresh pool.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.conn.DB()}
}

// GormUnitOfWork coordinates one database transaction across the order and user repositories.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns error if no active transaction exists or if the commit operation fails.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction after a commit, which the deferred
// rollback in command handlers ignores.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderRepository provides order persistence within the unit of work.
// Without an active transaction it uses the main connection.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.current())
}

// UserRepository provides penalty balance access within the unit of work.
// ConsumePendingPenalty relies on the row lock held until Commit.
func (uow *GormUnitOfWork) UserRepository() ports.UserRepository {
	return userrepo.NewGormUserRepository(uow.current())
}

func (uow *GormUnitOfWork) current() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
