package gorm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/narwhalmedia/catalog/internal/application"
)

type txKey struct{}

// UnitOfWork implements the Unit of Work pattern for GORM. Repositories
// find the open transaction in the context returned by Transaction.Context.
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a new GORM-based unit of work
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Begin starts a new transaction. A context that already carries a
// transaction joins it; only the outermost Commit commits.
func (u *UnitOfWork) Begin(ctx context.Context) (application.Transaction, error) {
	if outer, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return &gormTransaction{tx: outer, ctx: ctx, nested: true}, nil
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}

	return &gormTransaction{
		tx:  tx,
		ctx: context.WithValue(ctx, txKey{}, tx),
	}, nil
}

// gormTransaction implements the Transaction interface for GORM
type gormTransaction struct {
	tx     *gorm.DB
	ctx    context.Context
	nested bool
	done   bool
}

// Commit commits the transaction
func (t *gormTransaction) Commit() error {
	if t.nested {
		return nil
	}
	if err := t.tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	t.done = true
	return nil
}

// Rollback rolls back the transaction
func (t *gormTransaction) Rollback() error {
	if t.nested || t.done {
		return nil
	}
	t.done = true
	if err := t.tx.Rollback().Error; err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// Context returns the transaction context
func (t *gormTransaction) Context() context.Context {
	return t.ctx
}

// conn returns the transaction in ctx, or db bound to ctx.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// WithTransaction executes a function within a transaction
func WithTransaction(ctx context.Context, uow application.UnitOfWork, fn func(ctx context.Context) error) error {
	tx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx.Context()); err != nil {
		return err
	}
	return tx.Commit()
}
