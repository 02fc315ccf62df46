package application

import (
	"context"
)

// UnitOfWork defines the interface for managing transactions across repositories
type UnitOfWork interface {
	// Begin starts a new transaction. Repositories called with the returned
	// transaction's Context take part in it.
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction represents a database transaction
type Transaction interface {
	Commit() error
	// Rollback is a no-op after a successful Commit, so it can be deferred.
	Rollback() error
	Context() context.Context
}
