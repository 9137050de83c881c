package unitofwork

import "context"

// RepositoryFactory hands out fresh units of work. Services hold the
// factory, never a unit of work, so each request gets its own.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
