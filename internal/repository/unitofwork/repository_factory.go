package unitofwork

import "context"

// RepositoryFactory hands a unit of work to each service call. Services
// depend on this seam, which is what the test fakes stand in for.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
