package unitofwork

import (
	"context"

	"ftth-viability-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ViabilityRequestRepository() contract.ViabilityRequestRepository
}
