package contract

import (
	"context"

	"github.com/google/uuid"

	"ftth-viability-be/internal/entity"
	"ftth-viability-be/internal/repository/specification"
	"ftth-viability-be/pkg/lifecycle"
)

type ViabilityRequestRepository interface {
	Create(ctx context.Context, request *entity.ViabilityRequest) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ViabilityRequest, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ViabilityRequest, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// UpdateStatusIf performs the conditional write every lifecycle
	// transition rides on: fields are applied only if the stored status
	// still equals expected. Returns false (no error) on conflict, so the
	// caller can distinguish contention from infrastructure failure.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, expected lifecycle.Status, fields map[string]interface{}) (bool, error)
}
