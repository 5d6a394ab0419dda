package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ftth-viability-be/internal/entity"
	"ftth-viability-be/internal/mapper"
	"ftth-viability-be/internal/model"
	"ftth-viability-be/internal/repository/contract"
	"ftth-viability-be/internal/repository/specification"
	"ftth-viability-be/pkg/lifecycle"
)

type ViabilityRequestRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ViabilityRequestMapper
}

func NewViabilityRequestRepository(db *gorm.DB) contract.ViabilityRequestRepository {
	return &ViabilityRequestRepositoryImpl{
		db:     db,
		mapper: mapper.NewViabilityRequestMapper(),
	}
}

func (r *ViabilityRequestRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ViabilityRequestRepositoryImpl) Create(ctx context.Context, request *entity.ViabilityRequest) error {
	m := r.mapper.ToModel(request)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*request = *r.mapper.ToEntity(m)
	return nil
}

func (r *ViabilityRequestRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ViabilityRequest, error) {
	var m model.ViabilityRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ViabilityRequestRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ViabilityRequest, error) {
	var models []*model.ViabilityRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ViabilityRequestRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ViabilityRequest{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ViabilityRequestRepositoryImpl) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected lifecycle.Status, fields map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ViabilityRequest{}).
		Where("id = ? AND status = ?", id, string(expected)).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	// RowsAffected == 0 means the optimistic check failed: the record was
	// transitioned by someone else between read and write (or it does not
	// exist). The caller decides which of those it is.
	return result.RowsAffected == 1, nil
}
