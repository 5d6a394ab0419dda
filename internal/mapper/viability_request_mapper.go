package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"ftth-viability-be/internal/entity"
	"ftth-viability-be/internal/model"
	"ftth-viability-be/pkg/lifecycle"
)

type ViabilityRequestMapper struct{}

func NewViabilityRequestMapper() *ViabilityRequestMapper {
	return &ViabilityRequestMapper{}
}

func (m *ViabilityRequestMapper) ToEntity(r *model.ViabilityRequest) *entity.ViabilityRequest {
	if r == nil {
		return nil
	}

	var resolution *entity.Resolution
	if len(r.Resolution) > 0 {
		var res entity.Resolution
		if err := json.Unmarshal(r.Resolution, &res); err == nil {
			resolution = &res
		}
	}

	return &entity.ViabilityRequest{
		Id:          r.Id,
		RequesterId: r.RequesterId,
		Kind:        entity.RequestKind(r.Kind),
		Code:        r.Code,
		Lat:         r.Lat,
		Lon:         r.Lon,
		Status:      lifecycle.Status(r.Status),
		Resolution:  resolution,
		AuditorId:   r.AuditorId,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (m *ViabilityRequestMapper) ToModel(r *entity.ViabilityRequest) *model.ViabilityRequest {
	if r == nil {
		return nil
	}

	var resolution datatypes.JSON
	if r.Resolution != nil {
		if raw, err := json.Marshal(r.Resolution); err == nil {
			resolution = datatypes.JSON(raw)
		}
	}

	return &model.ViabilityRequest{
		Id:          r.Id,
		RequesterId: r.RequesterId,
		Kind:        string(r.Kind),
		Code:        r.Code,
		Lat:         r.Lat,
		Lon:         r.Lon,
		Status:      string(r.Status),
		Resolution:  resolution,
		AuditorId:   r.AuditorId,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (m *ViabilityRequestMapper) ToEntities(requests []*model.ViabilityRequest) []*entity.ViabilityRequest {
	entities := make([]*entity.ViabilityRequest, len(requests))
	for i, r := range requests {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
