package dto

import (
	"time"

	"github.com/google/uuid"

	"ftth-viability-be/internal/entity"
)

// DisplayLocation is the regional timezone all user-facing timestamps are
// rendered in. Storage stays UTC; only DTO mapping converts.
var DisplayLocation = time.FixedZone("UTC-3", -3*60*60)

type CreateViabilityRequest struct {
	Kind string `json:"kind" validate:"required,oneof=ftth ftta"`
	Code string `json:"code" validate:"required,min=8,max=16"`
}

type CreateViabilityResponse struct {
	Id     uuid.UUID `json:"id"`
	Code   string    `json:"code"`
	Status string    `json:"status"`
}

type ResolutionResponse struct {
	CabinetID      *string    `json:"cabinet_id,omitempty"`
	CabinetLabel   *string    `json:"cabinet_label,omitempty"`
	Reason         *string    `json:"reason,omitempty"`
	RescheduleTime *time.Time `json:"reschedule_time,omitempty"`
}

type ViabilityRequestResponse struct {
	Id          uuid.UUID           `json:"id"`
	RequesterId uuid.UUID           `json:"requester_id"`
	Kind        string              `json:"kind"`
	Code        string              `json:"code"`
	Lat         float64             `json:"lat"`
	Lon         float64             `json:"lon"`
	Status      string              `json:"status"`
	Resolution  *ResolutionResponse `json:"resolution,omitempty"`
	AuditorId   *uuid.UUID          `json:"auditor_id,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// NewViabilityRequestResponse maps an entity into its API form, shifting
// timestamps into the display timezone.
func NewViabilityRequestResponse(r *entity.ViabilityRequest) *ViabilityRequestResponse {
	if r == nil {
		return nil
	}

	var resolution *ResolutionResponse
	if r.Resolution != nil {
		res := ResolutionResponse{
			CabinetID:    r.Resolution.CabinetID,
			CabinetLabel: r.Resolution.CabinetLabel,
			Reason:       r.Resolution.Reason,
		}
		if r.Resolution.RescheduleTime != nil {
			t := r.Resolution.RescheduleTime.In(DisplayLocation)
			res.RescheduleTime = &t
		}
		resolution = &res
	}

	return &ViabilityRequestResponse{
		Id:          r.Id,
		RequesterId: r.RequesterId,
		Kind:        string(r.Kind),
		Code:        r.Code,
		Lat:         r.Lat,
		Lon:         r.Lon,
		Status:      string(r.Status),
		Resolution:  resolution,
		AuditorId:   r.AuditorId,
		CreatedAt:   r.CreatedAt.In(DisplayLocation),
		UpdatedAt:   r.UpdatedAt.In(DisplayLocation),
	}
}

func NewViabilityRequestResponses(requests []*entity.ViabilityRequest) []*ViabilityRequestResponse {
	responses := make([]*ViabilityRequestResponse, len(requests))
	for i, r := range requests {
		responses[i] = NewViabilityRequestResponse(r)
	}
	return responses
}
