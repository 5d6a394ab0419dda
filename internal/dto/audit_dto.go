package dto

import (
	"time"

	"github.com/google/uuid"

	"ftth-viability-be/pkg/matcher"
)

type ClaimResponse struct {
	Id        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	AuditorId uuid.UUID `json:"auditor_id"`
}

type CandidatesRequest struct {
	// Code lets the auditor correct a mistyped location code. When set the
	// workflow re-decodes and re-runs the matcher; it never reuses a stale
	// candidate list across a coordinate edit.
	Code    *string  `json:"code,omitempty" validate:"omitempty,min=8,max=16"`
	RadiusM *float64 `json:"radius_m,omitempty" validate:"omitempty,gt=0,lte=10000"`
	Limit   *int     `json:"limit,omitempty" validate:"omitempty,gt=0,lte=50"`
}

type CandidatesResponse struct {
	RequestId        uuid.UUID           `json:"request_id"`
	Code             string              `json:"code"`
	Lat              float64             `json:"lat"`
	Lon              float64             `json:"lon"`
	InventoryVersion time.Time           `json:"inventory_version"`
	Candidates       []matcher.Candidate `json:"candidates"`
}

type ApproveRequest struct {
	CabinetID string `json:"cabinet_id" validate:"required"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=5,max=500"`
}

type RescheduleRequest struct {
	NewTime time.Time `json:"new_time" validate:"required"`
}
