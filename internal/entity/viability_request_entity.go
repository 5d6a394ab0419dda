package entity

import (
	"time"

	"github.com/google/uuid"

	"ftth-viability-be/pkg/lifecycle"
)

type RequestKind string

const (
	KindFTTH RequestKind = "ftth" // residential (house)
	KindFTTA RequestKind = "ftta" // building / condominium
)

func ValidKind(k RequestKind) bool {
	return k == KindFTTH || k == KindFTTA
}

// Resolution is the structured outcome of an audit. Exactly one branch is
// populated, chosen by the request status: cabinet reference for approvals,
// reason text for rejections, proposed time for reschedules.
type Resolution struct {
	CabinetID      *string    `json:"cabinet_id,omitempty"`
	CabinetLabel   *string    `json:"cabinet_label,omitempty"`
	Reason         *string    `json:"reason,omitempty"`
	RescheduleTime *time.Time `json:"reschedule_time,omitempty"`
}

// ViabilityRequest is a feasibility check for connecting a location to the
// network. Mutated only through lifecycle transitions, never by direct
// field edits.
type ViabilityRequest struct {
	Id          uuid.UUID
	RequesterId uuid.UUID
	Kind        RequestKind
	Code        string // user-facing location code, preserved verbatim
	Lat         float64
	Lon         float64
	Status      lifecycle.Status
	Resolution  *Resolution
	AuditorId   *uuid.UUID // set iff status is not pending
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
