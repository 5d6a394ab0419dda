package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"ftth-viability-be/internal/entity"
	"ftth-viability-be/pkg/lifecycle"
)

// ByRequester scopes queries to one requester's records (ownership rule).
type ByRequester struct {
	RequesterID uuid.UUID
}

func (s ByRequester) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("requester_id = ?", s.RequesterID)
}

// ByStatus filters by a single lifecycle status.
type ByStatus struct {
	Status lifecycle.Status
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

// ByStatuses filters by any of the given statuses.
type ByStatuses struct {
	Statuses []lifecycle.Status
}

func (s ByStatuses) Apply(db *gorm.DB) *gorm.DB {
	values := make([]string, len(s.Statuses))
	for i, st := range s.Statuses {
		values[i] = string(st)
	}
	return db.Where("status IN ?", values)
}

// ByKind filters by request kind (FTTH vs FTTA).
type ByKind struct {
	Kind entity.RequestKind
}

func (s ByKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("kind = ?", string(s.Kind))
}

// ByAuditor filters by the auditor who claimed the request.
type ByAuditor struct {
	AuditorID uuid.UUID
}

func (s ByAuditor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("auditor_id = ?", s.AuditorID)
}
