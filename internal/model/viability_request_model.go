package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ViabilityRequest struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	RequesterId uuid.UUID      `gorm:"type:uuid;not null;index:idx_viability_requester_created,priority:1"`
	Kind        string         `gorm:"type:varchar(10);not null;index:idx_viability_kind_status,priority:1"`
	Code        string         `gorm:"type:varchar(16);not null"`
	Lat         float64        `gorm:"not null"`
	Lon         float64        `gorm:"not null"`
	Status      string         `gorm:"type:varchar(20);not null;index:idx_viability_kind_status,priority:2;index:idx_viability_status"`
	Resolution  datatypes.JSON `gorm:"type:jsonb"`
	AuditorId   *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index:idx_viability_requester_created,priority:2"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (ViabilityRequest) TableName() string {
	return "viability_requests"
}
