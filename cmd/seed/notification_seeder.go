package main

import (
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ftth-viability-be/internal/model"
)

// SeedNotificationTypes populates the registry the event worker resolves
// incoming event codes against.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		{
			Code:        "VIABILITY_CREATED",
			DisplayName: "New Viability Request",
			Template:    "New {kind} request for location {code}",
			TargetType:  "ROLE",
			TargetRole:  "auditor",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "VIABILITY_CLAIMED",
			DisplayName: "Request Under Review",
			Template:    "Your request is now under review",
			TargetType:  "SELF",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "VIABILITY_APPROVED",
			DisplayName: "Request Approved",
			Template:    "Your request was approved. Assigned cabinet: {cabinet_label}",
			TargetType:  "SELF",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "VIABILITY_REJECTED",
			DisplayName: "Request Rejected",
			Template:    "Your request was rejected: {reason}",
			TargetType:  "SELF",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "VIABILITY_RESCHEDULED",
			DisplayName: "Visit Rescheduled",
			Template:    "Your request was returned to the queue. Proposed time: {reschedule_time}",
			TargetType:  "SELF",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
	}

	for _, t := range types {
		if err := db.Where("code = ?", t.Code).FirstOrCreate(&t).Error; err != nil {
			log.Printf("Error seeding notification type %s: %v", t.Code, err)
		}
	}
	log.Println("✅ Notification types seeded successfully.")
}
