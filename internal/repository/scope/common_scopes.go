package scope

import "gorm.io/gorm"

// OrderByCreatedDesc lists newest records first. The notification inbox
// reads with this scope.
func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}
