package specification

import "gorm.io/gorm"

// Specification is a composable query predicate. Repositories fold a list
// of them over the base query, so services never build SQL conditions.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
