package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleRequester UserRole = "requester"
	UserRoleAuditor   UserRole = "auditor"
	UserRoleAdmin     UserRole = "admin"

	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User is a staff account on the portal. Field staff submit requests;
// auditors work the queue; admins manage accounts and inventory refresh.
type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	FullName     string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAuditor reports whether the user may work the audit queue.
func (u *User) IsAuditor() bool {
	return u.Role == UserRoleAuditor || u.Role == UserRoleAdmin
}

type PasswordResetToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
