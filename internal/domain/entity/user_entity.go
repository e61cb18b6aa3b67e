package entity

import (
	"time"
)

// Role is a user authorization role.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User is the aggregate root for the member domain.
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	Role        Role
	AvatarURL   string
	IsVerified  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
