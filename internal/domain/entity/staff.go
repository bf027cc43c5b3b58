package entity

import "time"

// StaffMember is a role profile inside a scope. ShowroomID is empty for the platform scope.
type StaffMember struct {
	ID         string
	UserID     string
	Email      string
	Scope      Scope
	Role       Role
	ShowroomID string
	Profile
	CreatedAt time.Time
	UpdatedAt time.Time
}
