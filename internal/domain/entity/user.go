package entity

import "time"

// User holds the credentials behind every profile.
// PasswordHash is a bcrypt hash.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the personal data shared by buyers, sellers and staff.
type Profile struct {
	FirstName string
	LastName  string
	Phone     string
	Avatar    string
	City      string
}
