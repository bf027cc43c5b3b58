package entity

import "time"

type Buyer struct {
	ID     string
	UserID string
	Email  string
	Profile
	CreatedAt time.Time
	UpdatedAt time.Time
}
