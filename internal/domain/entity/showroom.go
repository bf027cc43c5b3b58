package entity

import "time"

type Showroom struct {
	ID        string
	Name      string
	City      string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
