package entity

import "time"

type WishlistItem struct {
	ID        string
	BuyerID   string
	CarID     string
	Car       *Car
	CreatedAt time.Time
}
