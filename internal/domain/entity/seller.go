package entity

import "time"

type AccountType string

const (
	AccountBasic   AccountType = "basic"
	AccountPremium AccountType = "premium"
)

type Seller struct {
	ID     string
	UserID string
	Email  string
	Profile
	AccountType  AccountType
	PremiumUntil *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsPremium reports whether the premium period covers now.
func (s *Seller) IsPremium(now time.Time) bool {
	if s.AccountType != AccountPremium {
		return false
	}
	return s.PremiumUntil == nil || now.Before(*s.PremiumUntil)
}
