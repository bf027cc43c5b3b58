package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyUAH Currency = "UAH"
)

// Currencies lists the supported currencies in display order.
var Currencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyUAH}

// ParseCurrency accepts any letter case.
func ParseCurrency(s string) (Currency, bool) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyUAH:
		return c, true
	}
	return "", false
}

// MaxCarImages bounds the photos attached to one listing.
const MaxCarImages = 8

type Car struct {
	ID          string
	SellerID    string
	Make        string
	Model       string
	Year        int
	Price       decimal.Decimal
	Currency    Currency
	Mileage     int
	Description string
	Region      string
	Active      bool
	Images      []CarImage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CarImage struct {
	ID        string
	CarID     string
	URL       string
	Position  int
	CreatedAt time.Time
}

// CarFilter narrows public listings. Zero values are ignored.
type CarFilter struct {
	SellerID string
	Make     string
	Model    string
	Region   string
	YearFrom int
	YearTo   int
	// ActiveOnly hides listings their seller switched off.
	ActiveOnly bool
}
