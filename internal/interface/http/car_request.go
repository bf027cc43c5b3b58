package handlers

import (
	"github.com/shopspring/decimal"

	"github.com/anycompany/carmarket/internal/application"
	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/pkg/apperror"
)

// Photos come as multipart field "image", repeated up to entity.MaxCarImages times.
type createCarRequest struct {
	Make        string          `json:"make" form:"make" binding:"required,max=60"`
	Model       string          `json:"model" form:"model" binding:"required,max=60"`
	Year        int             `json:"year" form:"year" binding:"required,min=1900,max=2100"`
	Price       decimal.Decimal `json:"price" form:"price"`
	Currency    string          `json:"currency" form:"currency"`
	Mileage     int             `json:"mileage" form:"mileage" binding:"omitempty,min=0"`
	Description string          `json:"description" form:"description" binding:"omitempty,max=2000,noprofanity"`
	Region      string          `json:"region" form:"region" binding:"omitempty,max=100"`
	Active      *bool           `json:"active" form:"active"`
}

func checkPrice(p decimal.Decimal) error {
	if !p.IsPositive() {
		return apperror.Validation("price must be greater than zero")
	}
	return nil
}

func parseCurrency(raw string) (entity.Currency, error) {
	cur, ok := entity.ParseCurrency(raw)
	if !ok {
		return "", apperror.Validation("currency must be one of USD, EUR, UAH")
	}
	return cur, nil
}

func (r createCarRequest) input() (application.CarInput, error) {
	if err := checkPrice(r.Price); err != nil {
		return application.CarInput{}, err
	}
	var cur entity.Currency
	if r.Currency != "" {
		var err error
		if cur, err = parseCurrency(r.Currency); err != nil {
			return application.CarInput{}, err
		}
	}
	return application.CarInput{
		Make:        r.Make,
		Model:       r.Model,
		Year:        r.Year,
		Price:       r.Price,
		Currency:    cur,
		Mileage:     r.Mileage,
		Description: r.Description,
		Region:      r.Region,
		Active:      r.Active,
	}, nil
}

type updateCarRequest struct {
	Make        *string          `json:"make" form:"make" binding:"omitempty,min=1,max=60"`
	Model       *string          `json:"model" form:"model" binding:"omitempty,min=1,max=60"`
	Year        *int             `json:"year" form:"year" binding:"omitempty,min=1900,max=2100"`
	Price       *decimal.Decimal `json:"price" form:"price"`
	Currency    *string          `json:"currency" form:"currency"`
	Mileage     *int             `json:"mileage" form:"mileage" binding:"omitempty,min=0"`
	Description *string          `json:"description" form:"description" binding:"omitempty,max=2000,noprofanity"`
	Region      *string          `json:"region" form:"region" binding:"omitempty,max=100"`
	Active      *bool            `json:"active" form:"active"`
}

func (r updateCarRequest) patch() (application.CarPatch, error) {
	p := application.CarPatch{
		Make:        r.Make,
		Model:       r.Model,
		Year:        r.Year,
		Price:       r.Price,
		Mileage:     r.Mileage,
		Description: r.Description,
		Region:      r.Region,
		Active:      r.Active,
	}
	if r.Price != nil {
		if err := checkPrice(*r.Price); err != nil {
			return p, err
		}
	}
	if r.Currency != nil {
		cur, err := parseCurrency(*r.Currency)
		if err != nil {
			return p, err
		}
		p.Currency = &cur
	}
	return p, nil
}
