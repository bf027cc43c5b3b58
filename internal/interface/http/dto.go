package handlers

import (
	"context"
	"time"

	"github.com/anycompany/carmarket/internal/application"
	"github.com/anycompany/carmarket/internal/domain/entity"
)

type buyerDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"`
	City        string    `json:"city"`
	Avatar      string    `json:"avatar"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toBuyerDTO(b *entity.Buyer) buyerDTO {
	return buyerDTO{
		ID:          b.ID,
		UserID:      b.UserID,
		Email:       b.Email,
		FirstName:   b.FirstName,
		LastName:    b.LastName,
		PhoneNumber: b.Phone,
		City:        b.City,
		Avatar:      b.Avatar,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type sellerDTO struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Email        string     `json:"email"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	PhoneNumber  string     `json:"phoneNumber"`
	City         string     `json:"city"`
	Avatar       string     `json:"avatar"`
	AccountType  string     `json:"accountType"`
	PremiumUntil *time.Time `json:"premiumUntil,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func toSellerDTO(s *entity.Seller) sellerDTO {
	return sellerDTO{
		ID:           s.ID,
		UserID:       s.UserID,
		Email:        s.Email,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		PhoneNumber:  s.Phone,
		City:         s.City,
		Avatar:       s.Avatar,
		AccountType:  string(s.AccountType),
		PremiumUntil: s.PremiumUntil,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

type carImageDTO struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

type carDTO struct {
	ID          string            `json:"id"`
	SellerID    string            `json:"sellerId"`
	Make        string            `json:"make"`
	Model       string            `json:"model"`
	Year        int               `json:"year"`
	Price       string            `json:"price"`
	Currency    string            `json:"currency"`
	Prices      map[string]string `json:"prices,omitempty"`
	Mileage     int               `json:"mileage"`
	Description string            `json:"description"`
	Region      string            `json:"region"`
	Active      bool              `json:"active"`
	Images      []carImageDTO     `json:"images"`
	Views       *int64            `json:"views,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// carMapper renders cars with their price in every currency when rates are known.
type carMapper struct {
	Currency *application.CurrencyService
}

func (m carMapper) one(ctx context.Context, c *entity.Car) carDTO {
	out := carDTO{
		ID:          c.ID,
		SellerID:    c.SellerID,
		Make:        c.Make,
		Model:       c.Model,
		Year:        c.Year,
		Price:       c.Price.StringFixed(2),
		Currency:    string(c.Currency),
		Mileage:     c.Mileage,
		Description: c.Description,
		Region:      c.Region,
		Active:      c.Active,
		Images:      make([]carImageDTO, 0, len(c.Images)),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	for _, img := range c.Images {
		out.Images = append(out.Images, carImageDTO{ID: img.ID, URL: img.URL, Position: img.Position})
	}
	if m.Currency != nil {
		if prices := m.Currency.PricesFor(ctx, c.Price, c.Currency); prices != nil {
			out.Prices = make(map[string]string, len(prices))
			for cur, v := range prices {
				out.Prices[string(cur)] = v.StringFixed(2)
			}
		}
	}
	return out
}

func (m carMapper) many(ctx context.Context, cars []entity.Car) []carDTO {
	out := make([]carDTO, 0, len(cars))
	for i := range cars {
		out = append(out, m.one(ctx, &cars[i]))
	}
	return out
}

type wishlistDTO struct {
	ID        string    `json:"id"`
	BuyerID   string    `json:"buyerId"`
	CarID     string    `json:"carId"`
	Car       *carDTO   `json:"car,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m carMapper) wishlist(ctx context.Context, items []entity.WishlistItem) []wishlistDTO {
	out := make([]wishlistDTO, 0, len(items))
	for _, it := range items {
		d := wishlistDTO{ID: it.ID, BuyerID: it.BuyerID, CarID: it.CarID, CreatedAt: it.CreatedAt}
		if it.Car != nil {
			car := m.one(ctx, it.Car)
			d.Car = &car
		}
		out = append(out, d)
	}
	return out
}

type showroomDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toShowroomDTO(s *entity.Showroom) showroomDTO {
	return showroomDTO{ID: s.ID, Name: s.Name, City: s.City, Address: s.Address, PhoneNumber: s.Phone, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
}

type staffDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	Scope       string    `json:"scope"`
	Role        string    `json:"role"`
	ShowroomID  string    `json:"showroomId,omitempty"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"`
	Avatar      string    `json:"avatar"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toStaffDTO(m *entity.StaffMember) staffDTO {
	return staffDTO{
		ID:          m.ID,
		UserID:      m.UserID,
		Email:       m.Email,
		Scope:       string(m.Scope),
		Role:        string(m.Role),
		ShowroomID:  m.ShowroomID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		PhoneNumber: m.Phone,
		Avatar:      m.Avatar,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// mapAll applies fn to every element of items.
func mapAll[T, D any](items []T, fn func(*T) D) []D {
	out := make([]D, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}
