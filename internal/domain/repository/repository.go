package repository

import (
	"context"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/pkg/pagination"
)

// Missing rows come back as NOT_FOUND and unique violations as CONFLICT apperrors.

type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
}

type BuyerRepository interface {
	Create(ctx context.Context, b *entity.Buyer) error
	GetByID(ctx context.Context, id string) (*entity.Buyer, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Buyer, error)
	GetByFirstName(ctx context.Context, firstName string) (*entity.Buyer, error)
	List(ctx context.Context, p pagination.Params) (entity.Page[entity.Buyer], error)
	Update(ctx context.Context, b *entity.Buyer) error
	Delete(ctx context.Context, id string) error
}

type SellerRepository interface {
	Create(ctx context.Context, s *entity.Seller) error
	GetByID(ctx context.Context, id string) (*entity.Seller, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Seller, error)
	GetByFirstName(ctx context.Context, firstName string) (*entity.Seller, error)
	List(ctx context.Context, p pagination.Params) (entity.Page[entity.Seller], error)
	Update(ctx context.Context, s *entity.Seller) error
	// Delete removes the seller with its cars, their images and wishlist rows, and its user.
	Delete(ctx context.Context, id string) error
}

// PriceStats is the average asking price of comparable listings.
type PriceStats struct {
	Count   int64
	Average float64
}

type CarRepository interface {
	Create(ctx context.Context, c *entity.Car) error
	GetByID(ctx context.Context, id string) (*entity.Car, error)
	List(ctx context.Context, f entity.CarFilter, p pagination.Params) (entity.Page[entity.Car], error)
	CountBySeller(ctx context.Context, sellerID string) (int64, error)
	// SearchText matches make, model and description case-insensitively.
	SearchText(ctx context.Context, q string, p pagination.Params) (entity.Page[entity.Car], error)
	AveragePrice(ctx context.Context, carMake, carModel string, currency entity.Currency, region string) (PriceStats, error)
	Update(ctx context.Context, c *entity.Car) error
	AddImages(ctx context.Context, carID string, urls []string) ([]entity.CarImage, error)
	Delete(ctx context.Context, id string) error
}

type WishlistRepository interface {
	// Add is idempotent for an existing (buyer, car) pair.
	Add(ctx context.Context, buyerID, carID string) (*entity.WishlistItem, error)
	List(ctx context.Context, buyerID string) ([]entity.WishlistItem, error)
	Remove(ctx context.Context, buyerID, carID string) error
}

type ShowroomRepository interface {
	Create(ctx context.Context, s *entity.Showroom) error
	GetByID(ctx context.Context, id string) (*entity.Showroom, error)
	GetByName(ctx context.Context, name string) (*entity.Showroom, error)
	List(ctx context.Context, p pagination.Params) (entity.Page[entity.Showroom], error)
	Update(ctx context.Context, s *entity.Showroom) error
	Delete(ctx context.Context, id string) error
}

// StaffQuery selects one scoped role family. ShowroomID is empty for the platform.
type StaffQuery struct {
	Scope      entity.Scope
	Role       entity.Role
	ShowroomID string
}

type StaffRepository interface {
	Create(ctx context.Context, m *entity.StaffMember) error
	GetByID(ctx context.Context, id string) (*entity.StaffMember, error)
	GetByUserID(ctx context.Context, userID string) (*entity.StaffMember, error)
	GetByFirstName(ctx context.Context, q StaffQuery, firstName string) (*entity.StaffMember, error)
	List(ctx context.Context, q StaffQuery, p pagination.Params) (entity.Page[entity.StaffMember], error)
	// UserIDsByShowroom lists the user ids of every staff member attached to the showroom.
	UserIDsByShowroom(ctx context.Context, showroomID string) ([]string, error)
	Update(ctx context.Context, m *entity.StaffMember) error
	Delete(ctx context.Context, id string) error
}

// Repositories groups every repository over one connection or transaction.
type Repositories interface {
	Users() UserRepository
	Buyers() BuyerRepository
	Sellers() SellerRepository
	Cars() CarRepository
	Wishlist() WishlistRepository
	Showrooms() ShowroomRepository
	Staff() StaffRepository
	// WithTx runs fn in one transaction; fn must use only the repositories it receives.
	WithTx(ctx context.Context, fn func(Repositories) error) error
}
