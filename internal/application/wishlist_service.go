package application

import (
	"context"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/repository"
)

type WishlistService struct {
	Repos repository.Repositories
}

func NewWishlistService(repos repository.Repositories) *WishlistService {
	return &WishlistService{Repos: repos}
}

// Add saves a car to the buyer's wishlist. Adding it twice returns the existing entry.
func (s *WishlistService) Add(ctx context.Context, buyerID, carID string) (*entity.WishlistItem, error) {
	if _, err := s.Repos.Buyers().GetByID(ctx, buyerID); err != nil {
		return nil, err
	}
	car, err := s.Repos.Cars().GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	item, err := s.Repos.Wishlist().Add(ctx, buyerID, carID)
	if err != nil {
		return nil, err
	}
	item.Car = car
	return item, nil
}

func (s *WishlistService) List(ctx context.Context, buyerID string) ([]entity.WishlistItem, error) {
	if _, err := s.Repos.Buyers().GetByID(ctx, buyerID); err != nil {
		return nil, err
	}
	return s.Repos.Wishlist().List(ctx, buyerID)
}

func (s *WishlistService) Remove(ctx context.Context, buyerID, carID string) error {
	return s.Repos.Wishlist().Remove(ctx, buyerID, carID)
}
