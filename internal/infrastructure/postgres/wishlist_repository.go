package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/repository"
)

const msgWishlistNotFound = "Car is not in the wishlist"

type WishlistRepository struct {
	db *gorm.DB
}

func wishlistFromRecord(r wishlistRecord) entity.WishlistItem {
	item := entity.WishlistItem{ID: r.ID, BuyerID: r.BuyerID, CarID: r.CarID, CreatedAt: r.CreatedAt}
	if r.Car.ID != "" {
		car := carFromRecord(r.Car)
		item.Car = &car
	}
	return item
}

func (r *WishlistRepository) find(ctx context.Context, buyerID, carID string) (*wishlistRecord, error) {
	var rec wishlistRecord
	err := r.db.WithContext(ctx).Where("buyer_id = ? AND car_id = ?", buyerID, carID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *WishlistRepository) Add(ctx context.Context, buyerID, carID string) (*entity.WishlistItem, error) {
	if rec, err := r.find(ctx, buyerID, carID); err == nil {
		item := wishlistFromRecord(*rec)
		return &item, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate(err, msgWishlistNotFound, "")
	}

	rec := wishlistRecord{BuyerID: buyerID, CarID: carID}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		if !isUniqueViolation(err) {
			return nil, translate(err, msgWishlistNotFound, "")
		}
		// lost a race with a concurrent add of the same car
		existing, ferr := r.find(ctx, buyerID, carID)
		if ferr != nil {
			return nil, translate(ferr, msgWishlistNotFound, "")
		}
		rec = *existing
	}
	item := wishlistFromRecord(rec)
	return &item, nil
}

func (r *WishlistRepository) List(ctx context.Context, buyerID string) ([]entity.WishlistItem, error) {
	var recs []wishlistRecord
	err := r.db.WithContext(ctx).
		Preload("Car").
		Preload("Car.Images", preloadImages).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, translate(err, msgWishlistNotFound, "")
	}
	items := make([]entity.WishlistItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, wishlistFromRecord(rec))
	}
	return items, nil
}

func (r *WishlistRepository) Remove(ctx context.Context, buyerID, carID string) error {
	res := r.db.WithContext(ctx).Where("buyer_id = ? AND car_id = ?", buyerID, carID).Delete(&wishlistRecord{})
	return affected(res, msgWishlistNotFound, "")
}

var _ repository.WishlistRepository = (*WishlistRepository)(nil)
