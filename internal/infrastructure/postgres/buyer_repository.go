package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/repository"
	"github.com/anycompany/carmarket/pkg/pagination"
)

const msgBuyerNotFound = "Buyer not found"

// profileColumnNames are written by profile updates; ids, owners and created_at never change.
var profileColumnNames = []string{"first_name", "last_name", "phone", "avatar", "city", "updated_at"}

type BuyerRepository struct {
	db *gorm.DB
}

func (r *BuyerRepository) Create(ctx context.Context, b *entity.Buyer) error {
	rec := buyerToRecord(b)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		return translate(err, msgBuyerNotFound, msgEmailTaken)
	}
	b.ID, b.CreatedAt, b.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
	return nil
}

func (r *BuyerRepository) first(ctx context.Context, query string, args ...any) (*entity.Buyer, error) {
	var rec buyerRecord
	err := r.db.WithContext(ctx).Preload("User").Where(query, args...).Order("created_at ASC").First(&rec).Error
	if err != nil {
		return nil, translate(err, msgBuyerNotFound, "")
	}
	b := buyerFromRecord(rec)
	return &b, nil
}

func (r *BuyerRepository) GetByID(ctx context.Context, id string) (*entity.Buyer, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *BuyerRepository) GetByUserID(ctx context.Context, userID string) (*entity.Buyer, error) {
	return r.first(ctx, "user_id = ?", userID)
}

// GetByFirstName is case-insensitive and returns the earliest created match.
func (r *BuyerRepository) GetByFirstName(ctx context.Context, firstName string) (*entity.Buyer, error) {
	return r.first(ctx, "LOWER(first_name) = LOWER(?)", firstName)
}

func (r *BuyerRepository) List(ctx context.Context, p pagination.Params) (entity.Page[entity.Buyer], error) {
	var recs []buyerRecord
	total, err := paginate(r.db.WithContext(ctx).Model(&buyerRecord{}), p, "created_at ASC, id ASC", &recs, "User")
	if err != nil {
		return entity.Page[entity.Buyer]{}, translate(err, msgBuyerNotFound, "")
	}
	items := make([]entity.Buyer, 0, len(recs))
	for _, rec := range recs {
		items = append(items, buyerFromRecord(rec))
	}
	return pageOf(items, total, p), nil
}

func (r *BuyerRepository) Update(ctx context.Context, b *entity.Buyer) error {
	rec := buyerToRecord(b)
	res := r.db.WithContext(ctx).Model(&rec).Select(profileColumnNames).Updates(&rec)
	if err := affected(res, msgBuyerNotFound, ""); err != nil {
		return err
	}
	b.UpdatedAt = rec.UpdatedAt
	return nil
}

// Delete removes the buyer, its wishlist and its user in one transaction.
func (r *BuyerRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec buyerRecord
		if err := tx.First(&rec, "id = ?", id).Error; err != nil {
			return translate(err, msgBuyerNotFound, "")
		}
		if err := tx.Where("buyer_id = ?", id).Delete(&wishlistRecord{}).Error; err != nil {
			return translate(err, msgBuyerNotFound, "")
		}
		if err := tx.Delete(&buyerRecord{}, "id = ?", id).Error; err != nil {
			return translate(err, msgBuyerNotFound, "")
		}
		return translate(tx.Delete(&userRecord{}, "id = ?", rec.UserID).Error, msgBuyerNotFound, "")
	})
}

var _ repository.BuyerRepository = (*BuyerRepository)(nil)
