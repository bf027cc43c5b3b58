package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/repository"
	"github.com/anycompany/carmarket/pkg/pagination"
)

const msgSellerNotFound = "Seller not found"

type SellerRepository struct {
	db *gorm.DB
}

func (r *SellerRepository) Create(ctx context.Context, s *entity.Seller) error {
	rec := sellerToRecord(s)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		return translate(err, msgSellerNotFound, msgEmailTaken)
	}
	s.ID, s.AccountType, s.CreatedAt, s.UpdatedAt = rec.ID, entity.AccountType(rec.AccountType), rec.CreatedAt, rec.UpdatedAt
	return nil
}

func (r *SellerRepository) first(ctx context.Context, query string, args ...any) (*entity.Seller, error) {
	var rec sellerRecord
	err := r.db.WithContext(ctx).Preload("User").Where(query, args...).Order("created_at ASC").First(&rec).Error
	if err != nil {
		return nil, translate(err, msgSellerNotFound, "")
	}
	s := sellerFromRecord(rec)
	return &s, nil
}

func (r *SellerRepository) GetByID(ctx context.Context, id string) (*entity.Seller, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *SellerRepository) GetByUserID(ctx context.Context, userID string) (*entity.Seller, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *SellerRepository) GetByFirstName(ctx context.Context, firstName string) (*entity.Seller, error) {
	return r.first(ctx, "LOWER(first_name) = LOWER(?)", firstName)
}

func (r *SellerRepository) List(ctx context.Context, p pagination.Params) (entity.Page[entity.Seller], error) {
	var recs []sellerRecord
	total, err := paginate(r.db.WithContext(ctx).Model(&sellerRecord{}), p, "created_at ASC, id ASC", &recs, "User")
	if err != nil {
		return entity.Page[entity.Seller]{}, translate(err, msgSellerNotFound, "")
	}
	items := make([]entity.Seller, 0, len(recs))
	for _, rec := range recs {
		items = append(items, sellerFromRecord(rec))
	}
	return pageOf(items, total, p), nil
}

func (r *SellerRepository) Update(ctx context.Context, s *entity.Seller) error {
	rec := sellerToRecord(s)
	cols := append([]string{"account_type", "premium_until"}, profileColumnNames...)
	res := r.db.WithContext(ctx).Model(&rec).Select(cols).Updates(&rec)
	if err := affected(res, msgSellerNotFound, ""); err != nil {
		return err
	}
	s.UpdatedAt = rec.UpdatedAt
	return nil
}

// Delete cascades explicitly so the outcome does not depend on foreign key support.
func (r *SellerRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec sellerRecord
		if err := tx.First(&rec, "id = ?", id).Error; err != nil {
			return translate(err, msgSellerNotFound, "")
		}
		carIDs := func() *gorm.DB {
			return tx.Model(&carRecord{}).Select("id").Where("seller_id = ?", id)
		}
		steps := []*gorm.DB{
			tx.Where("car_id IN (?)", carIDs()).Delete(&carImageRecord{}),
			tx.Where("car_id IN (?)", carIDs()).Delete(&wishlistRecord{}),
			tx.Where("seller_id = ?", id).Delete(&carRecord{}),
			tx.Delete(&sellerRecord{}, "id = ?", id),
			tx.Delete(&userRecord{}, "id = ?", rec.UserID),
		}
		for _, res := range steps {
			if res.Error != nil {
				return translate(res.Error, msgSellerNotFound, "")
			}
		}
		return nil
	})
}

var _ repository.SellerRepository = (*SellerRepository)(nil)
