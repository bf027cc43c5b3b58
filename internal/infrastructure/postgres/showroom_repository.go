package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/repository"
	"github.com/anycompany/carmarket/pkg/pagination"
)

const (
	msgShowroomNotFound = "Showroom not found"
	msgShowroomTaken    = "A showroom with this name already exists"
)

type ShowroomRepository struct {
	db *gorm.DB
}

func (r *ShowroomRepository) Create(ctx context.Context, s *entity.Showroom) error {
	rec := showroomToRecord(s)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return translate(err, msgShowroomNotFound, msgShowroomTaken)
	}
	s.ID, s.CreatedAt, s.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
	return nil
}

func (r *ShowroomRepository) first(ctx context.Context, query string, args ...any) (*entity.Showroom, error) {
	var rec showroomRecord
	if err := r.db.WithContext(ctx).Where(query, args...).Order("created_at ASC").First(&rec).Error; err != nil {
		return nil, translate(err, msgShowroomNotFound, "")
	}
	s := showroomFromRecord(rec)
	return &s, nil
}

func (r *ShowroomRepository) GetByID(ctx context.Context, id string) (*entity.Showroom, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ShowroomRepository) GetByName(ctx context.Context, name string) (*entity.Showroom, error) {
	return r.first(ctx, "LOWER(name) = LOWER(?)", name)
}

func (r *ShowroomRepository) List(ctx context.Context, p pagination.Params) (entity.Page[entity.Showroom], error) {
	var recs []showroomRecord
	total, err := paginate(r.db.WithContext(ctx).Model(&showroomRecord{}), p, "name ASC, id ASC", &recs)
	if err != nil {
		return entity.Page[entity.Showroom]{}, translate(err, msgShowroomNotFound, "")
	}
	items := make([]entity.Showroom, 0, len(recs))
	for _, rec := range recs {
		items = append(items, showroomFromRecord(rec))
	}
	return pageOf(items, total, p), nil
}

func (r *ShowroomRepository) Update(ctx context.Context, s *entity.Showroom) error {
	rec := showroomToRecord(s)
	res := r.db.WithContext(ctx).Model(&rec).Select("name", "city", "address", "phone", "updated_at").Updates(&rec)
	if err := affected(res, msgShowroomNotFound, msgShowroomTaken); err != nil {
		return err
	}
	s.UpdatedAt = rec.UpdatedAt
	return nil
}

// Delete removes the showroom with its staff members and their users.
func (r *ShowroomRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&showroomRecord{}, "id = ?", id).Error; err != nil {
			return translate(err, msgShowroomNotFound, "")
		}
		var userIDs []string
		if err := tx.Model(&staffRecord{}).Where("showroom_id = ?", id).Pluck("user_id", &userIDs).Error; err != nil {
			return translate(err, msgShowroomNotFound, "")
		}
		if err := tx.Where("showroom_id = ?", id).Delete(&staffRecord{}).Error; err != nil {
			return translate(err, msgShowroomNotFound, "")
		}
		if len(userIDs) > 0 {
			if err := tx.Where("id IN ?", userIDs).Delete(&userRecord{}).Error; err != nil {
				return translate(err, msgShowroomNotFound, "")
			}
		}
		return translate(tx.Delete(&showroomRecord{}, "id = ?", id).Error, msgShowroomNotFound, "")
	})
}

var _ repository.ShowroomRepository = (*ShowroomRepository)(nil)
