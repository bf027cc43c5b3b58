package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/repository"
	"github.com/anycompany/carmarket/pkg/pagination"
)

const msgStaffNotFound = "Staff member not found"

type StaffRepository struct {
	db *gorm.DB
}

func applyStaffQuery(db *gorm.DB, q repository.StaffQuery) *gorm.DB {
	db = db.Where("scope = ? AND role = ?", string(q.Scope), string(q.Role))
	if q.ShowroomID == "" {
		return db.Where("showroom_id IS NULL")
	}
	return db.Where("showroom_id = ?", q.ShowroomID)
}

func (r *StaffRepository) Create(ctx context.Context, m *entity.StaffMember) error {
	rec := staffToRecord(m)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		return translate(err, msgStaffNotFound, msgEmailTaken)
	}
	m.ID, m.CreatedAt, m.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
	return nil
}

func (r *StaffRepository) first(db *gorm.DB) (*entity.StaffMember, error) {
	var rec staffRecord
	if err := db.Preload("User").Order("created_at ASC").First(&rec).Error; err != nil {
		return nil, translate(err, msgStaffNotFound, "")
	}
	m := staffFromRecord(rec)
	return &m, nil
}

func (r *StaffRepository) GetByID(ctx context.Context, id string) (*entity.StaffMember, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *StaffRepository) GetByUserID(ctx context.Context, userID string) (*entity.StaffMember, error) {
	return r.first(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *StaffRepository) GetByFirstName(ctx context.Context, q repository.StaffQuery, firstName string) (*entity.StaffMember, error) {
	return r.first(applyStaffQuery(r.db.WithContext(ctx), q).Where("LOWER(first_name) = LOWER(?)", firstName))
}

func (r *StaffRepository) List(ctx context.Context, q repository.StaffQuery, p pagination.Params) (entity.Page[entity.StaffMember], error) {
	var recs []staffRecord
	base := applyStaffQuery(r.db.WithContext(ctx).Model(&staffRecord{}), q)
	total, err := paginate(base, p, "created_at ASC, id ASC", &recs, "User")
	if err != nil {
		return entity.Page[entity.StaffMember]{}, translate(err, msgStaffNotFound, "")
	}
	items := make([]entity.StaffMember, 0, len(recs))
	for _, rec := range recs {
		items = append(items, staffFromRecord(rec))
	}
	return pageOf(items, total, p), nil
}

func (r *StaffRepository) UserIDsByShowroom(ctx context.Context, showroomID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&staffRecord{}).Where("showroom_id = ?", showroomID).Pluck("user_id", &ids).Error
	if err != nil {
		return nil, translate(err, msgStaffNotFound, "")
	}
	return ids, nil
}

// Update writes profile fields only; scope, role and showroom are fixed at creation.
func (r *StaffRepository) Update(ctx context.Context, m *entity.StaffMember) error {
	rec := staffToRecord(m)
	res := r.db.WithContext(ctx).Model(&rec).Select(profileColumnNames).Updates(&rec)
	if err := affected(res, msgStaffNotFound, ""); err != nil {
		return err
	}
	m.UpdatedAt = rec.UpdatedAt
	return nil
}

func (r *StaffRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec staffRecord
		if err := tx.First(&rec, "id = ?", id).Error; err != nil {
			return translate(err, msgStaffNotFound, "")
		}
		if err := tx.Delete(&staffRecord{}, "id = ?", id).Error; err != nil {
			return translate(err, msgStaffNotFound, "")
		}
		return translate(tx.Delete(&userRecord{}, "id = ?", rec.UserID).Error, msgStaffNotFound, "")
	})
}

var _ repository.StaffRepository = (*StaffRepository)(nil)
