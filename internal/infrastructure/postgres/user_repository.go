package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/repository"
)

const msgUserNotFound = "User not found"

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	rec := userToRecord(u)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return translate(err, msgUserNotFound, msgEmailTaken)
	}
	*u = *userFromRecord(rec)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err, msgUserNotFound, "")
	}
	return userFromRecord(rec), nil
}

// GetByEmail compares lowercased addresses; emails are stored lowercased.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).First(&rec, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, translate(err, msgUserNotFound, "")
	}
	return userFromRecord(rec), nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	rec := userToRecord(u)
	res := r.db.WithContext(ctx).Model(&rec).Select("email", "password_hash", "role", "updated_at").Updates(&rec)
	if err := affected(res, msgUserNotFound, msgEmailTaken); err != nil {
		return err
	}
	u.UpdatedAt = rec.UpdatedAt
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&userRecord{}, "id = ?", id)
	return affected(res, msgUserNotFound, "")
}

var _ repository.UserRepository = (*UserRepository)(nil)
