package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/repository"
	"github.com/anycompany/carmarket/pkg/pagination"
)

// Store is the persistence gateway: every repository over one gorm handle.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Users() repository.UserRepository         { return &UserRepository{db: s.db} }
func (s *Store) Buyers() repository.BuyerRepository       { return &BuyerRepository{db: s.db} }
func (s *Store) Sellers() repository.SellerRepository     { return &SellerRepository{db: s.db} }
func (s *Store) Cars() repository.CarRepository           { return &CarRepository{db: s.db} }
func (s *Store) Wishlist() repository.WishlistRepository  { return &WishlistRepository{db: s.db} }
func (s *Store) Showrooms() repository.ShowroomRepository { return &ShowroomRepository{db: s.db} }
func (s *Store) Staff() repository.StaffRepository        { return &StaffRepository{db: s.db} }

// WithTx executes fn inside a transaction, rolling back on error or panic.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Ping verifies the datasource is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// paginate counts the filtered rows, then loads one window of them with the preloads applied.
func paginate[R any](q *gorm.DB, p pagination.Params, order string, dest *[]R, preloads ...string) (int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	find := q.Session(&gorm.Session{})
	for _, name := range preloads {
		find = find.Preload(name)
	}
	err := find.Order(order).Limit(pagination.NormalizeLimit(p.Limit)).Offset(p.Offset).Find(dest).Error
	return total, err
}

func pageOf[T any](items []T, total int64, p pagination.Params) entity.Page[T] {
	if items == nil {
		items = []T{}
	}
	return entity.Page[T]{Items: items, Total: total, Limit: pagination.NormalizeLimit(p.Limit), Offset: p.Offset}
}

var _ repository.Repositories = (*Store)(nil)
