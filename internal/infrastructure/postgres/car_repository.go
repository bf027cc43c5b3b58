package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/repository"
	"github.com/anycompany/carmarket/pkg/pagination"
)

const msgCarNotFound = "Car not found"

var carColumnNames = []string{"make", "model", "year", "price", "currency", "mileage", "description", "region", "active", "updated_at"}

type CarRepository struct {
	db *gorm.DB
}

func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Order("car_images.position ASC")
}

func (r *CarRepository) Create(ctx context.Context, c *entity.Car) error {
	rec := carToRecord(c)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		return translate(err, msgCarNotFound, "Car already exists")
	}
	c.ID, c.CreatedAt, c.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
	if c.Images == nil {
		c.Images = []entity.CarImage{}
	}
	return nil
}

func (r *CarRepository) GetByID(ctx context.Context, id string) (*entity.Car, error) {
	var rec carRecord
	err := r.db.WithContext(ctx).Preload("Images", preloadImages).First(&rec, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, msgCarNotFound, "")
	}
	c := carFromRecord(rec)
	return &c, nil
}

func applyCarFilter(q *gorm.DB, f entity.CarFilter) *gorm.DB {
	if f.SellerID != "" {
		q = q.Where("seller_id = ?", f.SellerID)
	}
	if f.Make != "" {
		q = q.Where("LOWER(make) = ?", strings.ToLower(f.Make))
	}
	if f.Model != "" {
		q = q.Where("LOWER(model) = ?", strings.ToLower(f.Model))
	}
	if f.Region != "" {
		q = q.Where("LOWER(region) = ?", strings.ToLower(f.Region))
	}
	if f.YearFrom > 0 {
		q = q.Where("year >= ?", f.YearFrom)
	}
	if f.YearTo > 0 {
		q = q.Where("year <= ?", f.YearTo)
	}
	if f.ActiveOnly {
		q = q.Where("active = ?", true)
	}
	return q
}

func (r *CarRepository) page(ctx context.Context, q *gorm.DB, p pagination.Params) (entity.Page[entity.Car], error) {
	var recs []carRecord
	total, err := paginate(q, p, "created_at DESC, id ASC", &recs)
	if err != nil {
		return entity.Page[entity.Car]{}, translate(err, msgCarNotFound, "")
	}
	if err := r.loadImages(ctx, recs); err != nil {
		return entity.Page[entity.Car]{}, err
	}
	items := make([]entity.Car, 0, len(recs))
	for _, rec := range recs {
		items = append(items, carFromRecord(rec))
	}
	return pageOf(items, total, p), nil
}

// loadImages fills Images for a page of cars with one query.
func (r *CarRepository) loadImages(ctx context.Context, recs []carRecord) error {
	if len(recs) == 0 {
		return nil
	}
	ids := make([]string, len(recs))
	for i := range recs {
		ids[i] = recs[i].ID
	}
	var imgs []carImageRecord
	err := r.db.WithContext(ctx).Where("car_id IN ?", ids).Order("position ASC").Find(&imgs).Error
	if err != nil {
		return translate(err, msgCarNotFound, "")
	}
	byCar := make(map[string][]carImageRecord, len(recs))
	for _, img := range imgs {
		byCar[img.CarID] = append(byCar[img.CarID], img)
	}
	for i := range recs {
		recs[i].Images = byCar[recs[i].ID]
	}
	return nil
}

func (r *CarRepository) List(ctx context.Context, f entity.CarFilter, p pagination.Params) (entity.Page[entity.Car], error) {
	return r.page(ctx, applyCarFilter(r.db.WithContext(ctx).Model(&carRecord{}), f), p)
}

func (r *CarRepository) CountBySeller(ctx context.Context, sellerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&carRecord{}).Where("seller_id = ?", sellerID).Count(&n).Error
	return n, translate(err, msgCarNotFound, "")
}

func (r *CarRepository) SearchText(ctx context.Context, q string, p pagination.Params) (entity.Page[entity.Car], error) {
	like := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	query := r.db.WithContext(ctx).Model(&carRecord{}).
		Where("active = ?", true).
		Where("LOWER(make) LIKE ? OR LOWER(model) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	return r.page(ctx, query, p)
}

// AveragePrice averages listings of one make and model in one currency, optionally within a region.
func (r *CarRepository) AveragePrice(ctx context.Context, carMake, carModel string, currency entity.Currency, region string) (repository.PriceStats, error) {
	q := r.db.WithContext(ctx).Model(&carRecord{}).
		Select("COUNT(*) AS count, COALESCE(AVG(price), 0) AS average").
		Where("LOWER(make) = ? AND LOWER(model) = ? AND currency = ?", strings.ToLower(carMake), strings.ToLower(carModel), string(currency))
	if region != "" {
		q = q.Where("LOWER(region) = ?", strings.ToLower(region))
	}
	var out repository.PriceStats
	if err := q.Scan(&out).Error; err != nil {
		return repository.PriceStats{}, translate(err, msgCarNotFound, "")
	}
	return out, nil
}

func (r *CarRepository) Update(ctx context.Context, c *entity.Car) error {
	rec := carToRecord(c)
	res := r.db.WithContext(ctx).Model(&rec).Select(carColumnNames).Updates(&rec)
	if err := affected(res, msgCarNotFound, ""); err != nil {
		return err
	}
	c.UpdatedAt = rec.UpdatedAt
	return nil
}

// AddImages appends images after the car's current last position.
func (r *CarRepository) AddImages(ctx context.Context, carID string, urls []string) ([]entity.CarImage, error) {
	if len(urls) == 0 {
		return []entity.CarImage{}, nil
	}
	db := r.db.WithContext(ctx)
	var maxPos struct{ Max int }
	if err := db.Model(&carImageRecord{}).Select("COALESCE(MAX(position), -1) AS max").Where("car_id = ?", carID).Scan(&maxPos).Error; err != nil {
		return nil, translate(err, msgCarNotFound, "")
	}
	recs := make([]carImageRecord, len(urls))
	for i, u := range urls {
		recs[i] = carImageRecord{CarID: carID, URL: u, Position: maxPos.Max + 1 + i}
	}
	if err := db.Create(&recs).Error; err != nil {
		return nil, translate(err, msgCarNotFound, "")
	}
	out := make([]entity.CarImage, 0, len(recs))
	for _, rec := range recs {
		out = append(out, imageFromRecord(rec))
	}
	return out, nil
}

func (r *CarRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("car_id = ?", id).Delete(&carImageRecord{}).Error; err != nil {
			return translate(err, msgCarNotFound, "")
		}
		if err := tx.Where("car_id = ?", id).Delete(&wishlistRecord{}).Error; err != nil {
			return translate(err, msgCarNotFound, "")
		}
		return affected(tx.Delete(&carRecord{}, "id = ?", id), msgCarNotFound, "")
	})
}

var _ repository.CarRepository = (*CarRepository)(nil)
