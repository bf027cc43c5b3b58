package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/repository"
	"github.com/anycompany/carmarket/pkg/apperror"
	"github.com/anycompany/carmarket/pkg/helpers"
	"github.com/anycompany/carmarket/pkg/pagination"
)

// CarSearcher is the full-text index over listings.
type CarSearcher interface {
	Index(ctx context.Context, car *entity.Car) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q string, limit, offset int) ([]string, int64, error)
}

type CarInput struct {
	Make        string
	Model       string
	Year        int
	Price       decimal.Decimal
	Currency    entity.Currency
	Mileage     int
	Description string
	Region      string
	Active      *bool
}

// CarPatch is a partial update: nil fields stay unchanged.
type CarPatch struct {
	Make        *string
	Model       *string
	Year        *int
	Price       *decimal.Decimal
	Currency    *entity.Currency
	Mileage     *int
	Description *string
	Region      *string
	Active      *bool
}

type CarService struct {
	Repos  repository.Repositories
	Images *ImageStore
	Search CarSearcher
	Redis  *redis.Client
	Logger *logrus.Logger
	// BasicCarLimit caps listings of basic sellers; 0 means unlimited.
	BasicCarLimit int
	now           func() time.Time
}

func NewCarService(repos repository.Repositories, images *ImageStore, search CarSearcher, rdb *redis.Client, logger *logrus.Logger, basicCarLimit int) *CarService {
	return &CarService{Repos: repos, Images: images, Search: search, Redis: rdb, Logger: logger, BasicCarLimit: basicCarLimit, now: time.Now}
}

func indexCar(ctx context.Context, search CarSearcher, logger *logrus.Logger, car *entity.Car) {
	if search == nil {
		return
	}
	if err := search.Index(ctx, car); err != nil {
		helpers.LogWarn(logger, "car index failed", err, logrus.Fields{"car_id": car.ID})
	}
}

func unindexCar(ctx context.Context, search CarSearcher, logger *logrus.Logger, id string) {
	if search == nil {
		return
	}
	if err := search.Delete(ctx, id); err != nil {
		helpers.LogWarn(logger, "car unindex failed", err, logrus.Fields{"car_id": id})
	}
}

func checkImageCount(existing, added int) error {
	if existing+added > entity.MaxCarImages {
		return apperror.Validation(fmt.Sprintf("A car can have at most %d images", entity.MaxCarImages))
	}
	return nil
}

func (s *CarService) checkLimit(ctx context.Context, repos repository.Repositories, seller *entity.Seller) error {
	if s.BasicCarLimit <= 0 || seller.IsPremium(s.now()) {
		return nil
	}
	n, err := repos.Cars().CountBySeller(ctx, seller.ID)
	if err != nil {
		return err
	}
	if n >= int64(s.BasicCarLimit) {
		return apperror.New(apperror.CodeStateConflict,
			fmt.Sprintf("Basic sellers can list at most %d car(s); upgrade to premium to add more", s.BasicCarLimit))
	}
	return nil
}

// CreateCar lists a car for an existing seller and uploads every attached image.
func (s *CarService) CreateCar(ctx context.Context, sellerID string, in CarInput, images []*File) (*entity.Car, error) {
	if err := checkImageCount(0, len(images)); err != nil {
		return nil, err
	}
	if err := s.Images.Check(images...); err != nil {
		return nil, err
	}
	if in.Currency == "" {
		in.Currency = entity.CurrencyUSD
	}
	seller, err := s.Repos.Sellers().GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if err := s.checkLimit(ctx, s.Repos, seller); err != nil {
		return nil, err
	}
	urls, err := s.Images.PutAll(ctx, "cars", images)
	if err != nil {
		return nil, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	car := &entity.Car{
		SellerID:    seller.ID,
		Make:        strings.TrimSpace(in.Make),
		Model:       strings.TrimSpace(in.Model),
		Year:        in.Year,
		Price:       in.Price,
		Currency:    in.Currency,
		Mileage:     in.Mileage,
		Description: in.Description,
		Region:      in.Region,
		Active:      active,
	}
	err = s.Repos.WithTx(ctx, func(tx repository.Repositories) error {
		if err := s.checkLimit(ctx, tx, seller); err != nil {
			return err
		}
		if err := tx.Cars().Create(ctx, car); err != nil {
			return err
		}
		imgs, err := tx.Cars().AddImages(ctx, car.ID, urls)
		if err != nil {
			return err
		}
		car.Images = imgs
		return nil
	})
	if err != nil {
		return nil, err
	}
	indexCar(ctx, s.Search, s.Logger, car)
	return car, nil
}

// GetSellerCar returns the car only when it belongs to the seller.
func (s *CarService) GetSellerCar(ctx context.Context, sellerID, carID string) (*entity.Car, error) {
	car, err := s.Repos.Cars().GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.SellerID != sellerID {
		return nil, apperror.NotFound("Car not found")
	}
	return car, nil
}

func (s *CarService) ListSellerCars(ctx context.Context, sellerID string, p pagination.Params) (entity.Page[entity.Car], error) {
	if _, err := s.Repos.Sellers().GetByID(ctx, sellerID); err != nil {
		return entity.Page[entity.Car]{}, err
	}
	return s.Repos.Cars().List(ctx, entity.CarFilter{SellerID: sellerID}, p)
}

func (s *CarService) UpdateCar(ctx context.Context, sellerID, carID string, in CarPatch, images []*File) (*entity.Car, error) {
	if err := s.Images.Check(images...); err != nil {
		return nil, err
	}
	car, err := s.GetSellerCar(ctx, sellerID, carID)
	if err != nil {
		return nil, err
	}
	if err := checkImageCount(len(car.Images), len(images)); err != nil {
		return nil, err
	}
	urls, err := s.Images.PutAll(ctx, "cars", images)
	if err != nil {
		return nil, err
	}

	applyCarPatch(car, in)
	err = s.Repos.WithTx(ctx, func(tx repository.Repositories) error {
		if err := tx.Cars().Update(ctx, car); err != nil {
			return err
		}
		imgs, err := tx.Cars().AddImages(ctx, car.ID, urls)
		if err != nil {
			return err
		}
		car.Images = append(car.Images, imgs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	indexCar(ctx, s.Search, s.Logger, car)
	return car, nil
}

func applyCarPatch(car *entity.Car, in CarPatch) {
	if in.Make != nil {
		car.Make = strings.TrimSpace(*in.Make)
	}
	if in.Model != nil {
		car.Model = strings.TrimSpace(*in.Model)
	}
	if in.Year != nil {
		car.Year = *in.Year
	}
	if in.Price != nil {
		car.Price = *in.Price
	}
	if in.Currency != nil {
		car.Currency = *in.Currency
	}
	if in.Mileage != nil {
		car.Mileage = *in.Mileage
	}
	if in.Description != nil {
		car.Description = *in.Description
	}
	if in.Region != nil {
		car.Region = *in.Region
	}
	if in.Active != nil {
		car.Active = *in.Active
	}
}

func (s *CarService) DeleteCar(ctx context.Context, sellerID, carID string) error {
	if _, err := s.GetSellerCar(ctx, sellerID, carID); err != nil {
		return err
	}
	if err := s.Repos.Cars().Delete(ctx, carID); err != nil {
		return err
	}
	unindexCar(ctx, s.Search, s.Logger, carID)
	if s.Redis != nil {
		if err := s.Redis.Del(ctx, helpers.KeyCarViews(carID)).Err(); err != nil {
			helpers.LogWarn(s.Logger, "drop car views failed", err, logrus.Fields{"car_id": carID})
		}
	}
	return nil
}

// ListCars is the public catalogue; switched-off listings are hidden.
func (s *CarService) ListCars(ctx context.Context, f entity.CarFilter, p pagination.Params) (entity.Page[entity.Car], error) {
	f.ActiveOnly = true
	return s.Repos.Cars().List(ctx, f, p)
}

// GetCar returns a listing and counts the view.
func (s *CarService) GetCar(ctx context.Context, id string) (*entity.Car, error) {
	car, err := s.Repos.Cars().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := s.Redis.Incr(ctx, helpers.KeyCarViews(id)).Err(); err != nil {
			helpers.LogWarn(s.Logger, "count car view failed", err, logrus.Fields{"car_id": id})
		}
	}
	return car, nil
}

// Views returns how often the listing was opened; 0 without Redis.
func (s *CarService) Views(ctx context.Context, id string) int64 {
	if s.Redis == nil {
		return 0
	}
	n, err := s.Redis.Get(ctx, helpers.KeyCarViews(id)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			helpers.LogWarn(s.Logger, "read car views failed", err, logrus.Fields{"car_id": id})
		}
		return 0
	}
	return n
}

// SearchCars asks the index first and falls back to a database match when it is missing or failing.
func (s *CarService) SearchCars(ctx context.Context, q string, p pagination.Params) (entity.Page[entity.Car], error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return entity.Page[entity.Car]{}, apperror.Validation("query parameter q is required")
	}
	p.Limit = pagination.NormalizeLimit(p.Limit)
	if s.Search != nil {
		ids, total, err := s.Search.Search(ctx, q, p.Limit, p.Offset)
		if err == nil {
			return s.loadInOrder(ctx, ids, total, p)
		}
		helpers.LogWarn(s.Logger, "car search failed, using database", err, logrus.Fields{"q": q})
	}
	return s.Repos.Cars().SearchText(ctx, q, p)
}

func (s *CarService) loadInOrder(ctx context.Context, ids []string, total int64, p pagination.Params) (entity.Page[entity.Car], error) {
	items := make([]entity.Car, 0, len(ids))
	for _, id := range ids {
		car, err := s.Repos.Cars().GetByID(ctx, id)
		if apperror.Is(err, apperror.CodeNotFound) {
			continue // index is behind the database
		}
		if err != nil {
			return entity.Page[entity.Car]{}, err
		}
		items = append(items, *car)
	}
	return entity.Page[entity.Car]{Items: items, Total: total, Limit: p.Limit, Offset: p.Offset}, nil
}
