package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/repository"
	"github.com/anycompany/carmarket/pkg/apperror"
	"github.com/anycompany/carmarket/pkg/helpers"
	"github.com/anycompany/carmarket/pkg/mailer"
	"github.com/anycompany/carmarket/pkg/mailer/templates"
	"github.com/anycompany/carmarket/pkg/pagination"
)

const maxPremiumMonths = 24

// CarStats is one listing of a premium seller with its market comparison.
type CarStats struct {
	CarID         string
	Make          string
	Model         string
	Region        string
	Price         string
	Currency      entity.Currency
	Views         int64
	AveragePrice  repository.PriceStats
	AverageRegion repository.PriceStats
}

type SellerStats struct {
	SellerID     string
	PremiumUntil *time.Time
	Cars         []CarStats
}

type PremiumService struct {
	Repos    repository.Repositories
	Cars     *CarService
	Notifier mailer.Notifier
	Branding templates.Branding
	Logger   *logrus.Logger
	now      func() time.Time
}

func NewPremiumService(repos repository.Repositories, cars *CarService, notifier mailer.Notifier, branding templates.Branding, logger *logrus.Logger) *PremiumService {
	return &PremiumService{Repos: repos, Cars: cars, Notifier: notifier, Branding: branding, Logger: logger, now: time.Now}
}

// Grant extends premium by months, counting from the current expiry when it is still ahead.
func (s *PremiumService) Grant(ctx context.Context, sellerID string, months int) (*entity.Seller, error) {
	if months < 1 || months > maxPremiumMonths {
		return nil, apperror.Newf(apperror.CodeValidation, "months must be between 1 and %d", maxPremiumMonths)
	}
	seller, err := s.Repos.Sellers().GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	start := now
	if seller.IsPremium(now) && seller.PremiumUntil != nil {
		start = *seller.PremiumUntil
	}
	until := start.AddDate(0, months, 0).UTC()
	seller.AccountType = entity.AccountPremium
	seller.PremiumUntil = &until
	if err := s.Repos.Sellers().Update(ctx, seller); err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		data := templates.NewPremiumActivatedData(s.Branding, seller.FirstName, seller.Email, until)
		if err := s.Notifier.Send(ctx, seller.Email, templates.PremiumActivated, data); err != nil {
			helpers.LogWarn(s.Logger, "queue premium mail failed", err, logrus.Fields{"seller_id": seller.ID})
		}
	}
	return seller, nil
}

func (s *PremiumService) Revoke(ctx context.Context, sellerID string) (*entity.Seller, error) {
	seller, err := s.Repos.Sellers().GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	seller.AccountType = entity.AccountBasic
	seller.PremiumUntil = nil
	if err := s.Repos.Sellers().Update(ctx, seller); err != nil {
		return nil, err
	}
	return seller, nil
}

// Stats is available to premium sellers only.
func (s *PremiumService) Stats(ctx context.Context, sellerID string) (*SellerStats, error) {
	seller, err := s.Repos.Sellers().GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !seller.IsPremium(s.now()) {
		return nil, apperror.Forbidden("Statistics are available to premium sellers only")
	}

	out := &SellerStats{SellerID: seller.ID, PremiumUntil: seller.PremiumUntil, Cars: []CarStats{}}
	cars := s.Repos.Cars()
	for offset := 0; ; offset += pagination.MaxLimit {
		page, err := cars.List(ctx, entity.CarFilter{SellerID: seller.ID}, pagination.Params{Limit: pagination.MaxLimit, Offset: offset})
		if err != nil {
			return nil, err
		}
		for _, c := range page.Items {
			st := CarStats{
				CarID:    c.ID,
				Make:     c.Make,
				Model:    c.Model,
				Region:   c.Region,
				Price:    c.Price.StringFixed(2),
				Currency: c.Currency,
			}
			if s.Cars != nil {
				st.Views = s.Cars.Views(ctx, c.ID)
			}
			if st.AveragePrice, err = cars.AveragePrice(ctx, c.Make, c.Model, c.Currency, ""); err != nil {
				return nil, err
			}
			if c.Region != "" {
				if st.AverageRegion, err = cars.AveragePrice(ctx, c.Make, c.Model, c.Currency, c.Region); err != nil {
					return nil, err
				}
			}
			out.Cars = append(out.Cars, st)
		}
		if len(page.Items) == 0 || int64(offset+len(page.Items)) >= page.Total {
			break
		}
	}
	return out, nil
}
