package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/repository"
	"github.com/anycompany/carmarket/pkg/pagination"
)

type SellerService struct {
	Repos    repository.Repositories
	Images   *ImageStore
	Search   CarSearcher
	Sessions SessionRevoker
	Logger   *logrus.Logger
}

func NewSellerService(repos repository.Repositories, images *ImageStore, search CarSearcher, logger *logrus.Logger) *SellerService {
	return &SellerService{Repos: repos, Images: images, Search: search, Logger: logger}
}

func (s *SellerService) Create(ctx context.Context, in CreateProfileInput) (*entity.Seller, error) {
	if err := s.Images.Check(in.Avatar); err != nil {
		return nil, err
	}
	avatar, err := s.Images.Put(ctx, "avatars", in.Avatar)
	if err != nil {
		return nil, err
	}
	var out *entity.Seller
	err = s.Repos.WithTx(ctx, func(tx repository.Repositories) error {
		u, err := createUser(ctx, tx, in.Email, in.Password, entity.RoleSeller)
		if err != nil {
			return err
		}
		seller := &entity.Seller{UserID: u.ID, Email: u.Email, Profile: newProfile(in, avatar), AccountType: entity.AccountBasic}
		if err := tx.Sellers().Create(ctx, seller); err != nil {
			return err
		}
		out = seller
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SellerService) Get(ctx context.Context, id string) (*entity.Seller, error) {
	return s.Repos.Sellers().GetByID(ctx, id)
}

func (s *SellerService) GetByName(ctx context.Context, firstName string) (*entity.Seller, error) {
	return s.Repos.Sellers().GetByFirstName(ctx, firstName)
}

func (s *SellerService) List(ctx context.Context, p pagination.Params) (entity.Page[entity.Seller], error) {
	return s.Repos.Sellers().List(ctx, p)
}

func (s *SellerService) Update(ctx context.Context, id string, in UpdateProfileInput) (*entity.Seller, error) {
	if err := s.Images.Check(in.Avatar); err != nil {
		return nil, err
	}
	if _, err := s.Repos.Sellers().GetByID(ctx, id); err != nil {
		return nil, err
	}
	avatar, err := s.Images.Put(ctx, "avatars", in.Avatar)
	if err != nil {
		return nil, err
	}
	var out *entity.Seller
	err = s.Repos.WithTx(ctx, func(tx repository.Repositories) error {
		seller, err := tx.Sellers().GetByID(ctx, id)
		if err != nil {
			return err
		}
		email, err := updateCredentials(ctx, tx, seller.UserID, in.Email, in.Password)
		if err != nil {
			return err
		}
		applyProfile(&seller.Profile, in, avatar)
		if err := tx.Sellers().Update(ctx, seller); err != nil {
			return err
		}
		seller.Email = email
		out = seller
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the seller together with every car it listed.
func (s *SellerService) Delete(ctx context.Context, id string) error {
	seller, err := s.Repos.Sellers().GetByID(ctx, id)
	if err != nil {
		return err
	}
	var carIDs []string
	if s.Search != nil {
		carIDs = s.carIDs(ctx, id)
	}
	if err := s.Repos.Sellers().Delete(ctx, id); err != nil {
		return err
	}
	revokeSessions(ctx, s.Sessions, seller.UserID)
	for _, carID := range carIDs {
		unindexCar(ctx, s.Search, s.Logger, carID)
	}
	return nil
}

func (s *SellerService) carIDs(ctx context.Context, sellerID string) []string {
	var ids []string
	for offset := 0; ; offset += pagination.MaxLimit {
		page, err := s.Repos.Cars().List(ctx, entity.CarFilter{SellerID: sellerID}, pagination.Params{Limit: pagination.MaxLimit, Offset: offset})
		if err != nil || len(page.Items) == 0 {
			return ids
		}
		for _, c := range page.Items {
			ids = append(ids, c.ID)
		}
		if int64(offset+len(page.Items)) >= page.Total {
			return ids
		}
	}
}
