package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/repository"
	"github.com/anycompany/carmarket/pkg/pagination"
)

type BuyerService struct {
	Repos    repository.Repositories
	Images   *ImageStore
	Sessions SessionRevoker
	Logger   *logrus.Logger
}

func NewBuyerService(repos repository.Repositories, images *ImageStore, logger *logrus.Logger) *BuyerService {
	return &BuyerService{Repos: repos, Images: images, Logger: logger}
}

// Create stores the avatar first, then the user and buyer rows in one transaction.
func (s *BuyerService) Create(ctx context.Context, in CreateProfileInput) (*entity.Buyer, error) {
	if err := s.Images.Check(in.Avatar); err != nil {
		return nil, err
	}
	avatar, err := s.Images.Put(ctx, "avatars", in.Avatar)
	if err != nil {
		return nil, err
	}
	var out *entity.Buyer
	err = s.Repos.WithTx(ctx, func(tx repository.Repositories) error {
		u, err := createUser(ctx, tx, in.Email, in.Password, entity.RoleBuyer)
		if err != nil {
			return err
		}
		b := &entity.Buyer{UserID: u.ID, Email: u.Email, Profile: newProfile(in, avatar)}
		if err := tx.Buyers().Create(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BuyerService) Get(ctx context.Context, id string) (*entity.Buyer, error) {
	return s.Repos.Buyers().GetByID(ctx, id)
}

func (s *BuyerService) GetByName(ctx context.Context, firstName string) (*entity.Buyer, error) {
	return s.Repos.Buyers().GetByFirstName(ctx, firstName)
}

func (s *BuyerService) List(ctx context.Context, p pagination.Params) (entity.Page[entity.Buyer], error) {
	return s.Repos.Buyers().List(ctx, p)
}

func (s *BuyerService) Update(ctx context.Context, id string, in UpdateProfileInput) (*entity.Buyer, error) {
	if err := s.Images.Check(in.Avatar); err != nil {
		return nil, err
	}
	if _, err := s.Repos.Buyers().GetByID(ctx, id); err != nil {
		return nil, err
	}
	avatar, err := s.Images.Put(ctx, "avatars", in.Avatar)
	if err != nil {
		return nil, err
	}
	var out *entity.Buyer
	err = s.Repos.WithTx(ctx, func(tx repository.Repositories) error {
		b, err := tx.Buyers().GetByID(ctx, id)
		if err != nil {
			return err
		}
		email, err := updateCredentials(ctx, tx, b.UserID, in.Email, in.Password)
		if err != nil {
			return err
		}
		applyProfile(&b.Profile, in, avatar)
		if err := tx.Buyers().Update(ctx, b); err != nil {
			return err
		}
		b.Email = email
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BuyerService) Delete(ctx context.Context, id string) error {
	b, err := s.Repos.Buyers().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repos.Buyers().Delete(ctx, id); err != nil {
		return err
	}
	revokeSessions(ctx, s.Sessions, b.UserID)
	return nil
}
