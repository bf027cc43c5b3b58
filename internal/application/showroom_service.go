package application

import (
	"context"
	"strings"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/policy"
	"github.com/anycompany/carmarket/internal/domain/repository"
	"github.com/anycompany/carmarket/pkg/apperror"
	"github.com/anycompany/carmarket/pkg/pagination"
)

type ShowroomInput struct {
	Name    string
	City    string
	Address string
	Phone   string
}

type ShowroomPatch struct {
	Name    *string
	City    *string
	Address *string
	Phone   *string
}

// ShowroomService keeps the showroom directory. Reads are public.
type ShowroomService struct {
	Repos    repository.Repositories
	Sessions SessionRevoker
}

func NewShowroomService(repos repository.Repositories) *ShowroomService {
	return &ShowroomService{Repos: repos}
}

func denied() error {
	return apperror.Forbidden("You do not have permission to perform this action")
}

func (s *ShowroomService) Create(ctx context.Context, actor policy.Actor, in ShowroomInput) (*entity.Showroom, error) {
	if !actor.IsPlatformStaff() {
		return nil, denied()
	}
	sr := &entity.Showroom{
		Name:    strings.TrimSpace(in.Name),
		City:    in.City,
		Address: in.Address,
		Phone:   in.Phone,
	}
	if sr.Name == "" {
		return nil, apperror.Validation("name is required")
	}
	if err := s.Repos.Showrooms().Create(ctx, sr); err != nil {
		return nil, err
	}
	return sr, nil
}

func (s *ShowroomService) Get(ctx context.Context, id string) (*entity.Showroom, error) {
	return s.Repos.Showrooms().GetByID(ctx, id)
}

func (s *ShowroomService) GetByName(ctx context.Context, name string) (*entity.Showroom, error) {
	return s.Repos.Showrooms().GetByName(ctx, name)
}

func (s *ShowroomService) List(ctx context.Context, p pagination.Params) (entity.Page[entity.Showroom], error) {
	return s.Repos.Showrooms().List(ctx, p)
}

func (s *ShowroomService) Update(ctx context.Context, actor policy.Actor, id string, in ShowroomPatch) (*entity.Showroom, error) {
	if !policy.CanManageShowroom(actor, id) {
		return nil, denied()
	}
	sr, err := s.Repos.Showrooms().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		sr.Name = strings.TrimSpace(*in.Name)
		if sr.Name == "" {
			return nil, apperror.Validation("name must not be empty")
		}
	}
	if in.City != nil {
		sr.City = *in.City
	}
	if in.Address != nil {
		sr.Address = *in.Address
	}
	if in.Phone != nil {
		sr.Phone = *in.Phone
	}
	if err := s.Repos.Showrooms().Update(ctx, sr); err != nil {
		return nil, err
	}
	return sr, nil
}

// Delete removes the showroom together with its staff accounts.
func (s *ShowroomService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if !actor.IsPlatformStaff() {
		return denied()
	}
	userIDs, err := s.Repos.Staff().UserIDsByShowroom(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repos.Showrooms().Delete(ctx, id); err != nil {
		return err
	}
	revokeSessions(ctx, s.Sessions, userIDs...)
	return nil
}
