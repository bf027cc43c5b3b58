package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/policy"
	"github.com/anycompany/carmarket/internal/domain/repository"
	"github.com/anycompany/carmarket/pkg/apperror"
	"github.com/anycompany/carmarket/pkg/pagination"
)

// StaffTarget names one role family: a role inside a scope, under a showroom unless the scope is the platform.
type StaffTarget struct {
	Scope      entity.Scope
	Role       entity.Role
	ShowroomID string
}

func (t StaffTarget) query() repository.StaffQuery {
	return repository.StaffQuery{Scope: t.Scope, Role: t.Role, ShowroomID: t.ShowroomID}
}

func (t StaffTarget) matches(m *entity.StaffMember) bool {
	return m.Scope == t.Scope && m.Role == t.Role && m.ShowroomID == t.ShowroomID
}

// StaffService is the one CRUD stack behind every scoped role profile.
type StaffService struct {
	Repos    repository.Repositories
	Images   *ImageStore
	Sessions SessionRevoker
	Logger   *logrus.Logger
}

func NewStaffService(repos repository.Repositories, images *ImageStore, logger *logrus.Logger) *StaffService {
	return &StaffService{Repos: repos, Images: images, Logger: logger}
}

func (s *StaffService) checkTarget(ctx context.Context, t *StaffTarget) error {
	if !t.Scope.Allows(t.Role) {
		return apperror.Newf(apperror.CodeValidation, "role %q does not exist in scope %q", t.Role, t.Scope)
	}
	if !t.Scope.NeedsShowroom() {
		t.ShowroomID = ""
		return nil
	}
	if t.ShowroomID == "" {
		return apperror.Validation("showroom is required")
	}
	_, err := s.Repos.Showrooms().GetByID(ctx, t.ShowroomID)
	return err
}

func (s *StaffService) guard(ctx context.Context, actor policy.Actor, t *StaffTarget, action policy.Action) error {
	if err := s.checkTarget(ctx, t); err != nil {
		return err
	}
	return policy.Authorize(actor, t.Scope, t.ShowroomID, action)
}

func (s *StaffService) Create(ctx context.Context, actor policy.Actor, t StaffTarget, in CreateProfileInput) (*entity.StaffMember, error) {
	if err := s.guard(ctx, actor, &t, policy.Manage); err != nil {
		return nil, err
	}
	return s.create(ctx, t, in)
}

func (s *StaffService) create(ctx context.Context, t StaffTarget, in CreateProfileInput) (*entity.StaffMember, error) {
	if err := s.Images.Check(in.Avatar); err != nil {
		return nil, err
	}
	avatar, err := s.Images.Put(ctx, "avatars", in.Avatar)
	if err != nil {
		return nil, err
	}
	var out *entity.StaffMember
	err = s.Repos.WithTx(ctx, func(tx repository.Repositories) error {
		u, err := createUser(ctx, tx, in.Email, in.Password, t.Role)
		if err != nil {
			return err
		}
		m := &entity.StaffMember{
			UserID:     u.ID,
			Email:      u.Email,
			Scope:      t.Scope,
			Role:       t.Role,
			ShowroomID: t.ShowroomID,
			Profile:    newProfile(in, avatar),
		}
		if err := tx.Staff().Create(ctx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// member loads id and hides profiles of other role families.
func (s *StaffService) member(ctx context.Context, repos repository.Repositories, t StaffTarget, id string) (*entity.StaffMember, error) {
	m, err := repos.Staff().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.matches(m) {
		return nil, apperror.NotFound("Staff member not found")
	}
	return m, nil
}

func (s *StaffService) Get(ctx context.Context, actor policy.Actor, t StaffTarget, id string) (*entity.StaffMember, error) {
	if err := s.guard(ctx, actor, &t, policy.Read); err != nil {
		return nil, err
	}
	return s.member(ctx, s.Repos, t, id)
}

func (s *StaffService) GetByName(ctx context.Context, actor policy.Actor, t StaffTarget, firstName string) (*entity.StaffMember, error) {
	if err := s.guard(ctx, actor, &t, policy.Read); err != nil {
		return nil, err
	}
	return s.Repos.Staff().GetByFirstName(ctx, t.query(), firstName)
}

func (s *StaffService) List(ctx context.Context, actor policy.Actor, t StaffTarget, p pagination.Params) (entity.Page[entity.StaffMember], error) {
	if err := s.guard(ctx, actor, &t, policy.Read); err != nil {
		return entity.Page[entity.StaffMember]{}, err
	}
	return s.Repos.Staff().List(ctx, t.query(), p)
}

func (s *StaffService) Update(ctx context.Context, actor policy.Actor, t StaffTarget, id string, in UpdateProfileInput) (*entity.StaffMember, error) {
	if err := s.guard(ctx, actor, &t, policy.Manage); err != nil {
		return nil, err
	}
	if err := s.Images.Check(in.Avatar); err != nil {
		return nil, err
	}
	if _, err := s.member(ctx, s.Repos, t, id); err != nil {
		return nil, err
	}
	avatar, err := s.Images.Put(ctx, "avatars", in.Avatar)
	if err != nil {
		return nil, err
	}
	var out *entity.StaffMember
	err = s.Repos.WithTx(ctx, func(tx repository.Repositories) error {
		m, err := s.member(ctx, tx, t, id)
		if err != nil {
			return err
		}
		email, err := updateCredentials(ctx, tx, m.UserID, in.Email, in.Password)
		if err != nil {
			return err
		}
		applyProfile(&m.Profile, in, avatar)
		if err := tx.Staff().Update(ctx, m); err != nil {
			return err
		}
		m.Email = email
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *StaffService) Delete(ctx context.Context, actor policy.Actor, t StaffTarget, id string) error {
	if err := s.guard(ctx, actor, &t, policy.Manage); err != nil {
		return err
	}
	m, err := s.member(ctx, s.Repos, t, id)
	if err != nil {
		return err
	}
	if m.UserID == actor.UserID {
		return apperror.New(apperror.CodeStateConflict, "You cannot delete your own account")
	}
	if err := s.Repos.Staff().Delete(ctx, id); err != nil {
		return err
	}
	revokeSessions(ctx, s.Sessions, m.UserID)
	return nil
}

// Bootstrap creates the first platform admin; it skips the permission check.
func (s *StaffService) Bootstrap(ctx context.Context, in CreateProfileInput) (*entity.StaffMember, error) {
	if in.FirstName == "" {
		in.FirstName = "Admin"
	}
	return s.create(ctx, StaffTarget{Scope: entity.ScopePlatform, Role: entity.RoleAdmin}, in)
}
