package application

import (
	"context"
	"strings"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/repository"
	"github.com/anycompany/carmarket/pkg/apperror"
	"github.com/anycompany/carmarket/pkg/helpers"
)

// CreateProfileInput carries a new buyer, seller or staff account.
type CreateProfileInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	City      string
	Avatar    *File
}

// UpdateProfileInput is a partial update: nil fields stay unchanged.
type UpdateProfileInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	Phone     *string
	City      *string
	Avatar    *File
}

// SessionRevoker ends the sessions of users whose accounts were removed.
type SessionRevoker interface {
	RevokeSessions(ctx context.Context, userIDs ...string)
}

func revokeSessions(ctx context.Context, r SessionRevoker, userIDs ...string) {
	if r != nil {
		r.RevokeSessions(ctx, userIDs...)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newProfile(in CreateProfileInput, avatar string) entity.Profile {
	return entity.Profile{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     in.Phone,
		City:      in.City,
		Avatar:    avatar,
	}
}

func applyProfile(p *entity.Profile, in UpdateProfileInput, avatar string) {
	if in.FirstName != nil {
		p.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		p.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.City != nil {
		p.City = *in.City
	}
	if avatar != "" {
		p.Avatar = avatar
	}
}

// createUser hashes the password and inserts the credentials row.
func createUser(ctx context.Context, repos repository.Repositories, email, password string, role entity.Role) (*entity.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.Validation("email and password are required")
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, err, "hash password")
	}
	u := &entity.User{Email: email, PasswordHash: hash, Role: role}
	if err := repos.Users().Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// updateCredentials applies email/password changes to the user behind a profile.
// It returns the email now on record.
func updateCredentials(ctx context.Context, repos repository.Repositories, userID string, email, password *string) (string, error) {
	u, err := repos.Users().GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if email == nil && password == nil {
		return u.Email, nil
	}
	if email != nil {
		u.Email = normalizeEmail(*email)
	}
	if password != nil {
		hash, err := helpers.HashPassword(*password)
		if err != nil {
			return "", apperror.Wrap(apperror.CodeInternal, err, "hash password")
		}
		u.PasswordHash = hash
	}
	if err := repos.Users().Update(ctx, u); err != nil {
		return "", err
	}
	return u.Email, nil
}
