package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/repository"
	"github.com/anycompany/carmarket/pkg/apperror"
	"github.com/anycompany/carmarket/pkg/helpers"
	"github.com/anycompany/carmarket/pkg/mailer"
	"github.com/anycompany/carmarket/pkg/mailer/templates"
)

const (
	MsgCheckParams       = "Error. Check the query parameters"
	MsgBadCredentials    = "The email address or password is incorrect"
	MsgRegisterFailed    = "Error. Failed to register user"
	msgResetTokenInvalid = "invalid or expired token"
	defaultFirstName     = "User"
	resetTokenTTL        = 30 * time.Minute
)

// IssuedToken is a signed access token and its expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      entity.Role
}

type AuthService struct {
	Repos    repository.Repositories
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	Notifier mailer.Notifier
	Branding templates.Branding
	Logger   *logrus.Logger
}

func NewAuthService(repos repository.Repositories, jwt *helpers.JWTManager, rdb *redis.Client, notifier mailer.Notifier, branding templates.Branding, logger *logrus.Logger) *AuthService {
	return &AuthService{Repos: repos, JWT: jwt, Redis: rdb, Notifier: notifier, Branding: branding, Logger: logger}
}

// VerifyCredentials compares a plain password with its stored hash.
func (s *AuthService) VerifyCredentials(plain, hash string) bool {
	return helpers.VerifyPassword(hash, plain)
}

// Authenticate never tells an unknown email apart from a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	email = normalizeEmail(email)
	if email == "" && password == "" {
		return nil, apperror.Forbidden(MsgCheckParams)
	}
	u, err := s.Repos.Users().GetByEmail(ctx, email)
	if apperror.Is(err, apperror.CodeNotFound) {
		return nil, apperror.Unauthorized(MsgBadCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !s.VerifyCredentials(password, u.PasswordHash) {
		return nil, apperror.Unauthorized(MsgBadCredentials)
	}
	return u, nil
}

// IssueToken signs a token for u and records the session in Redis.
func (s *AuthService) IssueToken(ctx context.Context, u *entity.User) (IssuedToken, error) {
	claims := helpers.Claims{UserID: u.ID, SessionID: uuid.NewString(), Role: string(u.Role)}
	if u.Role.IsStaff() {
		m, err := s.Repos.Staff().GetByUserID(ctx, u.ID)
		if err != nil {
			return IssuedToken{}, err
		}
		claims.Scope = string(m.Scope)
		claims.ShowroomID = m.ShowroomID
	}
	token, exp, err := s.JWT.Generate(claims)
	if err != nil {
		helpers.LogError(s.Logger, "generate access token failed", err, logrus.Fields{"user_id": u.ID})
		return IssuedToken{}, apperror.Wrap(apperror.CodeInternal, err, "token generation failed")
	}

	if s.Redis != nil {
		key := helpers.KeySession(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"role":       string(u.Role),
			"sid":        claims.SessionID,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
		pipe.ExpireAt(ctx, key, exp)
		if _, err := pipe.Exec(ctx); err != nil {
			helpers.LogWarn(s.Logger, "redis pipeline failed", err, logrus.Fields{"key": key})
		}
	}
	return IssuedToken{Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (IssuedToken, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return IssuedToken{}, err
	}
	return s.IssueToken(ctx, u)
}

// Register creates a buyer or seller account and logs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (IssuedToken, error) {
	if in.Role == "" {
		in.Role = entity.RoleBuyer
	}
	if in.Role != entity.RoleBuyer && in.Role != entity.RoleSeller {
		return IssuedToken{}, apperror.Validation("role must be buyer or seller")
	}
	profile := CreateProfileInput{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  in.LastName,
		Phone:     in.Phone,
	}
	if profile.FirstName == "" {
		profile.FirstName = defaultFirstName
	}

	var user *entity.User
	err := s.Repos.WithTx(ctx, func(tx repository.Repositories) error {
		u, err := createUser(ctx, tx, profile.Email, profile.Password, in.Role)
		if err != nil {
			return err
		}
		user = u
		if in.Role == entity.RoleSeller {
			return tx.Sellers().Create(ctx, &entity.Seller{UserID: u.ID, Email: u.Email, Profile: newProfile(profile, ""), AccountType: entity.AccountBasic})
		}
		return tx.Buyers().Create(ctx, &entity.Buyer{UserID: u.ID, Email: u.Email, Profile: newProfile(profile, "")})
	})
	if apperror.Is(err, apperror.CodeConflict) {
		return IssuedToken{}, err
	}
	if err != nil {
		helpers.LogWarn(s.Logger, "register failed", err, logrus.Fields{"email": normalizeEmail(in.Email)})
		return IssuedToken{}, apperror.Wrap(apperror.CodeValidation, err, MsgRegisterFailed)
	}

	s.notify(ctx, user.Email, templates.Welcome, templates.NewWelcomeData(s.Branding, profile.FirstName, user.Email, string(in.Role)))
	return s.IssueToken(ctx, user)
}

// SessionActive reports whether sid is the user's current session.
// Without Redis any signed token counts as long as its user still exists.
func (s *AuthService) SessionActive(ctx context.Context, userID, sid string) (bool, error) {
	if s.Redis == nil {
		_, err := s.Repos.Users().GetByID(ctx, userID)
		if apperror.Is(err, apperror.CodeNotFound) {
			return false, nil
		}
		return err == nil, err
	}
	cur, err := s.Redis.HGet(ctx, helpers.KeySession(userID), "sid").Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return cur == sid, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if s.Redis == nil {
		return nil
	}
	if err := s.Redis.Del(ctx, helpers.KeySession(userID)).Err(); err != nil {
		return apperror.Wrap(apperror.CodeDependency, err, "logout failed")
	}
	return nil
}

// RevokeSessions ends the sessions of deleted accounts. Failures are logged; the rows are already gone.
func (s *AuthService) RevokeSessions(ctx context.Context, userIDs ...string) {
	if s.Redis == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, helpers.KeySession(id))
	}
	if err := s.Redis.Del(ctx, keys...).Err(); err != nil {
		helpers.LogWarn(s.Logger, "revoke sessions failed", err, logrus.Fields{"user_ids": userIDs})
	}
}

// ForgotPassword always succeeds so the endpoint cannot be used to discover accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Repos.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !apperror.Is(err, apperror.CodeNotFound) {
			helpers.LogWarn(s.Logger, "forgot password lookup failed", err, nil)
		}
		return nil
	}
	if s.Redis == nil {
		helpers.LogWarn(s.Logger, "password reset unavailable: redis not configured", nil, logrus.Fields{"user_id": u.ID})
		return nil
	}
	tok, err := helpers.GenToken(32)
	if err != nil {
		return apperror.Wrap(apperror.CodeInternal, err, "token generation failed")
	}
	if err := s.Redis.Set(ctx, helpers.KeyResetToken(tok), u.ID, resetTokenTTL).Err(); err != nil {
		return apperror.Wrap(apperror.CodeDependency, err, "password reset unavailable")
	}
	expires := time.Now().Add(resetTokenTTL)
	s.notify(ctx, u.Email, templates.PasswordReset,
		templates.NewPasswordResetData(s.Branding, s.displayName(ctx, u), u.Email, tok, expires))
	return nil
}

// ResetPassword consumes a reset token and ends the current session.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if s.Redis == nil {
		return apperror.New(apperror.CodeDependency, "password reset unavailable")
	}
	uid, err := s.Redis.Get(ctx, helpers.KeyResetToken(token)).Result()
	if errors.Is(err, redis.Nil) || (err == nil && uid == "") {
		return apperror.Validation(msgResetTokenInvalid)
	}
	if err != nil {
		return apperror.Wrap(apperror.CodeDependency, err, "password reset unavailable")
	}
	if _, err := updateCredentials(ctx, s.Repos, uid, nil, &newPassword); err != nil {
		return err
	}
	pipe := s.Redis.Pipeline()
	pipe.Del(ctx, helpers.KeyResetToken(token))
	pipe.Del(ctx, helpers.KeySession(uid))
	if _, err := pipe.Exec(ctx); err != nil {
		helpers.LogWarn(s.Logger, "reset cleanup failed", err, logrus.Fields{"user_id": uid})
	}
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	u, err := s.Repos.Users().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.VerifyCredentials(oldPassword, u.PasswordHash) {
		return apperror.Validation("The current password is incorrect")
	}
	_, err = updateCredentials(ctx, s.Repos, userID, nil, &newPassword)
	return err
}

// displayName finds the first name on whichever profile the user owns.
func (s *AuthService) displayName(ctx context.Context, u *entity.User) string {
	switch {
	case u.Role == entity.RoleBuyer:
		if b, err := s.Repos.Buyers().GetByUserID(ctx, u.ID); err == nil {
			return b.FirstName
		}
	case u.Role == entity.RoleSeller:
		if sl, err := s.Repos.Sellers().GetByUserID(ctx, u.ID); err == nil {
			return sl.FirstName
		}
	case u.Role.IsStaff():
		if m, err := s.Repos.Staff().GetByUserID(ctx, u.ID); err == nil {
			return m.FirstName
		}
	}
	return defaultFirstName
}

// notify queues a mail; failures are logged and never fail the caller.
func (s *AuthService) notify(ctx context.Context, to, template string, data map[string]any) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Send(ctx, to, template, data); err != nil {
		helpers.LogWarn(s.Logger, "queue email failed", err, logrus.Fields{"template": template})
	}
}
