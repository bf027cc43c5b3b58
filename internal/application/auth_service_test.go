package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/infrastructure/postgres"
	"github.com/anycompany/carmarket/pkg/apperror"
	"github.com/anycompany/carmarket/pkg/helpers"
	"github.com/anycompany/carmarket/pkg/mailer/templates"
)

func newAuthService(t *testing.T) (*AuthService, *postgres.Store, *fakeNotifier) {
	store := newTestStore(t)
	n := &fakeNotifier{}
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(store, jwt, nil, n, templates.Branding{AppName: "CarMarket"}, helpers.NewDiscardLogger()), store, n
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, store, n := newAuthService(t)

	tok, err := svc.Register(ctx, RegisterInput{Email: " Ann@X.com", Password: "p1"})
	require.NoError(t, err)
	claims, err := svc.JWT.Parse(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleBuyer), claims.Role)
	assert.NotEmpty(t, claims.SessionID)

	b, err := store.Buyers().GetByUserID(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "User", b.FirstName)
	assert.Equal(t, "ann@x.com", b.Email)

	require.Len(t, n.sent, 1)
	assert.Equal(t, templates.Welcome, n.sent[0].Template)
	assert.Equal(t, "ann@x.com", n.sent[0].To)

	login, err := svc.Login(ctx, "ann@x.com", "p1")
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.True(t, login.ExpiresAt.After(time.Now()))
}

func TestAuthService_RegisterSeller(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newAuthService(t)

	tok, err := svc.Register(ctx, RegisterInput{Email: "s@x.com", Password: "p1", FirstName: "Sam", Role: entity.RoleSeller})
	require.NoError(t, err)
	claims, err := svc.JWT.Parse(tok.Token)
	require.NoError(t, err)
	s, err := store.Sellers().GetByUserID(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Sam", s.FirstName)
	assert.Equal(t, entity.AccountBasic, s.AccountType)

	_, err = svc.Register(ctx, RegisterInput{Email: "x@x.com", Password: "p1", Role: entity.RoleAdmin})
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newAuthService(t)

	_, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "p2", Role: entity.RoleSeller})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeConflict))
	assert.Equal(t, "A user with this email address already exists", apperror.As(err).Message())

	u, err := store.Users().GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBuyer, u.Role)
}

func TestAuthService_RegisterFailure(t *testing.T) {
	svc, _, _ := newAuthService(t)
	_, err := svc.Register(context.Background(), RegisterInput{Email: "", Password: ""})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
	assert.Equal(t, MsgRegisterFailed, apperror.As(err).Message())
}

func TestAuthService_LoginErrors(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService(t)
	_, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "", "")
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))
	assert.Equal(t, MsgCheckParams, apperror.As(err).Message())

	_, err = svc.Login(ctx, "a@x.com", "wrong")
	assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))
	assert.Equal(t, MsgBadCredentials, apperror.As(err).Message())

	_, err = svc.Login(ctx, "nobody@x.com", "p1")
	assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))
}

func TestAuthService_StaffTokenCarriesScope(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newAuthService(t)
	staff := NewStaffService(store, nil, nil)
	_, err := staff.Bootstrap(ctx, CreateProfileInput{Email: "root@x.com", Password: "p1"})
	require.NoError(t, err)

	tok, err := svc.Login(ctx, "root@x.com", "p1")
	require.NoError(t, err)
	claims, err := svc.JWT.Parse(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleAdmin), claims.Role)
	assert.Equal(t, string(entity.ScopePlatform), claims.Scope)
	assert.Empty(t, claims.ShowroomID)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newAuthService(t)
	_, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)
	u, err := store.Users().GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	assert.True(t, apperror.Is(svc.ChangePassword(ctx, u.ID, "nope", "p2"), apperror.CodeValidation))
	require.NoError(t, svc.ChangePassword(ctx, u.ID, "p1", "p2"))
	_, err = svc.Login(ctx, "a@x.com", "p2")
	assert.NoError(t, err)
}

func TestAuthService_WithoutRedis(t *testing.T) {
	ctx := context.Background()
	svc, store, n := newAuthService(t)
	_, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)
	u, err := store.Users().GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	// no reset token store: the request still answers OK and sends nothing
	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	require.NoError(t, svc.ForgotPassword(ctx, "ghost@x.com"))
	assert.Len(t, n.sent, 1)

	assert.True(t, apperror.Is(svc.ResetPassword(ctx, "tok", "p2"), apperror.CodeDependency))
	active, err := svc.SessionActive(ctx, u.ID, "sid")
	require.NoError(t, err)
	assert.True(t, active)
	assert.NoError(t, svc.Logout(ctx, u.ID))
	svc.RevokeSessions(ctx, u.ID)

	// once the account is gone its tokens stop counting
	buyer, err := store.Buyers().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, store.Buyers().Delete(ctx, buyer.ID))
	active, err = svc.SessionActive(ctx, u.ID, "sid")
	require.NoError(t, err)
	assert.False(t, active)
}
