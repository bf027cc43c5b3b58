package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/policy"
	"github.com/anycompany/carmarket/internal/infrastructure/postgres"
	"github.com/anycompany/carmarket/pkg/apperror"
	"github.com/anycompany/carmarket/pkg/helpers"
	"github.com/anycompany/carmarket/pkg/pagination"
)

type staffFixture struct {
	store     *postgres.Store
	staff     *StaffService
	showrooms *ShowroomService
	root      policy.Actor
}

func newStaffFixture(t *testing.T) *staffFixture {
	t.Helper()
	store := newTestStore(t)
	staff := NewStaffService(store, NewImageStore(&fakeUploader{}), helpers.NewDiscardLogger())
	admin, err := staff.Bootstrap(context.Background(), CreateProfileInput{Email: "root@x.com", Password: "p1"})
	require.NoError(t, err)
	return &staffFixture{
		store:     store,
		staff:     staff,
		showrooms: NewShowroomService(store),
		root:      policy.Actor{UserID: admin.UserID, Role: entity.RoleAdmin, Scope: entity.ScopePlatform},
	}
}

func actorOf(m *entity.StaffMember) policy.Actor {
	return policy.Actor{UserID: m.UserID, Role: m.Role, Scope: m.Scope, ShowroomID: m.ShowroomID}
}

func TestStaffService_Bootstrap(t *testing.T) {
	f := newStaffFixture(t)
	page, err := f.staff.List(context.Background(), f.root, StaffTarget{Scope: entity.ScopePlatform, Role: entity.RoleAdmin}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, "Admin", page.Items[0].FirstName)
	assert.Empty(t, page.Items[0].ShowroomID)
}

func TestStaffService_ShowroomHierarchy(t *testing.T) {
	ctx := context.Background()
	f := newStaffFixture(t)

	sr, err := f.showrooms.Create(ctx, f.root, ShowroomInput{Name: "North"})
	require.NoError(t, err)
	other, err := f.showrooms.Create(ctx, f.root, ShowroomInput{Name: "South"})
	require.NoError(t, err)

	adminTarget := StaffTarget{Scope: entity.ScopeCarshowroom, Role: entity.RoleAdmin, ShowroomID: sr.ID}
	showroomAdmin, err := f.staff.Create(ctx, f.root, adminTarget, CreateProfileInput{Email: "boss@x.com", Password: "p1", FirstName: "Olga"})
	require.NoError(t, err)
	assert.Equal(t, sr.ID, showroomAdmin.ShowroomID)
	boss := actorOf(showroomAdmin)

	mechanics := StaffTarget{Scope: entity.ScopeCarshowroom, Role: entity.RoleAutoMechanic, ShowroomID: sr.ID}
	mech, err := f.staff.Create(ctx, boss, mechanics, CreateProfileInput{Email: "mech@x.com", Password: "p1", FirstName: "Ivan"})
	require.NoError(t, err)

	// the mechanic may read colleagues but not hire
	_, err = f.staff.Get(ctx, actorOf(mech), mechanics, mech.ID)
	require.NoError(t, err)
	_, err = f.staff.Create(ctx, actorOf(mech), mechanics, CreateProfileInput{Email: "m2@x.com", Password: "p1"})
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))

	// other showrooms and the platform are out of reach
	_, err = f.staff.Create(ctx, boss, StaffTarget{Scope: entity.ScopeCarshowroom, Role: entity.RoleSales, ShowroomID: other.ID}, CreateProfileInput{Email: "s@x.com", Password: "p1"})
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))
	_, err = f.staff.Create(ctx, boss, StaffTarget{Scope: entity.ScopePlatform, Role: entity.RoleAdmin}, CreateProfileInput{Email: "p@x.com", Password: "p1"})
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))
	_, err = f.staff.Create(ctx, boss, StaffTarget{Scope: entity.ScopeAdminCarshowroom, Role: entity.RoleManager, ShowroomID: sr.ID}, CreateProfileInput{Email: "am@x.com", Password: "p1"})
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))

	byName, err := f.staff.GetByName(ctx, boss, mechanics, "ivan")
	require.NoError(t, err)
	assert.Equal(t, mech.ID, byName.ID)
}

func TestStaffService_TargetChecks(t *testing.T) {
	ctx := context.Background()
	f := newStaffFixture(t)

	_, err := f.staff.Create(ctx, f.root, StaffTarget{Scope: entity.ScopePlatform, Role: entity.RoleSales}, CreateProfileInput{Email: "a@x.com", Password: "p1"})
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = f.staff.Create(ctx, f.root, StaffTarget{Scope: entity.ScopeCarshowroom, Role: entity.RoleSales, ShowroomID: "00000000-0000-0000-0000-000000000000"}, CreateProfileInput{Email: "a@x.com", Password: "p1"})
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))

	// a platform manager is invisible through the admin family
	mgr, err := f.staff.Create(ctx, f.root, StaffTarget{Scope: entity.ScopePlatform, Role: entity.RoleManager}, CreateProfileInput{Email: "m@x.com", Password: "p1"})
	require.NoError(t, err)
	_, err = f.staff.Get(ctx, f.root, StaffTarget{Scope: entity.ScopePlatform, Role: entity.RoleAdmin}, mgr.ID)
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
}

func TestStaffService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newStaffFixture(t)
	managers := StaffTarget{Scope: entity.ScopePlatform, Role: entity.RoleManager}

	mgr, err := f.staff.Create(ctx, f.root, managers, CreateProfileInput{Email: "m@x.com", Password: "p1", FirstName: "Max", LastName: "Ray"})
	require.NoError(t, err)

	updated, err := f.staff.Update(ctx, f.root, managers, mgr.ID, UpdateProfileInput{FirstName: strPtr("Maxim")})
	require.NoError(t, err)
	assert.Equal(t, "Maxim", updated.FirstName)
	assert.Equal(t, "Ray", updated.LastName)
	assert.Equal(t, "m@x.com", updated.Email)

	// managers read the platform but cannot change it
	_, err = f.staff.Update(ctx, actorOf(mgr), managers, mgr.ID, UpdateProfileInput{LastName: strPtr("X")})
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))

	rootTarget := StaffTarget{Scope: entity.ScopePlatform, Role: entity.RoleAdmin}
	self, err := f.store.Staff().GetByUserID(ctx, f.root.UserID)
	require.NoError(t, err)
	assert.True(t, apperror.Is(f.staff.Delete(ctx, f.root, rootTarget, self.ID), apperror.CodeStateConflict))

	require.NoError(t, f.staff.Delete(ctx, f.root, managers, mgr.ID))
	_, err = f.store.Users().GetByEmail(ctx, "m@x.com")
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
}

func TestStaffService_DeleteEndsSessions(t *testing.T) {
	ctx := context.Background()
	f := newStaffFixture(t)
	sessions := &fakeRevoker{}
	f.staff.Sessions, f.showrooms.Sessions = sessions, sessions

	admins := StaffTarget{Scope: entity.ScopePlatform, Role: entity.RoleAdmin}
	second, err := f.staff.Create(ctx, f.root, admins, CreateProfileInput{Email: "a2@x.com", Password: "p1"})
	require.NoError(t, err)
	require.NoError(t, f.staff.Delete(ctx, f.root, admins, second.ID))
	assert.Equal(t, []string{second.UserID}, sessions.revoked)

	sr, err := f.showrooms.Create(ctx, f.root, ShowroomInput{Name: "East"})
	require.NoError(t, err)
	boss, err := f.staff.Create(ctx, f.root, StaffTarget{Scope: entity.ScopeCarshowroom, Role: entity.RoleAdmin, ShowroomID: sr.ID}, CreateProfileInput{Email: "boss@x.com", Password: "p1"})
	require.NoError(t, err)
	mech, err := f.staff.Create(ctx, f.root, StaffTarget{Scope: entity.ScopeAdminCarshowroom, Role: entity.RoleAutoMechanic, ShowroomID: sr.ID}, CreateProfileInput{Email: "mech@x.com", Password: "p1"})
	require.NoError(t, err)

	sessions.revoked = nil
	require.NoError(t, f.showrooms.Delete(ctx, f.root, sr.ID))
	assert.ElementsMatch(t, []string{boss.UserID, mech.UserID}, sessions.revoked)

	// nothing is revoked when the delete fails
	sessions.revoked = nil
	assert.True(t, apperror.Is(f.showrooms.Delete(ctx, f.root, sr.ID), apperror.CodeNotFound))
	assert.Empty(t, sessions.revoked)
}

func TestShowroomService(t *testing.T) {
	ctx := context.Background()
	f := newStaffFixture(t)

	sr, err := f.showrooms.Create(ctx, f.root, ShowroomInput{Name: " North ", City: "Kyiv"})
	require.NoError(t, err)
	assert.Equal(t, "North", sr.Name)

	_, err = f.showrooms.Create(ctx, f.root, ShowroomInput{Name: "North"})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))
	_, err = f.showrooms.Create(ctx, policy.Actor{UserID: "x", Role: entity.RoleSales, Scope: entity.ScopeCarshowroom, ShowroomID: sr.ID}, ShowroomInput{Name: "Rogue"})
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))

	boss, err := f.staff.Create(ctx, f.root, StaffTarget{Scope: entity.ScopeCarshowroom, Role: entity.RoleAdmin, ShowroomID: sr.ID}, CreateProfileInput{Email: "b@x.com", Password: "p1"})
	require.NoError(t, err)
	updated, err := f.showrooms.Update(ctx, actorOf(boss), sr.ID, ShowroomPatch{Address: strPtr("Main st. 1")})
	require.NoError(t, err)
	assert.Equal(t, "Main st. 1", updated.Address)
	assert.Equal(t, "Kyiv", updated.City)

	assert.True(t, apperror.Is(f.showrooms.Delete(ctx, actorOf(boss), sr.ID), apperror.CodeForbidden))
	require.NoError(t, f.showrooms.Delete(ctx, f.root, sr.ID))
	_, err = f.store.Staff().GetByID(ctx, boss.ID)
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))

	byName, err := f.showrooms.List(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Zero(t, byName.Total)
}
