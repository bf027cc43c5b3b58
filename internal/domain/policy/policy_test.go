package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/pkg/apperror"
)

var (
	platformAdmin   = Actor{UserID: "1", Role: entity.RoleAdmin, Scope: entity.ScopePlatform}
	platformManager = Actor{UserID: "2", Role: entity.RoleManager, Scope: entity.ScopePlatform}
	showroomAdmin   = Actor{UserID: "3", Role: entity.RoleAdmin, Scope: entity.ScopeCarshowroom, ShowroomID: "sr-1"}
	showroomSales   = Actor{UserID: "4", Role: entity.RoleSales, Scope: entity.ScopeCarshowroom, ShowroomID: "sr-1"}
	hqManager       = Actor{UserID: "5", Role: entity.RoleManager, Scope: entity.ScopeAdminCarshowroom, ShowroomID: "sr-1"}
	buyer           = Actor{UserID: "6", Role: entity.RoleBuyer}
)

func TestAllowed_PlatformScope(t *testing.T) {
	assert.True(t, Allowed(platformAdmin, entity.ScopePlatform, "", Manage))
	assert.True(t, Allowed(platformManager, entity.ScopePlatform, "", Read))
	assert.False(t, Allowed(platformManager, entity.ScopePlatform, "", Manage))
	assert.False(t, Allowed(showroomAdmin, entity.ScopePlatform, "", Read))
}

func TestAllowed_AdminCarshowroomScope(t *testing.T) {
	assert.True(t, Allowed(platformAdmin, entity.ScopeAdminCarshowroom, "sr-1", Manage))
	assert.True(t, Allowed(platformManager, entity.ScopeAdminCarshowroom, "sr-1", Manage))
	assert.True(t, Allowed(hqManager, entity.ScopeAdminCarshowroom, "sr-1", Read))
	assert.False(t, Allowed(hqManager, entity.ScopeAdminCarshowroom, "sr-1", Manage))
	assert.False(t, Allowed(showroomAdmin, entity.ScopeAdminCarshowroom, "sr-1", Manage))
}

func TestAllowed_CarshowroomScope(t *testing.T) {
	assert.True(t, Allowed(platformManager, entity.ScopeCarshowroom, "sr-1", Manage))
	assert.True(t, Allowed(showroomAdmin, entity.ScopeCarshowroom, "sr-1", Manage))
	assert.True(t, Allowed(hqManager, entity.ScopeCarshowroom, "sr-1", Manage))
	assert.False(t, Allowed(showroomAdmin, entity.ScopeCarshowroom, "sr-2", Read))
	assert.True(t, Allowed(showroomSales, entity.ScopeCarshowroom, "sr-1", Read))
	assert.False(t, Allowed(showroomSales, entity.ScopeCarshowroom, "sr-1", Manage))
	assert.False(t, Allowed(buyer, entity.ScopeCarshowroom, "sr-1", Read))
}

func TestAuthorize_ReturnsForbidden(t *testing.T) {
	err := Authorize(buyer, entity.ScopePlatform, "", Read)
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))
	assert.NoError(t, Authorize(platformAdmin, entity.ScopePlatform, "", Manage))
	assert.False(t, Allowed(Actor{}, entity.ScopeCarshowroom, "", Read))
}

func TestAccountAndShowroomChecks(t *testing.T) {
	assert.True(t, CanManageAccounts(platformManager))
	assert.False(t, CanManageAccounts(showroomAdmin))
	assert.True(t, CanManageShowroom(showroomAdmin, "sr-1"))
	assert.False(t, CanManageShowroom(showroomAdmin, "sr-2"))
	assert.False(t, CanManageShowroom(showroomSales, "sr-1"))
}
