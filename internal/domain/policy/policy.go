// Package policy decides which staff actions an authenticated actor may take.
package policy

import (
	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/pkg/apperror"
)

// Actor is the caller as described by its access token.
type Actor struct {
	UserID     string
	Role       entity.Role
	Scope      entity.Scope
	ShowroomID string
}

type Action int

const (
	Read Action = iota
	Manage
)

func (a Actor) isPlatform(roles ...entity.Role) bool {
	if a.Scope != entity.ScopePlatform {
		return false
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// IsPlatformStaff is true for platform admins and managers.
func (a Actor) IsPlatformStaff() bool {
	return a.isPlatform(entity.RoleAdmin, entity.RoleManager)
}

func (a Actor) inShowroom(showroomID string) bool {
	return showroomID != "" && a.ShowroomID == showroomID && a.Scope.NeedsShowroom()
}

// Allowed reports whether actor may perform action on profiles of the given scope and showroom.
func Allowed(actor Actor, scope entity.Scope, showroomID string, action Action) bool {
	if actor.UserID == "" {
		return false
	}
	switch scope {
	case entity.ScopePlatform:
		if action == Read {
			return actor.IsPlatformStaff()
		}
		return actor.isPlatform(entity.RoleAdmin)
	case entity.ScopeAdminCarshowroom:
		if actor.IsPlatformStaff() {
			return true
		}
		return action == Read && actor.inShowroom(showroomID) && actor.Scope == entity.ScopeAdminCarshowroom
	case entity.ScopeCarshowroom:
		if actor.IsPlatformStaff() {
			return true
		}
		if !actor.inShowroom(showroomID) {
			return false
		}
		if action == Read {
			return true
		}
		return actor.Role == entity.RoleAdmin || actor.Role == entity.RoleManager
	}
	return false
}

// Authorize is Allowed returning a FORBIDDEN error on denial.
func Authorize(actor Actor, scope entity.Scope, showroomID string, action Action) error {
	if Allowed(actor, scope, showroomID, action) {
		return nil
	}
	return apperror.Forbidden("You do not have permission to perform this action")
}

// CanManageAccounts covers the admin mirrors of buyer and seller management.
func CanManageAccounts(actor Actor) bool {
	return actor.UserID != "" && actor.IsPlatformStaff()
}

// CanManageShowroom allows platform staff, plus the showroom's own admin for edits of its card.
func CanManageShowroom(actor Actor, showroomID string) bool {
	if actor.IsPlatformStaff() {
		return true
	}
	return actor.inShowroom(showroomID) && actor.Role == entity.RoleAdmin
}
