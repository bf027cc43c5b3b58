package entity

// Role is the account role stored on users and carried in tokens.
type Role string

const (
	RoleBuyer          Role = "buyer"
	RoleSeller         Role = "seller"
	RoleAdmin          Role = "admin"
	RoleManager        Role = "manager"
	RoleSales          Role = "sales"
	RoleServiceManager Role = "service_manager"
	RoleAutoMechanic   Role = "auto_mechanic"
)

// IsStaff reports whether the role belongs to a staff member profile.
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSales, RoleServiceManager, RoleAutoMechanic:
		return true
	}
	return false
}

// Scope is the organizational level a staff member works at.
type Scope string

const (
	ScopePlatform         Scope = "platform"
	ScopeCarshowroom      Scope = "carshowroom"
	ScopeAdminCarshowroom Scope = "admin_carshowroom"
)

func (s Scope) Valid() bool {
	switch s {
	case ScopePlatform, ScopeCarshowroom, ScopeAdminCarshowroom:
		return true
	}
	return false
}

// Allows reports whether a staff member of role r may exist in scope s.
// The platform only has admins and managers.
func (s Scope) Allows(r Role) bool {
	if !r.IsStaff() || !s.Valid() {
		return false
	}
	if s == ScopePlatform {
		return r == RoleAdmin || r == RoleManager
	}
	return true
}

// NeedsShowroom is true for scopes that hang under a showroom.
func (s Scope) NeedsShowroom() bool {
	return s == ScopeCarshowroom || s == ScopeAdminCarshowroom
}
