package enum

// UserRole represents a user's role in the system
type UserRole string

const (
	// RoleOwner is the platform owner, the only role that can create superusers
	RoleOwner UserRole = "owner"
	// RoleSuperuser is a platform admin with access to all schools
	RoleSuperuser UserRole = "superuser"
	// RoleDirector has full access to their school
	RoleDirector UserRole = "director"
	// RoleShareholder has the same access as a director
	RoleShareholder UserRole = "shareholder"
	// RoleAccountant handles financial operations in their school
	RoleAccountant UserRole = "accountant"
	// RoleStaff has limited read access in their school
	RoleStaff UserRole = "staff"
)

func (r UserRole) String() string {
	return string(r)
}

// Valid reports whether the role is one of the known values
func (r UserRole) Valid() bool {
	switch r {
	case RoleOwner, RoleSuperuser, RoleDirector, RoleShareholder, RoleAccountant, RoleStaff:
		return true
	}
	return false
}

// IsSuperuser reports whether the role has cross-school access
func (r UserRole) IsSuperuser() bool {
	return r == RoleOwner || r == RoleSuperuser
}

// rolePermissions maps each role to its permission set
var rolePermissions = map[UserRole][]string{
	RoleOwner: {
		"schools:read", "schools:write",
		"users:read", "users:write", "users:create_superuser",
		"students:read", "students:write",
		"payments:read", "payments:write",
		"expenses:read", "expenses:write",
		"reports:read",
	},
	RoleSuperuser: {
		"schools:read", "schools:write",
		"users:read", "users:write",
		"students:read", "students:write",
		"payments:read", "payments:write",
		"expenses:read", "expenses:write",
		"reports:read",
	},
	RoleDirector: {
		"users:read", "users:write",
		"students:read", "students:write",
		"payments:read", "payments:write",
		"expenses:read", "expenses:write",
		"reports:read",
	},
	RoleShareholder: {
		"users:read", "users:write",
		"students:read", "students:write",
		"payments:read", "payments:write",
		"expenses:read", "expenses:write",
		"reports:read",
	},
	RoleAccountant: {
		"students:read",
		"payments:read", "payments:write",
		"expenses:read", "expenses:write",
		"reports:read",
	},
	RoleStaff: {
		"students:read",
		"payments:read",
		"reports:read",
	},
}

// roleHierarchy maps each role to the roles it may create
var roleHierarchy = map[UserRole][]UserRole{
	RoleOwner:       {RoleSuperuser, RoleDirector, RoleShareholder, RoleAccountant, RoleStaff},
	RoleSuperuser:   {RoleDirector, RoleShareholder, RoleAccountant, RoleStaff},
	RoleDirector:    {RoleAccountant, RoleStaff},
	RoleShareholder: {RoleDirector, RoleAccountant, RoleStaff},
	RoleAccountant:  {},
	RoleStaff:       {},
}

// HasPermission reports whether the role holds the given permission
func (r UserRole) HasPermission(permission string) bool {
	for _, p := range rolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}

// CanCreateRole reports whether the role may create users of the target role
func (r UserRole) CanCreateRole(target UserRole) bool {
	for _, t := range roleHierarchy[r] {
		if t == target {
			return true
		}
	}
	return false
}
