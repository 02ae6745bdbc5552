package core

// Role is the coarse privilege level stored by the provider, keyed by
// identity id. It is deliberately not embedded in the session token so
// role changes take effect without forcing a re-login.
type Role string

const (
	RoleEndUser     Role = "end_user"
	RoleCompanyUser Role = "company_user"
	RoleSuperadmin  Role = "superadmin"
)

// Valid reports whether r is one of the three enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEndUser, RoleCompanyUser, RoleSuperadmin:
		return true
	}
	return false
}

// ParseRole maps a stored value to a Role. Anything unrecognized
// resolves to RoleEndUser - the safe default never escalates.
func ParseRole(s string) Role {
	r := Role(s)
	if !r.Valid() {
		return RoleEndUser
	}
	return r
}
