package authdomain

// Role is a member's federation role.
type Role string

const (
	RoleShooter      Role = "shooter"
	RoleRangeOfficer Role = "range_officer"
	RoleStatsOfficer Role = "stats_officer"
	RoleTeamCaptain  Role = "team_captain"
	RoleAdmin        Role = "admin"
	RoleSuperAdmin   Role = "super_admin"
)

// SelfAssignableRoles is the single source of truth for roles a member may pick
// at registration. Everything else is admin-assignable only. The provisioning
// endpoint is the enforcement point; handlers never duplicate this list.
var SelfAssignableRoles = []Role{RoleShooter, RoleRangeOfficer, RoleStatsOfficer}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleShooter, RoleRangeOfficer, RoleStatsOfficer, RoleTeamCaptain, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsSelfAssignable reports whether a member may claim r at registration.
func (r Role) IsSelfAssignable() bool {
	for _, s := range SelfAssignableRoles {
		if r == s {
			return true
		}
	}
	return false
}

// IsAdmin reports whether r carries administrative privileges.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// ClampSelfAssignable returns r if it is self-assignable, RoleShooter otherwise.
// Applied at the trust boundary regardless of what the client sent.
func ClampSelfAssignable(r Role) Role {
	if r.IsSelfAssignable() {
		return r
	}
	return RoleShooter
}
