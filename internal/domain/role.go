package domain

import (
	"sort"
	"strings"
)

type Role string

const (
	RoleGuest      Role = "guest"
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// ParseRole maps unknown values to guest.
func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleGuest, RoleMember, RoleAdmin, RoleSuperAdmin:
		return r
	}
	return RoleGuest
}

type Capability string

const (
	CapViewPublic         Capability = "view_public"
	CapSubmitApplication  Capability = "submit_application"
	CapViewOwnProfile     Capability = "view_own_profile"
	CapEditOwnProfile     Capability = "edit_own_profile"
	CapViewMembers        Capability = "view_members"
	CapManageApplications Capability = "manage_applications"
	CapManageMembers      Capability = "manage_members"
	CapManagePlans        Capability = "manage_plans"
	CapRunJobs            Capability = "run_jobs"
	CapDeleteRecords      Capability = "delete_records"
	CapManageAdmins       Capability = "manage_admins"
)

type CapabilitySet map[Capability]struct{}

func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// List returns the capabilities sorted by name.
func (s CapabilitySet) List() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var (
	guestCaps      = []Capability{CapViewPublic, CapSubmitApplication}
	memberCaps     = []Capability{CapViewOwnProfile, CapEditOwnProfile}
	adminCaps      = []Capability{CapViewMembers, CapManageApplications, CapManageMembers, CapManagePlans, CapRunJobs}
	superAdminCaps = []Capability{CapDeleteRecords, CapManageAdmins}
)

// PermissionsFor returns the capabilities granted to role. Each role includes the ones below it.
func PermissionsFor(role Role) CapabilitySet {
	var groups [][]Capability
	switch role {
	case RoleSuperAdmin:
		groups = [][]Capability{guestCaps, memberCaps, adminCaps, superAdminCaps}
	case RoleAdmin:
		groups = [][]Capability{guestCaps, memberCaps, adminCaps}
	case RoleMember:
		groups = [][]Capability{guestCaps, memberCaps}
	default:
		groups = [][]Capability{guestCaps}
	}

	set := CapabilitySet{}
	for _, g := range groups {
		for _, c := range g {
			set[c] = struct{}{}
		}
	}
	return set
}
