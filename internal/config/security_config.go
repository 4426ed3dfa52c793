// config/security_config.go
package config

import "memberhub-backend/internal/domain"

// RouteKey identifies a route as "METHOD /path/template"
type RouteKey string

// RouteSecurityConfig maps each route to the capability the caller needs
var RouteSecurityConfig = map[RouteKey]domain.Capability{
	// Public site
	"GET /healthz":                                   domain.CapViewPublic,
	"GET /api/v1/plans":                              domain.CapViewPublic,
	"GET /api/v1/plans/{id}":                         domain.CapViewPublic,
	"POST /api/v1/auth/login":                        domain.CapViewPublic,
	"POST /api/v1/applications":                      domain.CapSubmitApplication,
	"POST /api/v1/applications/{id}/checkout":        domain.CapSubmitApplication,
	"POST /api/v1/applications/{id}/checkout/verify": domain.CapSubmitApplication,

	// Member self-service
	"GET /api/v1/me":             domain.CapViewOwnProfile,
	"PUT /api/v1/me":             domain.CapEditOwnProfile,
	"GET /api/v1/me/permissions": domain.CapViewPublic,

	// Admin - applications
	"GET /api/v1/admin/applications":               domain.CapManageApplications,
	"GET /api/v1/admin/applications/{id}":          domain.CapManageApplications,
	"POST /api/v1/admin/applications/{id}/approve": domain.CapManageApplications,
	"POST /api/v1/admin/applications/{id}/reject":  domain.CapManageApplications,
	"DELETE /api/v1/admin/applications/{id}":       domain.CapDeleteRecords,

	// Admin - members
	"GET /api/v1/admin/members":              domain.CapViewMembers,
	"GET /api/v1/admin/members/{id}":         domain.CapViewMembers,
	"PUT /api/v1/admin/members/{id}":         domain.CapManageMembers,
	"POST /api/v1/admin/members/{id}/renew":  domain.CapManageMembers,
	"POST /api/v1/admin/members/{id}/cancel": domain.CapManageMembers,
	"DELETE /api/v1/admin/members/{id}":      domain.CapDeleteRecords,

	// Admin - plans
	"POST /api/v1/admin/plans":        domain.CapManagePlans,
	"PUT /api/v1/admin/plans/{id}":    domain.CapManagePlans,
	"DELETE /api/v1/admin/plans/{id}": domain.CapDeleteRecords,

	// Admin - jobs
	"POST /api/v1/admin/jobs/expire-memberships": domain.CapRunJobs,
}

// GetRequiredCapability returns the capability for a route
func GetRequiredCapability(method, pathTemplate string) domain.Capability {
	if c, exists := RouteSecurityConfig[RouteKey(method+" "+pathTemplate)]; exists {
		return c
	}
	// Default to highest privilege for unknown routes
	return domain.CapManageAdmins
}
