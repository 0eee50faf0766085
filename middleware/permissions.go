package middleware

import (
	"hr-platform-api/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Operations gated by role. Each maps to the set of roles allowed to perform it.
const (
	OpManageUsers       = "manage_users"
	OpManageOnboarding  = "manage_onboarding"
	OpManageCycles      = "manage_cycles"
	OpViewCycles        = "view_cycles"
	OpManageAssignments = "manage_assignments"
	OpManageAppraisals  = "manage_appraisals"
	OpApproveForms      = "approve_forms"
)

var permissions = map[string]map[string]bool{
	OpManageUsers:       {models.RoleAdmin: true},
	OpManageOnboarding:  {models.RoleAdmin: true, models.RoleHR: true},
	OpManageCycles:      {models.RoleAdmin: true, models.RoleHR: true},
	OpViewCycles:        {models.RoleAdmin: true, models.RoleHR: true, models.RoleManager: true},
	OpManageAssignments: {models.RoleAdmin: true, models.RoleHR: true},
	OpManageAppraisals:  {models.RoleAdmin: true, models.RoleHR: true},
	OpApproveForms:      {models.RoleAdmin: true, models.RoleHR: true},
}

// CanPerform is the single authorization decision point: it reports whether
// the given role may perform the named operation. Pure function so the
// capability table is testable without request plumbing.
func CanPerform(role, operation string) bool {
	allowed, ok := permissions[operation]
	if !ok {
		return false
	}
	return allowed[role]
}

// RequirePermission rejects authenticated requests whose role lacks the
// capability for the operation.
func RequirePermission(operation string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "code": "FORBIDDEN", "error": "Role not found"})
			c.Abort()
			return
		}

		if !CanPerform(role.(string), operation) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "code": "FORBIDDEN", "error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
