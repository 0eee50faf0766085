package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hr-platform-api/models"
)

func TestCanPerform(t *testing.T) {
	cases := []struct {
		role      string
		operation string
		allowed   bool
	}{
		{models.RoleAdmin, OpManageUsers, true},
		{models.RoleHR, OpManageUsers, false},
		{models.RoleAdmin, OpManageOnboarding, true},
		{models.RoleHR, OpManageOnboarding, true},
		{models.RoleManager, OpManageOnboarding, false},
		{models.RoleHR, OpManageCycles, true},
		{models.RoleManager, OpManageCycles, false},
		{models.RoleManager, OpViewCycles, true},
		{models.RoleEmployee, OpViewCycles, false},
		{models.RoleIntern, OpViewCycles, false},
		{models.RoleHR, OpManageAppraisals, true},
		{models.RoleManager, OpManageAppraisals, false},
		{models.RoleHR, OpApproveForms, true},
		{models.RoleEmployee, OpApproveForms, false},
		{models.RoleAdmin, "unknown_operation", false},
		{"", OpManageUsers, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanPerform(tc.role, tc.operation),
			"role=%q operation=%q", tc.role, tc.operation)
	}
}
