package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-platform-api/models"
)

func TestBulkAssign_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	admin := seedUser(t, db, "Admin", "admin@x.com", models.RoleAdmin)
	cycle := seedCycle(t, db, "H1", models.CycleStatusActive, admin.UserID)

	emp := seedUser(t, db, "Emp", "emp@x.com", models.RoleEmployee)
	peer := seedUser(t, db, "Peer", "peer@x.com", models.RoleEmployee)
	manager := seedUser(t, db, "Mgr", "mgr@x.com", models.RoleManager)

	entries := []AssignmentEntry{
		{EmployeeID: emp.UserID, ReviewerID: emp.UserID, ReviewerType: models.ReviewerTypeSelf},
		{EmployeeID: emp.UserID, ReviewerID: peer.UserID, ReviewerType: models.ReviewerTypePeer},
		{EmployeeID: emp.UserID, ReviewerID: manager.UserID, ReviewerType: models.ReviewerTypeManager},
	}

	result, appErr := svc.BulkAssign(cycle.CycleID, entries)
	require.Nil(t, appErr)
	assert.Equal(t, 3, result.FormsCreated)
	require.Len(t, result.Assignments, 3)

	// N assignments, N forms, N notifications, pairwise linked by the
	// composite key.
	for _, a := range result.Assignments {
		assert.NotNil(t, a.NotifiedAt, "notified_at must be stamped")

		var form models.ReviewForm
		require.NoError(t, db.First(&form, "assignment_id = ?", a.AssignmentID).Error)
		assert.Equal(t, a.EmployeeID, form.EmployeeID)
		assert.Equal(t, a.ReviewerID, form.ReviewerID)
		assert.Equal(t, models.FormStatusPending, form.Status)
		assert.Nil(t, form.Rating)

		var notification models.ReviewNotification
		require.NoError(t, db.First(&notification,
			"user_id = ? AND related_form_id = ?", a.ReviewerID, form.FormID).Error)
		assert.Equal(t, models.NotificationReviewRequested, notification.NotificationType)
	}

	var formCount, notificationCount int64
	require.NoError(t, db.Model(&models.ReviewForm{}).Where("cycle_id = ?", cycle.CycleID).Count(&formCount).Error)
	require.NoError(t, db.Model(&models.ReviewNotification{}).Count(&notificationCount).Error)
	assert.EqualValues(t, 3, formCount)
	assert.EqualValues(t, 3, notificationCount)
}

func TestBulkAssign_LockedCycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	admin := seedUser(t, db, "Admin", "admin@x.com", models.RoleAdmin)
	emp := seedUser(t, db, "Emp", "emp@x.com", models.RoleEmployee)

	for _, status := range []string{models.CycleStatusLocked, models.CycleStatusCompleted} {
		cycle := seedCycle(t, db, "C-"+status, status, admin.UserID)

		_, appErr := svc.BulkAssign(cycle.CycleID, []AssignmentEntry{
			{EmployeeID: emp.UserID, ReviewerID: admin.UserID, ReviewerType: models.ReviewerTypeManager},
		})
		require.NotNil(t, appErr)
		assert.Equal(t, "CYCLE_LOCKED", appErr.Code)

		var count int64
		require.NoError(t, db.Model(&models.ReviewerAssignment{}).Where("cycle_id = ?", cycle.CycleID).Count(&count).Error)
		assert.Zero(t, count, "no rows may be created for a %s cycle", status)
	}
}

func TestBulkAssign_CollectsAllMissingUsers(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	admin := seedUser(t, db, "Admin", "admin@x.com", models.RoleAdmin)
	cycle := seedCycle(t, db, "H1", models.CycleStatusActive, admin.UserID)

	_, appErr := svc.BulkAssign(cycle.CycleID, []AssignmentEntry{
		{EmployeeID: 777, ReviewerID: admin.UserID, ReviewerType: models.ReviewerTypeManager},
		{EmployeeID: admin.UserID, ReviewerID: 888, ReviewerType: models.ReviewerTypePeer},
	})
	require.NotNil(t, appErr)
	assert.Equal(t, "USERS_NOT_FOUND", appErr.Code)
	assert.Contains(t, appErr.Message, "777")
	assert.Contains(t, appErr.Message, "888")
}

func TestBulkAssign_CollectsAllDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	admin := seedUser(t, db, "Admin", "admin@x.com", models.RoleAdmin)
	cycle := seedCycle(t, db, "H1", models.CycleStatusActive, admin.UserID)
	emp := seedUser(t, db, "Emp", "emp@x.com", models.RoleEmployee)
	peer := seedUser(t, db, "Peer", "peer@x.com", models.RoleEmployee)

	_, appErr := svc.BulkAssign(cycle.CycleID, []AssignmentEntry{
		{EmployeeID: emp.UserID, ReviewerID: peer.UserID, ReviewerType: models.ReviewerTypePeer},
	})
	require.Nil(t, appErr)

	// One conflict with an existing row, one intra-batch repeat: both must be
	// reported, and nothing written.
	_, appErr = svc.BulkAssign(cycle.CycleID, []AssignmentEntry{
		{EmployeeID: emp.UserID, ReviewerID: peer.UserID, ReviewerType: models.ReviewerTypePeer},
		{EmployeeID: emp.UserID, ReviewerID: admin.UserID, ReviewerType: models.ReviewerTypeManager},
		{EmployeeID: emp.UserID, ReviewerID: admin.UserID, ReviewerType: models.ReviewerTypeManager},
	})
	require.NotNil(t, appErr)
	assert.Equal(t, "DUPLICATE_ASSIGNMENTS", appErr.Code)
	assert.Contains(t, appErr.Message, fmt.Sprintf("%d:%d:%s", emp.UserID, peer.UserID, models.ReviewerTypePeer))
	assert.Contains(t, appErr.Message, fmt.Sprintf("%d:%d:%s", emp.UserID, admin.UserID, models.ReviewerTypeManager))

	var count int64
	require.NoError(t, db.Model(&models.ReviewerAssignment{}).Where("cycle_id = ?", cycle.CycleID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestBulkAssign_RollsBackOnMidBatchFailure(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	admin := seedUser(t, db, "Admin", "admin@x.com", models.RoleAdmin)
	emp := seedUser(t, db, "Emp", "emp@x.com", models.RoleEmployee)
	cycle := seedCycle(t, db, "H1", models.CycleStatusActive, admin.UserID)

	// The notification insert is the last write for each entry; with its table
	// gone the batch must fail after assignments and forms were already staged.
	require.NoError(t, db.Migrator().DropTable(&models.ReviewNotification{}))

	_, appErr := svc.BulkAssign(cycle.CycleID, []AssignmentEntry{
		{EmployeeID: emp.UserID, ReviewerID: admin.UserID, ReviewerType: models.ReviewerTypeManager},
	})
	require.NotNil(t, appErr)
	assert.Equal(t, "INTERNAL_ERROR", appErr.Code)

	var assignments, forms int64
	require.NoError(t, db.Model(&models.ReviewerAssignment{}).Where("cycle_id = ?", cycle.CycleID).Count(&assignments).Error)
	require.NoError(t, db.Model(&models.ReviewForm{}).Where("cycle_id = ?", cycle.CycleID).Count(&forms).Error)
	assert.Zero(t, assignments)
	assert.Zero(t, forms)
}

func TestBulkAssign_RejectsBadEntries(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(db)
	admin := seedUser(t, db, "Admin", "admin@x.com", models.RoleAdmin)
	cycle := seedCycle(t, db, "H1", models.CycleStatusActive, admin.UserID)

	_, appErr := svc.BulkAssign(cycle.CycleID, nil)
	require.NotNil(t, appErr)
	assert.Equal(t, "ASSIGNMENTS_REQUIRED", appErr.Code)

	_, appErr = svc.BulkAssign(cycle.CycleID, []AssignmentEntry{
		{EmployeeID: 0, ReviewerID: admin.UserID, ReviewerType: models.ReviewerTypePeer},
	})
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_ASSIGNMENT", appErr.Code)

	_, appErr = svc.BulkAssign(cycle.CycleID, []AssignmentEntry{
		{EmployeeID: admin.UserID, ReviewerID: admin.UserID, ReviewerType: "mentor"},
	})
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_REVIEWER_TYPE", appErr.Code)

	_, appErr = svc.BulkAssign(9999, []AssignmentEntry{
		{EmployeeID: admin.UserID, ReviewerID: admin.UserID, ReviewerType: models.ReviewerTypeSelf},
	})
	require.NotNil(t, appErr)
	assert.Equal(t, "CYCLE_NOT_FOUND", appErr.Code)
}
