package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-platform-api/models"
)

func TestCreateAppraisal(t *testing.T) {
	db := newTestDB(t)
	svc := NewAppraisalService(db)
	hr := seedUser(t, db, "HR", "hr@x.com", models.RoleHR)
	emp := seedUser(t, db, "Emp", "emp@x.com", models.RoleEmployee)
	cycle := seedCycle(t, db, "H1", models.CycleStatusActive, hr.UserID)

	appraisal, appErr := svc.Create(CreateAppraisalInput{
		EmployeeID:   emp.UserID,
		CycleID:      cycle.CycleID,
		ReviewYear:   2026,
		PastCtc:      400000,
		CurrentCtc:   500000,
		ActingUserID: hr.UserID,
	})
	require.Nil(t, appErr)
	assert.InDelta(t, 25.0, appraisal.HikePercentage, 0.0001)
	assert.Equal(t, hr.UserID, appraisal.UpdatedBy)
}

func TestCreateAppraisal_ZeroPastCtc(t *testing.T) {
	db := newTestDB(t)
	svc := NewAppraisalService(db)
	hr := seedUser(t, db, "HR", "hr@x.com", models.RoleHR)
	emp := seedUser(t, db, "Emp", "emp@x.com", models.RoleEmployee)
	cycle := seedCycle(t, db, "H1", models.CycleStatusActive, hr.UserID)

	// Division-by-zero policy: a first appraisal with no prior CTC stores 0.
	appraisal, appErr := svc.Create(CreateAppraisalInput{
		EmployeeID:   emp.UserID,
		CycleID:      cycle.CycleID,
		ReviewYear:   2026,
		PastCtc:      0,
		CurrentCtc:   50000,
		ActingUserID: hr.UserID,
	})
	require.Nil(t, appErr)
	assert.Zero(t, appraisal.HikePercentage)
}

func TestCreateAppraisal_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAppraisalService(db)
	hr := seedUser(t, db, "HR", "hr@x.com", models.RoleHR)
	emp := seedUser(t, db, "Emp", "emp@x.com", models.RoleEmployee)
	cycle := seedCycle(t, db, "H1", models.CycleStatusActive, hr.UserID)

	base := CreateAppraisalInput{
		EmployeeID:   emp.UserID,
		CycleID:      cycle.CycleID,
		ReviewYear:   2026,
		PastCtc:      400000,
		CurrentCtc:   500000,
		ActingUserID: hr.UserID,
	}

	in := base
	in.ReviewYear = 1999
	_, appErr := svc.Create(in)
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_REVIEW_YEAR", appErr.Code)

	in = base
	in.ReviewYear = time.Now().Year() + 5
	_, appErr = svc.Create(in)
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_REVIEW_YEAR", appErr.Code)

	in = base
	in.CurrentCtc = 0
	_, appErr = svc.Create(in)
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_CTC", appErr.Code)

	in = base
	in.EmployeeID = 999
	_, appErr = svc.Create(in)
	require.NotNil(t, appErr)
	assert.Equal(t, "EMPLOYEE_NOT_FOUND", appErr.Code)

	in = base
	in.CycleID = 999
	_, appErr = svc.Create(in)
	require.NotNil(t, appErr)
	assert.Equal(t, "CYCLE_NOT_FOUND", appErr.Code)
}

func TestCreateAppraisal_DuplicatePair(t *testing.T) {
	db := newTestDB(t)
	svc := NewAppraisalService(db)
	hr := seedUser(t, db, "HR", "hr@x.com", models.RoleHR)
	emp := seedUser(t, db, "Emp", "emp@x.com", models.RoleEmployee)
	cycle := seedCycle(t, db, "H1", models.CycleStatusActive, hr.UserID)

	in := CreateAppraisalInput{
		EmployeeID:   emp.UserID,
		CycleID:      cycle.CycleID,
		ReviewYear:   2026,
		PastCtc:      400000,
		CurrentCtc:   500000,
		ActingUserID: hr.UserID,
	}

	_, appErr := svc.Create(in)
	require.Nil(t, appErr)

	_, appErr = svc.Create(in)
	require.NotNil(t, appErr)
	assert.Equal(t, "DUPLICATE_APPRAISAL", appErr.Code)

	var count int64
	require.NoError(t, db.Model(&models.Appraisal{}).
		Where("employee_id = ? AND cycle_id = ?", emp.UserID, cycle.CycleID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateAppraisal_HikeRecomputation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAppraisalService(db)
	hr := seedUser(t, db, "HR", "hr@x.com", models.RoleHR)
	emp := seedUser(t, db, "Emp", "emp@x.com", models.RoleEmployee)
	cycle := seedCycle(t, db, "H1", models.CycleStatusActive, hr.UserID)

	created, appErr := svc.Create(CreateAppraisalInput{
		EmployeeID:   emp.UserID,
		CycleID:      cycle.CycleID,
		ReviewYear:   2026,
		PastCtc:      400000,
		CurrentCtc:   500000,
		ActingUserID: hr.UserID,
	})
	require.Nil(t, appErr)

	// No CTC change, no explicit hike: stored value is preserved.
	remarks := "solid half"
	updated, appErr := svc.Update(created.AppraisalID, UpdateAppraisalInput{
		Remarks:      &remarks,
		ActingUserID: hr.UserID,
	})
	require.Nil(t, appErr)
	assert.InDelta(t, 25.0, updated.HikePercentage, 0.0001)

	// CTC change without an explicit hike: recomputed.
	newCurrent := int64(600000)
	updated, appErr = svc.Update(created.AppraisalID, UpdateAppraisalInput{
		CurrentCtc:   &newCurrent,
		ActingUserID: hr.UserID,
	})
	require.Nil(t, appErr)
	assert.InDelta(t, 50.0, updated.HikePercentage, 0.0001)

	// Explicit hike wins over recomputation even when a CTC changes.
	explicit := 10.0
	newPast := int64(500000)
	updated, appErr = svc.Update(created.AppraisalID, UpdateAppraisalInput{
		PastCtc:        &newPast,
		HikePercentage: &explicit,
		ActingUserID:   hr.UserID,
	})
	require.Nil(t, appErr)
	assert.InDelta(t, 10.0, updated.HikePercentage, 0.0001)
}

func TestUpdateAppraisal_CycleChange(t *testing.T) {
	db := newTestDB(t)
	svc := NewAppraisalService(db)
	hr := seedUser(t, db, "HR", "hr@x.com", models.RoleHR)
	emp := seedUser(t, db, "Emp", "emp@x.com", models.RoleEmployee)
	cycleA := seedCycle(t, db, "A", models.CycleStatusActive, hr.UserID)
	cycleB := seedCycle(t, db, "B", models.CycleStatusActive, hr.UserID)

	first, appErr := svc.Create(CreateAppraisalInput{
		EmployeeID: emp.UserID, CycleID: cycleA.CycleID, ReviewYear: 2026,
		PastCtc: 1, CurrentCtc: 2, ActingUserID: hr.UserID,
	})
	require.Nil(t, appErr)

	second, appErr := svc.Create(CreateAppraisalInput{
		EmployeeID: emp.UserID, CycleID: cycleB.CycleID, ReviewYear: 2026,
		PastCtc: 1, CurrentCtc: 2, ActingUserID: hr.UserID,
	})
	require.Nil(t, appErr)

	// Moving second onto first's cycle violates the (employee, cycle) pair.
	_, updErr := svc.Update(second.AppraisalID, UpdateAppraisalInput{
		CycleID: &cycleA.CycleID, ActingUserID: hr.UserID,
	})
	require.NotNil(t, updErr)
	assert.Equal(t, "DUPLICATE_APPRAISAL", updErr.Code)

	missing := 9999
	_, updErr = svc.Update(first.AppraisalID, UpdateAppraisalInput{
		CycleID: &missing, ActingUserID: hr.UserID,
	})
	require.NotNil(t, updErr)
	assert.Equal(t, "CYCLE_NOT_FOUND", updErr.Code)
}
