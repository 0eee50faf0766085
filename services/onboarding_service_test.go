package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hr-platform-api/models"
	"hr-platform-api/utils"
)

func seedSubmission(t *testing.T, db *gorm.DB, email, status string) models.OnboardingSubmission {
	t.Helper()

	sub := models.OnboardingSubmission{
		FullName:      "A B",
		PersonalEmail: email,
		Status:        status,
	}
	require.NoError(t, db.Create(&sub).Error)
	return sub
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.OnboardingStatusPending, models.OnboardingStatusInReview, true},
		{models.OnboardingStatusPending, models.OnboardingStatusApproved, true},
		{models.OnboardingStatusPending, models.OnboardingStatusRejected, true},
		{models.OnboardingStatusInReview, models.OnboardingStatusApproved, true},
		{models.OnboardingStatusInReview, models.OnboardingStatusRejected, true},
		{models.OnboardingStatusInReview, models.OnboardingStatusPending, true},
		{models.OnboardingStatusRejected, models.OnboardingStatusPending, true},
		{models.OnboardingStatusRejected, models.OnboardingStatusInReview, false},
		{models.OnboardingStatusRejected, models.OnboardingStatusApproved, false},
		{models.OnboardingStatusApproved, models.OnboardingStatusPending, false},
		{models.OnboardingStatusApproved, models.OnboardingStatusRejected, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, models.CanTransitionOnboarding(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}

	assert.Empty(t, models.AllowedOnboardingTargets(models.OnboardingStatusApproved))
}

func TestTransitionStatus_NotFound(t *testing.T) {
	svc := NewOnboardingService(newTestDB(t))

	_, appErr := svc.TransitionStatus(999, TransitionInput{TargetStatus: models.OnboardingStatusInReview})
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestTransitionStatus_InvalidTransition(t *testing.T) {
	db := newTestDB(t)
	svc := NewOnboardingService(db)
	sub := seedSubmission(t, db, "r@x.com", models.OnboardingStatusRejected)

	_, appErr := svc.TransitionStatus(sub.SubmissionID, TransitionInput{TargetStatus: models.OnboardingStatusInReview})
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_TRANSITION", appErr.Code)
	assert.Contains(t, appErr.Message, models.OnboardingStatusPending)
}

func TestTransitionStatus_ApprovedIsImmutable(t *testing.T) {
	db := newTestDB(t)
	svc := NewOnboardingService(db)
	reviewer := seedUser(t, db, "HR", "hr@x.com", models.RoleHR)
	sub := seedSubmission(t, db, "a@x.com", models.OnboardingStatusPending)

	_, appErr := svc.TransitionStatus(sub.SubmissionID, TransitionInput{
		TargetStatus: models.OnboardingStatusApproved,
		ReviewerID:   &reviewer.UserID,
	})
	require.Nil(t, appErr)

	// Every further transition attempt fails, regardless of target.
	for _, target := range []string{
		models.OnboardingStatusPending,
		models.OnboardingStatusInReview,
		models.OnboardingStatusApproved,
		models.OnboardingStatusRejected,
	} {
		_, appErr := svc.TransitionStatus(sub.SubmissionID, TransitionInput{
			TargetStatus: target,
			ReviewerID:   &reviewer.UserID,
		})
		require.NotNil(t, appErr, "target %s", target)
		assert.Equal(t, "APPROVED_IMMUTABLE", appErr.Code)
		assert.Equal(t, http.StatusConflict, appErr.Status)
	}
}

func TestTransitionStatus_ReviewerRequired(t *testing.T) {
	db := newTestDB(t)
	svc := NewOnboardingService(db)
	sub := seedSubmission(t, db, "a@x.com", models.OnboardingStatusPending)

	_, appErr := svc.TransitionStatus(sub.SubmissionID, TransitionInput{TargetStatus: models.OnboardingStatusRejected})
	require.NotNil(t, appErr)
	assert.Equal(t, "REVIEWER_REQUIRED", appErr.Code)

	missing := 12345
	_, appErr = svc.TransitionStatus(sub.SubmissionID, TransitionInput{
		TargetStatus: models.OnboardingStatusRejected,
		ReviewerID:   &missing,
	})
	require.NotNil(t, appErr)
	assert.Equal(t, "REVIEWER_NOT_FOUND", appErr.Code)

	// No partial effect: the submission is untouched.
	var got models.OnboardingSubmission
	require.NoError(t, db.First(&got, "submission_id = ?", sub.SubmissionID).Error)
	assert.Equal(t, models.OnboardingStatusPending, got.Status)
	assert.Nil(t, got.ReviewedBy)
}

func TestTransitionStatus_ApprovalProvisionsUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewOnboardingService(db)
	reviewer := seedUser(t, db, "HR", "hr@x.com", models.RoleHR)
	sub := seedSubmission(t, db, "a@x.com", models.OnboardingStatusPending)

	result, appErr := svc.TransitionStatus(sub.SubmissionID, TransitionInput{
		TargetStatus: models.OnboardingStatusApproved,
		ReviewerID:   &reviewer.UserID,
	})
	require.Nil(t, appErr)

	assert.Equal(t, models.OnboardingStatusApproved, result.Submission.Status)
	require.NotNil(t, result.Submission.ReviewedBy)
	assert.Equal(t, reviewer.UserID, *result.Submission.ReviewedBy)
	assert.NotNil(t, result.Submission.ReviewedAt)

	assert.True(t, result.UserCreated)
	assert.NotEmpty(t, result.TempPassword)

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "a@x.com").Error)
	assert.Equal(t, models.RoleEmployee, user.Role)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.True(t, utils.CheckPasswordHash(result.TempPassword, user.Password))

	var welcome models.ReviewNotification
	require.NoError(t, db.First(&welcome, "user_id = ? AND notification_type = ?",
		user.UserID, models.NotificationOnboardingApproved).Error)
	assert.Contains(t, welcome.Message, "approved")
}

func TestTransitionStatus_RollsBackWhenProvisioningFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewOnboardingService(db)
	reviewer := seedUser(t, db, "HR", "hr@x.com", models.RoleHR)
	sub := seedSubmission(t, db, "a@x.com", models.OnboardingStatusPending)

	// Block the account insert at the storage layer; the status update shares
	// its transaction and must roll back with it.
	require.NoError(t, db.Exec(`CREATE TRIGGER block_user_inserts BEFORE INSERT ON users
		BEGIN SELECT RAISE(ABORT, 'user provisioning unavailable'); END`).Error)

	_, appErr := svc.TransitionStatus(sub.SubmissionID, TransitionInput{
		TargetStatus: models.OnboardingStatusApproved,
		ReviewerID:   &reviewer.UserID,
	})
	require.NotNil(t, appErr)
	assert.Equal(t, "INTERNAL_ERROR", appErr.Code)

	var reloaded models.OnboardingSubmission
	require.NoError(t, db.First(&reloaded, "submission_id = ?", sub.SubmissionID).Error)
	assert.Equal(t, models.OnboardingStatusPending, reloaded.Status)
	assert.Nil(t, reloaded.ReviewedBy)
	assert.Nil(t, reloaded.ReviewedAt)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "a@x.com").Count(&count).Error)
	assert.Zero(t, count)
}

func TestTransitionStatus_ProvisioningIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewOnboardingService(db)
	reviewer := seedUser(t, db, "HR", "hr@x.com", models.RoleHR)
	seedUser(t, db, "Existing", "a@x.com", models.RoleEmployee)
	sub := seedSubmission(t, db, "a@x.com", models.OnboardingStatusPending)

	result, appErr := svc.TransitionStatus(sub.SubmissionID, TransitionInput{
		TargetStatus: models.OnboardingStatusApproved,
		ReviewerID:   &reviewer.UserID,
	})
	require.Nil(t, appErr)

	assert.False(t, result.UserCreated)
	assert.Empty(t, result.TempPassword)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "a@x.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestTransitionStatus_ResubmissionClearsReview(t *testing.T) {
	db := newTestDB(t)
	svc := NewOnboardingService(db)
	reviewer := seedUser(t, db, "HR", "hr@x.com", models.RoleHR)
	sub := seedSubmission(t, db, "a@x.com", models.OnboardingStatusPending)

	_, appErr := svc.TransitionStatus(sub.SubmissionID, TransitionInput{
		TargetStatus: models.OnboardingStatusRejected,
		ReviewerID:   &reviewer.UserID,
	})
	require.Nil(t, appErr)

	result, appErr := svc.TransitionStatus(sub.SubmissionID, TransitionInput{
		TargetStatus: models.OnboardingStatusPending,
	})
	require.Nil(t, appErr)

	assert.Equal(t, models.OnboardingStatusPending, result.Submission.Status)
	assert.Nil(t, result.Submission.ReviewedBy)
	assert.Nil(t, result.Submission.ReviewedAt)
}

func TestDeleteSubmission_StatusGuard(t *testing.T) {
	db := newTestDB(t)
	svc := NewOnboardingService(db)
	reviewer := seedUser(t, db, "HR", "hr@x.com", models.RoleHR)

	pending := seedSubmission(t, db, "p@x.com", models.OnboardingStatusPending)
	require.Nil(t, svc.Delete(pending.SubmissionID))

	approved := seedSubmission(t, db, "a@x.com", models.OnboardingStatusPending)
	_, appErr := svc.TransitionStatus(approved.SubmissionID, TransitionInput{
		TargetStatus: models.OnboardingStatusApproved,
		ReviewerID:   &reviewer.UserID,
	})
	require.Nil(t, appErr)

	delErr := svc.Delete(approved.SubmissionID)
	require.NotNil(t, delErr)
	assert.Equal(t, "CANNOT_DELETE", delErr.Code)
}

func TestCreateSubmission_Validation(t *testing.T) {
	svc := NewOnboardingService(newTestDB(t))

	_, appErr := svc.Create(CreateSubmissionInput{FullName: " ", PersonalEmail: "a@x.com"})
	require.NotNil(t, appErr)
	assert.Equal(t, "FULL_NAME_REQUIRED", appErr.Code)

	_, appErr = svc.Create(CreateSubmissionInput{FullName: "A B", PersonalEmail: "not-an-email"})
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_EMAIL", appErr.Code)

	sub, appErr := svc.Create(CreateSubmissionInput{FullName: "A B", PersonalEmail: "a@x.com"})
	require.Nil(t, appErr)
	assert.Equal(t, models.OnboardingStatusPending, sub.Status)
}
