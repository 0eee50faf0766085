package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hr-platform-api/models"
	"hr-platform-api/utils"
)

// OnboardingService runs the submission status state machine and provisions
// user accounts on approval.
type OnboardingService struct {
	db *gorm.DB
}

func NewOnboardingService(db *gorm.DB) *OnboardingService {
	return &OnboardingService{db: db}
}

// TransitionInput carries one status-transition request.
type TransitionInput struct {
	TargetStatus string
	ReviewerID   *int
	Comment      *string
}

// TransitionResult reports the updated submission plus, exactly once, the
// credentials of an account provisioned by an approval.
type TransitionResult struct {
	Submission   models.OnboardingSubmission
	UserCreated  bool
	TempPassword string
}

// TransitionStatus applies one move of the onboarding state machine. The
// status update and any user provisioning commit or roll back together.
func (s *OnboardingService) TransitionStatus(submissionID int, in TransitionInput) (*TransitionResult, *utils.AppError) {
	var sub models.OnboardingSubmission
	if err := s.db.First(&sub, "submission_id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("NOT_FOUND", "onboarding submission not found")
		}
		return nil, utils.NewInternalError(err)
	}

	if sub.Status == models.OnboardingStatusApproved {
		return nil, utils.NewConflictError("APPROVED_IMMUTABLE", "an approved submission cannot be modified")
	}

	target := in.TargetStatus
	if !models.ValidOnboardingStatus(target) || !models.CanTransitionOnboarding(sub.Status, target) {
		return nil, utils.NewTransitionError("INVALID_TRANSITION", sub.Status, models.AllowedOnboardingTargets(sub.Status))
	}

	decision := target == models.OnboardingStatusApproved || target == models.OnboardingStatusRejected
	var reviewer models.User
	if decision {
		if in.ReviewerID == nil {
			return nil, utils.NewValidationError("REVIEWER_REQUIRED", "reviewerId is required for approve/reject")
		}
		if err := s.db.First(&reviewer, "user_id = ? AND delete_at IS NULL", *in.ReviewerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NewNotFoundError("REVIEWER_NOT_FOUND", "reviewer user not found")
			}
			return nil, utils.NewInternalError(err)
		}
	}

	result := &TransitionResult{}
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		sub.Status = target
		sub.UpdateAt = &now
		if decision {
			sub.ReviewedBy = in.ReviewerID
			sub.ReviewedAt = &now
		} else {
			sub.ReviewedBy = nil
			sub.ReviewedAt = nil
		}
		if in.Comment != nil {
			sub.ReviewComment = in.Comment
		}

		if err := tx.Save(&sub).Error; err != nil {
			return err
		}

		if target == models.OnboardingStatusApproved {
			userID, created, tempPassword, err := provisionUser(tx, sub, now)
			if err != nil {
				return err
			}
			result.UserCreated = created
			result.TempPassword = tempPassword

			welcome := models.ReviewNotification{
				UserID:           uint(userID),
				NotificationType: models.NotificationOnboardingApproved,
				Title:            "Onboarding approved",
				Message:          fmt.Sprintf("Welcome %s, your onboarding has been approved.", sub.FullName),
				CreateAt:         now,
			}
			if err := tx.Create(&welcome).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	result.Submission = sub

	if result.UserCreated {
		sendMailSafe([]string{sub.PersonalEmail},
			"Your account is ready",
			buildFormalEmailHTML("Your account is ready", sub.FullName,
				fmt.Sprintf("Welcome aboard. Your account has been created with the temporary password %s. Please sign in and change it immediately.", result.TempPassword)))
	}

	return result, nil
}

// provisionUser creates the employee account for an approved submission and
// returns its user id. The check-then-insert is not atomic on its own; the
// email unique index is the real guard, and a duplicate-key failure from a
// concurrent approval is treated as "already provisioned", not an error.
func provisionUser(tx *gorm.DB, sub models.OnboardingSubmission, now time.Time) (int, bool, string, error) {
	var existing models.User
	err := tx.Where("email = ?", sub.PersonalEmail).First(&existing).Error
	if err == nil {
		return existing.UserID, false, "", nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, "", err
	}

	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		return 0, false, "", err
	}
	hashed, err := utils.HashPassword(tempPassword)
	if err != nil {
		return 0, false, "", err
	}

	user := models.User{
		FullName: sub.FullName,
		Email:    sub.PersonalEmail,
		Password: hashed,
		Role:     models.RoleEmployee,
		Status:   models.UserStatusActive,
		CreateAt: now,
	}
	if err := tx.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent approval.
			if err := tx.Where("email = ?", sub.PersonalEmail).First(&existing).Error; err != nil {
				return 0, false, "", err
			}
			return existing.UserID, false, "", nil
		}
		return 0, false, "", err
	}

	return user.UserID, true, tempPassword, nil
}

// CreateSubmissionInput is the public intake payload.
type CreateSubmissionInput struct {
	FullName      string
	PersonalEmail string
	FormFields    *string
}

func (s *OnboardingService) Create(in CreateSubmissionInput) (*models.OnboardingSubmission, *utils.AppError) {
	fullName := utils.SanitizeInput(in.FullName)
	email := utils.SanitizeInput(in.PersonalEmail)
	if fullName == "" {
		return nil, utils.NewValidationError("FULL_NAME_REQUIRED", "full name is required")
	}
	if !utils.ValidateEmail(email) {
		return nil, utils.NewValidationError("INVALID_EMAIL", "personal email is not a valid address")
	}

	sub := models.OnboardingSubmission{
		FullName:      fullName,
		PersonalEmail: email,
		FormFields:    in.FormFields,
		Status:        models.OnboardingStatusPending,
		CreateAt:      time.Now(),
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	return &sub, nil
}

func (s *OnboardingService) List(status string) ([]models.OnboardingSubmission, *utils.AppError) {
	q := s.db.Model(&models.OnboardingSubmission{})
	if status != "" {
		if !models.ValidOnboardingStatus(status) {
			return nil, utils.NewValidationError("INVALID_STATUS", "unknown onboarding status filter")
		}
		q = q.Where("status = ?", status)
	}

	var subs []models.OnboardingSubmission
	if err := q.Order("create_at DESC").Find(&subs).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	return subs, nil
}

func (s *OnboardingService) Get(submissionID int) (*models.OnboardingSubmission, *utils.AppError) {
	var sub models.OnboardingSubmission
	if err := s.db.Preload("Reviewer").First(&sub, "submission_id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("NOT_FOUND", "onboarding submission not found")
		}
		return nil, utils.NewInternalError(err)
	}
	return &sub, nil
}

// Delete hard-deletes a submission, allowed only while it is still pending or
// rejected.
func (s *OnboardingService) Delete(submissionID int) *utils.AppError {
	var sub models.OnboardingSubmission
	if err := s.db.First(&sub, "submission_id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewNotFoundError("NOT_FOUND", "onboarding submission not found")
		}
		return utils.NewInternalError(err)
	}

	if sub.Status != models.OnboardingStatusPending && sub.Status != models.OnboardingStatusRejected {
		return utils.NewConflictError("CANNOT_DELETE",
			fmt.Sprintf("submissions with status '%s' cannot be deleted", sub.Status))
	}

	if err := s.db.Delete(&sub).Error; err != nil {
		return utils.NewInternalError(err)
	}
	return nil
}
