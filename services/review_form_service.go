package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hr-platform-api/models"
	"hr-platform-api/utils"
)

// ReviewFormService moves forms through pending → draft → submitted →
// approved. Forms are created by the bulk assignment fan-out; this service
// only ever mutates existing rows.
type ReviewFormService struct {
	db *gorm.DB
}

func NewReviewFormService(db *gorm.DB) *ReviewFormService {
	return &ReviewFormService{db: db}
}

// FormDraftInput holds the editable evaluation fields.
type FormDraftInput struct {
	Rating          *int
	Strengths       *string
	Improvements    *string
	OverallComments *string
}

// SaveDraft stores partial evaluation content. Only the assigned reviewer may
// write, only while the form is pending or draft, and only while the cycle is
// open.
func (s *ReviewFormService) SaveDraft(formID, reviewerID int, in FormDraftInput) (*models.ReviewForm, *utils.AppError) {
	form, appErr := s.findForReviewer(formID, reviewerID)
	if appErr != nil {
		return nil, appErr
	}

	if form.Status == models.FormStatusSubmitted || form.Status == models.FormStatusApproved {
		return nil, utils.NewConflictError("FORM_ALREADY_SUBMITTED", "a submitted form can no longer be edited")
	}
	if appErr := s.checkCycleOpen(form.CycleID); appErr != nil {
		return nil, appErr
	}

	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, utils.NewValidationError("INVALID_RATING", "rating must be an integer between 1 and 5")
	}

	now := time.Now()
	if in.Rating != nil {
		form.Rating = in.Rating
	}
	if in.Strengths != nil {
		form.Strengths = in.Strengths
	}
	if in.Improvements != nil {
		form.Improvements = in.Improvements
	}
	if in.OverallComments != nil {
		form.OverallComments = in.OverallComments
	}
	form.Status = models.FormStatusDraft
	form.UpdateAt = &now

	if err := s.db.Save(form).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	return form, nil
}

// Submit finalizes the form and notifies the reviewed employee. The status
// change and the notification are one atomic unit.
func (s *ReviewFormService) Submit(formID, reviewerID int, in FormDraftInput) (*models.ReviewForm, *utils.AppError) {
	form, appErr := s.findForReviewer(formID, reviewerID)
	if appErr != nil {
		return nil, appErr
	}

	if form.Status == models.FormStatusSubmitted || form.Status == models.FormStatusApproved {
		return nil, utils.NewConflictError("FORM_ALREADY_SUBMITTED", "this form has already been submitted")
	}
	if appErr := s.checkCycleOpen(form.CycleID); appErr != nil {
		return nil, appErr
	}

	if in.Rating != nil {
		form.Rating = in.Rating
	}
	if form.Rating == nil || *form.Rating < 1 || *form.Rating > 5 {
		return nil, utils.NewValidationError("INVALID_RATING", "a rating between 1 and 5 is required to submit")
	}
	if in.Strengths != nil {
		form.Strengths = in.Strengths
	}
	if in.Improvements != nil {
		form.Improvements = in.Improvements
	}
	if in.OverallComments != nil {
		form.OverallComments = in.OverallComments
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		form.Status = models.FormStatusSubmitted
		form.SubmittedAt = &now
		form.UpdateAt = &now
		if err := tx.Save(form).Error; err != nil {
			return err
		}

		formRef := uint(form.FormID)
		notification := models.ReviewNotification{
			UserID:           uint(form.EmployeeID),
			NotificationType: models.NotificationReviewSubmitted,
			Title:            "Review submitted",
			Message:          "A reviewer has submitted an evaluation for you.",
			RelatedFormID:    &formRef,
			CreateAt:         now,
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return form, nil
}

// Approve marks a submitted form as approved (hr/admin action).
func (s *ReviewFormService) Approve(formID int) (*models.ReviewForm, *utils.AppError) {
	var form models.ReviewForm
	if err := s.db.First(&form, "form_id = ?", formID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("FORM_NOT_FOUND", "review form not found")
		}
		return nil, utils.NewInternalError(err)
	}

	if form.Status != models.FormStatusSubmitted {
		return nil, utils.NewTransitionError("INVALID_FORM_STATUS", form.Status,
			[]string{models.FormStatusApproved})
	}

	now := time.Now()
	form.Status = models.FormStatusApproved
	form.UpdateAt = &now
	if err := s.db.Save(&form).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	return &form, nil
}

// ListForReviewer returns the reviewer's own forms, optionally per cycle.
func (s *ReviewFormService) ListForReviewer(reviewerID, cycleID int) ([]models.ReviewForm, *utils.AppError) {
	q := s.db.Where("reviewer_id = ?", reviewerID)
	if cycleID > 0 {
		q = q.Where("cycle_id = ?", cycleID)
	}

	var forms []models.ReviewForm
	if err := q.Order("form_id").Find(&forms).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	return forms, nil
}

func (s *ReviewFormService) findForReviewer(formID, reviewerID int) (*models.ReviewForm, *utils.AppError) {
	var form models.ReviewForm
	if err := s.db.First(&form, "form_id = ?", formID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("FORM_NOT_FOUND", "review form not found")
		}
		return nil, utils.NewInternalError(err)
	}
	if form.ReviewerID != reviewerID {
		return nil, utils.NewForbiddenError("only the assigned reviewer may edit this form")
	}
	return &form, nil
}

func (s *ReviewFormService) checkCycleOpen(cycleID int) *utils.AppError {
	var cycle models.ReviewCycle
	if err := s.db.First(&cycle, "cycle_id = ?", cycleID).Error; err != nil {
		return utils.NewInternalError(err)
	}
	if cycle.Status == models.CycleStatusLocked || cycle.Status == models.CycleStatusCompleted {
		return utils.NewConflictError("CYCLE_LOCKED",
			fmt.Sprintf("cycle is %s; forms can no longer be edited", cycle.Status))
	}
	return nil
}
