package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hr-platform-api/models"
	"hr-platform-api/utils"
)

// ReviewCycleService owns the cycle lifecycle: create, update, lock, reopen,
// delete. Lock and reopen are the only sanctioned paths between active and
// locked; the generic update rejects that move.
type ReviewCycleService struct {
	db *gorm.DB
}

func NewReviewCycleService(db *gorm.DB) *ReviewCycleService {
	return &ReviewCycleService{db: db}
}

// CreateCycleInput carries a new cycle definition.
type CreateCycleInput struct {
	Name      string
	CycleType string
	StartDate time.Time
	EndDate   time.Time
	CreatedBy int
}

func (s *ReviewCycleService) Create(in CreateCycleInput) (*models.ReviewCycle, *utils.AppError) {
	name := utils.SanitizeInput(in.Name)
	if name == "" {
		return nil, utils.NewValidationError("NAME_REQUIRED", "cycle name is required")
	}
	if !models.ValidCycleType(in.CycleType) {
		return nil, utils.NewValidationError("INVALID_CYCLE_TYPE", "cycle type must be '6-month' or '1-year'")
	}
	if appErr := utils.ValidateDateRange(in.StartDate, in.EndDate); appErr != nil {
		return nil, appErr
	}

	cycle := models.ReviewCycle{
		Name:      name,
		CycleType: in.CycleType,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Status:    models.CycleStatusDraft,
		CreatedBy: in.CreatedBy,
		CreateAt:  time.Now(),
	}
	if err := s.db.Create(&cycle).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	return &cycle, nil
}

// Lock moves a cycle to locked. Only draft and active cycles can be locked.
// Reviewers with still-pending forms in the cycle get a cycle_locked
// notification in the same transaction.
func (s *ReviewCycleService) Lock(cycleID int) (*models.ReviewCycle, *utils.AppError) {
	cycle, appErr := s.find(cycleID)
	if appErr != nil {
		return nil, appErr
	}

	if cycle.Status != models.CycleStatusActive && cycle.Status != models.CycleStatusDraft {
		return nil, utils.NewTransitionError("INVALID_STATUS_TRANSITION", cycle.Status,
			[]string{models.CycleStatusLocked})
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cycle.Status = models.CycleStatusLocked
		cycle.UpdateAt = &now
		if err := tx.Save(cycle).Error; err != nil {
			return err
		}

		var pendingForms []models.ReviewForm
		if err := tx.Where("cycle_id = ? AND status IN ?", cycle.CycleID,
			[]string{models.FormStatusPending, models.FormStatusDraft}).
			Find(&pendingForms).Error; err != nil {
			return err
		}

		for _, form := range pendingForms {
			formID := uint(form.FormID)
			n := models.ReviewNotification{
				UserID:           uint(form.ReviewerID),
				NotificationType: models.NotificationCycleLocked,
				Title:            "Review cycle locked",
				Message:          fmt.Sprintf("The review cycle '%s' has been locked. Outstanding forms can no longer be submitted.", cycle.Name),
				RelatedFormID:    &formID,
				CreateAt:         now,
			}
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	return cycle, nil
}

// Reopen moves a locked cycle back to active. A completed cycle must never be
// reopened; the guard stays even though no lifecycle operation currently
// produces the completed status.
func (s *ReviewCycleService) Reopen(cycleID int) (*models.ReviewCycle, *utils.AppError) {
	cycle, appErr := s.find(cycleID)
	if appErr != nil {
		return nil, appErr
	}

	if cycle.Status == models.CycleStatusCompleted {
		return nil, utils.NewTransitionError("INVALID_STATUS_TRANSITION", cycle.Status, nil)
	}
	if cycle.Status != models.CycleStatusLocked {
		return nil, utils.NewTransitionError("INVALID_STATUS_TRANSITION", cycle.Status,
			[]string{models.CycleStatusActive})
	}

	now := time.Now()
	cycle.Status = models.CycleStatusActive
	cycle.UpdateAt = &now
	if err := s.db.Save(cycle).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	return cycle, nil
}

// UpdateCycleInput is a partial patch; nil fields are left untouched.
type UpdateCycleInput struct {
	Name      *string
	CycleType *string
	StartDate *time.Time
	EndDate   *time.Time
	Status    *string
}

// Update patches cycle fields. The locked→active move is reserved for Reopen;
// the effective merged date range is re-validated.
func (s *ReviewCycleService) Update(cycleID int, in UpdateCycleInput) (*models.ReviewCycle, *utils.AppError) {
	cycle, appErr := s.find(cycleID)
	if appErr != nil {
		return nil, appErr
	}

	if in.Status != nil {
		if !models.ValidCycleStatus(*in.Status) {
			return nil, utils.NewValidationError("INVALID_STATUS", "unknown cycle status")
		}
		if cycle.Status == models.CycleStatusLocked && *in.Status == models.CycleStatusActive {
			return nil, utils.NewValidationError("USE_REOPEN",
				"a locked cycle cannot be activated through update; use the reopen operation")
		}
	}
	if in.CycleType != nil && !models.ValidCycleType(*in.CycleType) {
		return nil, utils.NewValidationError("INVALID_CYCLE_TYPE", "cycle type must be '6-month' or '1-year'")
	}

	start := cycle.StartDate
	end := cycle.EndDate
	if in.StartDate != nil {
		start = *in.StartDate
	}
	if in.EndDate != nil {
		end = *in.EndDate
	}
	if appErr := utils.ValidateDateRange(start, end); appErr != nil {
		return nil, appErr
	}

	now := time.Now()
	if in.Name != nil {
		name := utils.SanitizeInput(*in.Name)
		if name == "" {
			return nil, utils.NewValidationError("NAME_REQUIRED", "cycle name is required")
		}
		cycle.Name = name
	}
	if in.CycleType != nil {
		cycle.CycleType = *in.CycleType
	}
	cycle.StartDate = start
	cycle.EndDate = end
	if in.Status != nil {
		cycle.Status = *in.Status
	}
	cycle.UpdateAt = &now

	if err := s.db.Save(cycle).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	return cycle, nil
}

// Delete removes a cycle together with its forms and assignments, refusing if
// any owned form has already been submitted.
func (s *ReviewCycleService) Delete(cycleID int) *utils.AppError {
	cycle, appErr := s.find(cycleID)
	if appErr != nil {
		return appErr
	}

	var submitted int64
	if err := s.db.Model(&models.ReviewForm{}).
		Where("cycle_id = ? AND status = ?", cycle.CycleID, models.FormStatusSubmitted).
		Count(&submitted).Error; err != nil {
		return utils.NewInternalError(err)
	}
	if submitted > 0 {
		return utils.NewConflictError("CYCLE_HAS_SUBMISSIONS",
			fmt.Sprintf("cycle has %d submitted review form(s) and cannot be deleted", submitted))
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cycle_id = ?", cycle.CycleID).Delete(&models.ReviewForm{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cycle_id = ?", cycle.CycleID).Delete(&models.ReviewerAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(cycle).Error
	})
	if err != nil {
		return utils.NewInternalError(err)
	}
	return nil
}

func (s *ReviewCycleService) List() ([]models.ReviewCycle, *utils.AppError) {
	var cycles []models.ReviewCycle
	if err := s.db.Order("start_date DESC").Find(&cycles).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	return cycles, nil
}

// CycleDetail bundles a cycle with its assignment and form counts.
type CycleDetail struct {
	Cycle           models.ReviewCycle `json:"cycle"`
	AssignmentCount int64              `json:"assignment_count"`
	FormCount       int64              `json:"form_count"`
	SubmittedForms  int64              `json:"submitted_forms"`
}

func (s *ReviewCycleService) Get(cycleID int) (*CycleDetail, *utils.AppError) {
	cycle, appErr := s.find(cycleID)
	if appErr != nil {
		return nil, appErr
	}

	detail := &CycleDetail{Cycle: *cycle}
	if err := s.db.Model(&models.ReviewerAssignment{}).
		Where("cycle_id = ?", cycle.CycleID).Count(&detail.AssignmentCount).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	if err := s.db.Model(&models.ReviewForm{}).
		Where("cycle_id = ?", cycle.CycleID).Count(&detail.FormCount).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	if err := s.db.Model(&models.ReviewForm{}).
		Where("cycle_id = ? AND status = ?", cycle.CycleID, models.FormStatusSubmitted).
		Count(&detail.SubmittedForms).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	return detail, nil
}

func (s *ReviewCycleService) find(cycleID int) (*models.ReviewCycle, *utils.AppError) {
	var cycle models.ReviewCycle
	if err := s.db.First(&cycle, "cycle_id = ?", cycleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("CYCLE_NOT_FOUND", "review cycle not found")
		}
		return nil, utils.NewInternalError(err)
	}
	return &cycle, nil
}
