package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"hr-platform-api/models"
	"hr-platform-api/utils"
)

// AppraisalService maintains the per-employee, per-cycle compensation
// records. updated_by is always stamped from the acting user; callers may
// never supply it.
type AppraisalService struct {
	db *gorm.DB
}

func NewAppraisalService(db *gorm.DB) *AppraisalService {
	return &AppraisalService{db: db}
}

// CreateAppraisalInput carries a new appraisal. HikePercentage nil means
// "derive it from the CTC figures".
type CreateAppraisalInput struct {
	EmployeeID     int
	CycleID        int
	ReviewYear     int
	PastCtc        int64
	CurrentCtc     int64
	HikePercentage *float64
	Remarks        *string
	ActingUserID   int
}

func (s *AppraisalService) Create(in CreateAppraisalInput) (*models.Appraisal, *utils.AppError) {
	if in.EmployeeID <= 0 {
		return nil, utils.NewValidationError("EMPLOYEE_REQUIRED", "employee_id is required")
	}
	if in.CycleID <= 0 {
		return nil, utils.NewValidationError("CYCLE_REQUIRED", "cycle_id is required")
	}
	if appErr := utils.ValidateReviewYear(in.ReviewYear); appErr != nil {
		return nil, appErr
	}
	// past_ctc may legitimately be 0 for a first appraisal; only negatives
	// are rejected.
	if in.PastCtc < 0 {
		return nil, utils.NewValidationError("INVALID_CTC", "past_ctc must not be negative")
	}
	if appErr := utils.ValidateCtc("current_ctc", in.CurrentCtc); appErr != nil {
		return nil, appErr
	}

	if appErr := s.checkUserExists(in.EmployeeID); appErr != nil {
		return nil, appErr
	}
	if appErr := s.checkCycleExists(in.CycleID); appErr != nil {
		return nil, appErr
	}

	var count int64
	if err := s.db.Model(&models.Appraisal{}).
		Where("employee_id = ? AND cycle_id = ?", in.EmployeeID, in.CycleID).
		Count(&count).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	if count > 0 {
		return nil, utils.NewConflictError("DUPLICATE_APPRAISAL",
			"an appraisal already exists for this employee and cycle")
	}

	hike := models.ComputeHikePercentage(in.PastCtc, in.CurrentCtc)
	if in.HikePercentage != nil {
		hike = *in.HikePercentage
	}

	appraisal := models.Appraisal{
		EmployeeID:     in.EmployeeID,
		CycleID:        in.CycleID,
		ReviewYear:     in.ReviewYear,
		PastCtc:        in.PastCtc,
		CurrentCtc:     in.CurrentCtc,
		HikePercentage: hike,
		Remarks:        in.Remarks,
		UpdatedBy:      in.ActingUserID,
		CreateAt:       time.Now(),
	}
	if err := s.db.Create(&appraisal).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.NewConflictError("DUPLICATE_APPRAISAL",
				"an appraisal already exists for this employee and cycle")
		}
		return nil, utils.NewInternalError(err)
	}
	return &appraisal, nil
}

// UpdateAppraisalInput is a partial patch. EmployeeID is intentionally absent:
// it is immutable after creation and its presence in a request body is a
// controller-level validation error.
type UpdateAppraisalInput struct {
	CycleID        *int
	ReviewYear     *int
	PastCtc        *int64
	CurrentCtc     *int64
	HikePercentage *float64
	Remarks        *string
	ActingUserID   int
}

func (s *AppraisalService) Update(appraisalID int, in UpdateAppraisalInput) (*models.Appraisal, *utils.AppError) {
	var appraisal models.Appraisal
	if err := s.db.First(&appraisal, "appraisal_id = ?", appraisalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("APPRAISAL_NOT_FOUND", "appraisal not found")
		}
		return nil, utils.NewInternalError(err)
	}

	if in.CycleID != nil && *in.CycleID != appraisal.CycleID {
		if appErr := s.checkCycleExists(*in.CycleID); appErr != nil {
			return nil, appErr
		}
		var count int64
		if err := s.db.Model(&models.Appraisal{}).
			Where("employee_id = ? AND cycle_id = ? AND appraisal_id <> ?",
				appraisal.EmployeeID, *in.CycleID, appraisal.AppraisalID).
			Count(&count).Error; err != nil {
			return nil, utils.NewInternalError(err)
		}
		if count > 0 {
			return nil, utils.NewConflictError("DUPLICATE_APPRAISAL",
				"an appraisal already exists for this employee and the target cycle")
		}
		appraisal.CycleID = *in.CycleID
	}

	if in.ReviewYear != nil {
		if appErr := utils.ValidateReviewYear(*in.ReviewYear); appErr != nil {
			return nil, appErr
		}
		appraisal.ReviewYear = *in.ReviewYear
	}

	ctcChanged := false
	if in.PastCtc != nil {
		if *in.PastCtc < 0 {
			return nil, utils.NewValidationError("INVALID_CTC", "past_ctc must not be negative")
		}
		if *in.PastCtc != appraisal.PastCtc {
			ctcChanged = true
		}
		appraisal.PastCtc = *in.PastCtc
	}
	if in.CurrentCtc != nil {
		if appErr := utils.ValidateCtc("current_ctc", *in.CurrentCtc); appErr != nil {
			return nil, appErr
		}
		if *in.CurrentCtc != appraisal.CurrentCtc {
			ctcChanged = true
		}
		appraisal.CurrentCtc = *in.CurrentCtc
	}

	// Recompute the hike only when the caller did not supply one AND a CTC
	// figure actually changed; otherwise the stored value is preserved.
	if in.HikePercentage != nil {
		appraisal.HikePercentage = *in.HikePercentage
	} else if ctcChanged {
		appraisal.HikePercentage = models.ComputeHikePercentage(appraisal.PastCtc, appraisal.CurrentCtc)
	}

	if in.Remarks != nil {
		appraisal.Remarks = in.Remarks
	}

	now := time.Now()
	appraisal.UpdatedBy = in.ActingUserID
	appraisal.UpdateAt = &now

	if err := s.db.Save(&appraisal).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.NewConflictError("DUPLICATE_APPRAISAL",
				"an appraisal already exists for this employee and the target cycle")
		}
		return nil, utils.NewInternalError(err)
	}
	return &appraisal, nil
}

func (s *AppraisalService) List(cycleID, employeeID int) ([]models.Appraisal, *utils.AppError) {
	q := s.db.Model(&models.Appraisal{}).Preload("Employee").Preload("Cycle")
	if cycleID > 0 {
		q = q.Where("cycle_id = ?", cycleID)
	}
	if employeeID > 0 {
		q = q.Where("employee_id = ?", employeeID)
	}

	var appraisals []models.Appraisal
	if err := q.Order("appraisal_id").Find(&appraisals).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	return appraisals, nil
}

func (s *AppraisalService) Get(appraisalID int) (*models.Appraisal, *utils.AppError) {
	var appraisal models.Appraisal
	if err := s.db.Preload("Employee").Preload("Cycle").
		First(&appraisal, "appraisal_id = ?", appraisalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("APPRAISAL_NOT_FOUND", "appraisal not found")
		}
		return nil, utils.NewInternalError(err)
	}
	return &appraisal, nil
}

func (s *AppraisalService) Delete(appraisalID int) *utils.AppError {
	res := s.db.Delete(&models.Appraisal{}, "appraisal_id = ?", appraisalID)
	if res.Error != nil {
		return utils.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NewNotFoundError("APPRAISAL_NOT_FOUND", "appraisal not found")
	}
	return nil
}

func (s *AppraisalService) checkUserExists(userID int) *utils.AppError {
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("user_id = ? AND delete_at IS NULL", userID).
		Count(&count).Error; err != nil {
		return utils.NewInternalError(err)
	}
	if count == 0 {
		return utils.NewNotFoundError("EMPLOYEE_NOT_FOUND", "employee not found")
	}
	return nil
}

func (s *AppraisalService) checkCycleExists(cycleID int) *utils.AppError {
	var count int64
	if err := s.db.Model(&models.ReviewCycle{}).
		Where("cycle_id = ?", cycleID).
		Count(&count).Error; err != nil {
		return utils.NewInternalError(err)
	}
	if count == 0 {
		return utils.NewNotFoundError("CYCLE_NOT_FOUND", "review cycle not found")
	}
	return nil
}
