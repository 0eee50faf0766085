package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hr-platform-api/services"
	"hr-platform-api/utils"
)

// AppraisalController exposes the compensation records.
type AppraisalController struct {
	svc *services.AppraisalService
}

func NewAppraisalController(svc *services.AppraisalService) *AppraisalController {
	return &AppraisalController{svc: svc}
}

type createAppraisalRequest struct {
	EmployeeID     int      `json:"employee_id"`
	CycleID        int      `json:"cycle_id"`
	ReviewYear     int      `json:"review_year"`
	PastCtc        int64    `json:"past_ctc"`
	CurrentCtc     int64    `json:"current_ctc"`
	HikePercentage *float64 `json:"hike_percentage"`
	Remarks        *string  `json:"remarks"`
	// updated_by is server-stamped; a client supplying it is a hard error.
	UpdatedBy *int `json:"updated_by"`
}

func (ctl *AppraisalController) CreateAppraisal(c *gin.Context) {
	var req createAppraisalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	if req.UpdatedBy != nil {
		respondError(c, utils.NewValidationError("UPDATED_BY_FORBIDDEN",
			"updated_by is stamped by the server and must not be supplied"))
		return
	}

	userID, _ := currentUserID(c)
	appraisal, appErr := ctl.svc.Create(services.CreateAppraisalInput{
		EmployeeID:     req.EmployeeID,
		CycleID:        req.CycleID,
		ReviewYear:     req.ReviewYear,
		PastCtc:        req.PastCtc,
		CurrentCtc:     req.CurrentCtc,
		HikePercentage: req.HikePercentage,
		Remarks:        req.Remarks,
		ActingUserID:   userID,
	})
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "appraisal": appraisal})
}

type updateAppraisalRequest struct {
	// employee_id is immutable after creation; its presence is rejected.
	EmployeeID     *int     `json:"employee_id"`
	CycleID        *int     `json:"cycle_id"`
	ReviewYear     *int     `json:"review_year"`
	PastCtc        *int64   `json:"past_ctc"`
	CurrentCtc     *int64   `json:"current_ctc"`
	HikePercentage *float64 `json:"hike_percentage"`
	Remarks        *string  `json:"remarks"`
	UpdatedBy      *int     `json:"updated_by"`
}

func (ctl *AppraisalController) UpdateAppraisal(c *gin.Context) {
	id, ok := appraisalIDParam(c)
	if !ok {
		return
	}

	var req updateAppraisalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	if req.UpdatedBy != nil {
		respondError(c, utils.NewValidationError("UPDATED_BY_FORBIDDEN",
			"updated_by is stamped by the server and must not be supplied"))
		return
	}
	if req.EmployeeID != nil {
		respondError(c, utils.NewValidationError("EMPLOYEE_IMMUTABLE",
			"employee_id cannot be changed after creation"))
		return
	}

	userID, _ := currentUserID(c)
	appraisal, appErr := ctl.svc.Update(id, services.UpdateAppraisalInput{
		CycleID:        req.CycleID,
		ReviewYear:     req.ReviewYear,
		PastCtc:        req.PastCtc,
		CurrentCtc:     req.CurrentCtc,
		HikePercentage: req.HikePercentage,
		Remarks:        req.Remarks,
		ActingUserID:   userID,
	})
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "appraisal": appraisal})
}

func (ctl *AppraisalController) GetAppraisals(c *gin.Context) {
	cycleID, _ := strconv.Atoi(c.Query("cycle_id"))
	employeeID, _ := strconv.Atoi(c.Query("employee_id"))

	appraisals, appErr := ctl.svc.List(cycleID, employeeID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "appraisals": appraisals})
}

func (ctl *AppraisalController) GetAppraisal(c *gin.Context) {
	id, ok := appraisalIDParam(c)
	if !ok {
		return
	}

	appraisal, appErr := ctl.svc.Get(id)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "appraisal": appraisal})
}

func (ctl *AppraisalController) DeleteAppraisal(c *gin.Context) {
	id, ok := appraisalIDParam(c)
	if !ok {
		return
	}

	if appErr := ctl.svc.Delete(id); appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Appraisal deleted"})
}

func appraisalIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "INVALID_ID", "error": "appraisal id must be an integer"})
		return 0, false
	}
	return id, true
}
