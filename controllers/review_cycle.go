package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hr-platform-api/services"
)

// ReviewCycleController exposes the cycle lifecycle.
type ReviewCycleController struct {
	svc *services.ReviewCycleService
}

func NewReviewCycleController(svc *services.ReviewCycleService) *ReviewCycleController {
	return &ReviewCycleController{svc: svc}
}

type createCycleRequest struct {
	Name      string    `json:"name" binding:"required"`
	CycleType string    `json:"cycle_type" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

func (ctl *ReviewCycleController) CreateCycle(c *gin.Context) {
	var req createCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	userID, _ := currentUserID(c)
	cycle, appErr := ctl.svc.Create(services.CreateCycleInput{
		Name:      req.Name,
		CycleType: req.CycleType,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		CreatedBy: userID,
	})
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "cycle": cycle})
}

func (ctl *ReviewCycleController) GetCycles(c *gin.Context) {
	cycles, appErr := ctl.svc.List()
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "cycles": cycles})
}

func (ctl *ReviewCycleController) GetCycle(c *gin.Context) {
	id, ok := cycleIDParam(c)
	if !ok {
		return
	}

	detail, appErr := ctl.svc.Get(id)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"cycle":            detail.Cycle,
		"assignment_count": detail.AssignmentCount,
		"form_count":       detail.FormCount,
		"submitted_forms":  detail.SubmittedForms,
	})
}

type updateCycleRequest struct {
	Name      *string    `json:"name"`
	CycleType *string    `json:"cycle_type"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Status    *string    `json:"status"`
}

func (ctl *ReviewCycleController) UpdateCycle(c *gin.Context) {
	id, ok := cycleIDParam(c)
	if !ok {
		return
	}

	var req updateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	cycle, appErr := ctl.svc.Update(id, services.UpdateCycleInput{
		Name:      req.Name,
		CycleType: req.CycleType,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    req.Status,
	})
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "cycle": cycle})
}

func (ctl *ReviewCycleController) LockCycle(c *gin.Context) {
	id, ok := cycleIDParam(c)
	if !ok {
		return
	}

	cycle, appErr := ctl.svc.Lock(id)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "cycle": cycle, "message": "Cycle locked"})
}

func (ctl *ReviewCycleController) ReopenCycle(c *gin.Context) {
	id, ok := cycleIDParam(c)
	if !ok {
		return
	}

	cycle, appErr := ctl.svc.Reopen(id)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "cycle": cycle, "message": "Cycle reopened"})
}

func (ctl *ReviewCycleController) DeleteCycle(c *gin.Context) {
	id, ok := cycleIDParam(c)
	if !ok {
		return
	}

	if appErr := ctl.svc.Delete(id); appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cycle deleted"})
}

func cycleIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "INVALID_ID", "error": "cycle id must be an integer"})
		return 0, false
	}
	return id, true
}
