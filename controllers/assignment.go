package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hr-platform-api/services"
)

// AssignmentController exposes the bulk reviewer-assignment operation.
type AssignmentController struct {
	svc *services.AssignmentService
}

func NewAssignmentController(svc *services.AssignmentService) *AssignmentController {
	return &AssignmentController{svc: svc}
}

type bulkAssignRequest struct {
	Assignments []services.AssignmentEntry `json:"assignments" binding:"required"`
}

// BulkAssign creates the batch of assignments with their forms and reviewer
// notifications in one unit.
func (ctl *AssignmentController) BulkAssign(c *gin.Context) {
	cycleID, ok := cycleIDParam(c)
	if !ok {
		return
	}

	var req bulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	result, appErr := ctl.svc.BulkAssign(cycleID, req.Assignments)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"assignments":   result.Assignments,
		"forms_created": result.FormsCreated,
		"message":       result.Message,
	})
}

func (ctl *AssignmentController) GetAssignments(c *gin.Context) {
	cycleID, ok := cycleIDParam(c)
	if !ok {
		return
	}

	assignments, appErr := ctl.svc.ListByCycle(cycleID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assignments": assignments})
}
