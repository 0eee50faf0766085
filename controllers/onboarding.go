package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hr-platform-api/services"
)

// OnboardingController exposes the submission intake and the status state
// machine.
type OnboardingController struct {
	svc *services.OnboardingService
}

func NewOnboardingController(svc *services.OnboardingService) *OnboardingController {
	return &OnboardingController{svc: svc}
}

type createSubmissionRequest struct {
	FullName      string  `json:"full_name" binding:"required"`
	PersonalEmail string  `json:"personal_email" binding:"required"`
	FormFields    *string `json:"form_fields"`
}

// CreateSubmission is the public intake endpoint.
func (ctl *OnboardingController) CreateSubmission(c *gin.Context) {
	var req createSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	sub, appErr := ctl.svc.Create(services.CreateSubmissionInput{
		FullName:      req.FullName,
		PersonalEmail: req.PersonalEmail,
		FormFields:    req.FormFields,
	})
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "submission": sub})
}

func (ctl *OnboardingController) GetSubmissions(c *gin.Context) {
	subs, appErr := ctl.svc.List(c.Query("status"))
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submissions": subs})
}

func (ctl *OnboardingController) GetSubmission(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "INVALID_ID", "error": "submission id must be an integer"})
		return
	}

	sub, appErr := ctl.svc.Get(id)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submission": sub})
}

type transitionRequest struct {
	Status     string  `json:"status" binding:"required"`
	ReviewerID *int    `json:"reviewer_id"`
	Comment    *string `json:"comment"`
}

// UpdateStatus drives the submission state machine. On approval the response
// carries user_created and, when an account was provisioned, the temporary
// password — reported exactly once.
func (ctl *OnboardingController) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "INVALID_ID", "error": "submission id must be an integer"})
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	result, appErr := ctl.svc.TransitionStatus(id, services.TransitionInput{
		TargetStatus: req.Status,
		ReviewerID:   req.ReviewerID,
		Comment:      req.Comment,
	})
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	resp := gin.H{
		"success":      true,
		"submission":   result.Submission,
		"user_created": result.UserCreated,
	}
	if result.UserCreated {
		resp["temp_password"] = result.TempPassword
	}
	c.JSON(http.StatusOK, resp)
}

func (ctl *OnboardingController) DeleteSubmission(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "INVALID_ID", "error": "submission id must be an integer"})
		return
	}

	if appErr := ctl.svc.Delete(id); appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Submission deleted"})
}
