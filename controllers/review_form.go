package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hr-platform-api/services"
)

// ReviewFormController lets reviewers draft and submit their forms and lets
// hr/admin approve submitted ones.
type ReviewFormController struct {
	svc *services.ReviewFormService
}

func NewReviewFormController(svc *services.ReviewFormService) *ReviewFormController {
	return &ReviewFormController{svc: svc}
}

type formRequest struct {
	Rating          *int    `json:"rating"`
	Strengths       *string `json:"strengths"`
	Improvements    *string `json:"improvements"`
	OverallComments *string `json:"overall_comments"`
}

func (ctl *ReviewFormController) GetMyForms(c *gin.Context) {
	userID, _ := currentUserID(c)
	cycleID, _ := strconv.Atoi(c.Query("cycle_id"))

	forms, appErr := ctl.svc.ListForReviewer(userID, cycleID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "forms": forms})
}

func (ctl *ReviewFormController) SaveDraft(c *gin.Context) {
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	var req formRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	userID, _ := currentUserID(c)
	form, appErr := ctl.svc.SaveDraft(formID, userID, services.FormDraftInput{
		Rating:          req.Rating,
		Strengths:       req.Strengths,
		Improvements:    req.Improvements,
		OverallComments: req.OverallComments,
	})
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "form": form})
}

func (ctl *ReviewFormController) SubmitForm(c *gin.Context) {
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	var req formRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	userID, _ := currentUserID(c)
	form, appErr := ctl.svc.Submit(formID, userID, services.FormDraftInput{
		Rating:          req.Rating,
		Strengths:       req.Strengths,
		Improvements:    req.Improvements,
		OverallComments: req.OverallComments,
	})
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "form": form, "message": "Form submitted"})
}

func (ctl *ReviewFormController) ApproveForm(c *gin.Context) {
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	form, appErr := ctl.svc.Approve(formID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "form": form, "message": "Form approved"})
}

func formIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "INVALID_ID", "error": "form id must be an integer"})
		return 0, false
	}
	return id, true
}
