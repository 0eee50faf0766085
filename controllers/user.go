package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hr-platform-api/models"
	"hr-platform-api/utils"
)

// UserController is the admin-facing account CRUD. Provisioning from
// onboarding approvals happens in the onboarding service, not here.
type UserController struct {
	db *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

type createUserRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

func (ctl *UserController) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	if !models.ValidRole(req.Role) {
		respondError(c, utils.NewValidationError("INVALID_ROLE", "role must be one of admin, hr, manager, employee, intern"))
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, utils.NewInternalError(err))
		return
	}

	user := models.User{
		FullName: utils.SanitizeInput(req.FullName),
		Email:    utils.SanitizeInput(req.Email),
		Password: hashed,
		Role:     req.Role,
		Status:   models.UserStatusActive,
		CreateAt: time.Now(),
	}
	if err := ctl.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, utils.NewConflictError("DUPLICATE_EMAIL", "a user with this email already exists"))
			return
		}
		respondError(c, utils.NewInternalError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

func (ctl *UserController) GetUsers(c *gin.Context) {
	q := ctl.db.Model(&models.User{}).Where("delete_at IS NULL")
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var users []models.User
	if err := q.Order("user_id").Find(&users).Error; err != nil {
		respondError(c, utils.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

func (ctl *UserController) GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, utils.NewValidationError("INVALID_ID", "user id must be an integer"))
		return
	}

	var user models.User
	if err := ctl.db.Where("user_id = ? AND delete_at IS NULL", id).First(&user).Error; err != nil {
		respondError(c, utils.NewNotFoundError("NOT_FOUND", "user not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

type updateUserRequest struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
}

func (ctl *UserController) UpdateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, utils.NewValidationError("INVALID_ID", "user id must be an integer"))
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	var user models.User
	if err := ctl.db.Where("user_id = ? AND delete_at IS NULL", id).First(&user).Error; err != nil {
		respondError(c, utils.NewNotFoundError("NOT_FOUND", "user not found"))
		return
	}

	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			respondError(c, utils.NewValidationError("INVALID_ROLE", "unknown role"))
			return
		}
		user.Role = *req.Role
	}
	if req.Status != nil {
		if *req.Status != models.UserStatusActive && *req.Status != models.UserStatusInactive {
			respondError(c, utils.NewValidationError("INVALID_STATUS", "status must be active or inactive"))
			return
		}
		user.Status = *req.Status
	}
	if req.FullName != nil {
		name := utils.SanitizeInput(*req.FullName)
		if name == "" {
			respondError(c, utils.NewValidationError("FULL_NAME_REQUIRED", "full name is required"))
			return
		}
		user.FullName = name
	}

	now := time.Now()
	user.UpdateAt = &now
	if err := ctl.db.Save(&user).Error; err != nil {
		respondError(c, utils.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// DeactivateUser soft-deletes an account. Rows are kept for audit references
// from submissions, assignments, and appraisals.
func (ctl *UserController) DeactivateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, utils.NewValidationError("INVALID_ID", "user id must be an integer"))
		return
	}

	now := time.Now()
	res := ctl.db.Model(&models.User{}).
		Where("user_id = ? AND delete_at IS NULL", id).
		Updates(map[string]interface{}{
			"status":    models.UserStatusInactive,
			"delete_at": now,
			"update_at": now,
		})
	if res.Error != nil {
		respondError(c, utils.NewInternalError(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, utils.NewNotFoundError("NOT_FOUND", "user not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deactivated"})
}
