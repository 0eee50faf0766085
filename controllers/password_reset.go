package controllers

import (
	"fmt"
	"hr-platform-api/config"
	"hr-platform-api/models"
	"hr-platform-api/utils"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	passwordResetTokenGenerator = func() (string, error) {
		return uuid.NewString(), nil
	}

	sendMailFunc = config.SendMail
)

type passwordResetRepository interface {
	FindUserByEmail(email string) (*models.User, error)
	RevokePasswordResetTokens(userID int, now time.Time) error
	CreateUserToken(token *models.UserToken) error
	FindActivePasswordResetTokens(now time.Time) ([]models.UserToken, error)
	UpdateUserPassword(userID int, hashedPassword string, now time.Time) error
	RevokeToken(tokenID int, now time.Time) error
}

type gormPasswordResetRepository struct {
	db *gorm.DB
}

func (r *gormPasswordResetRepository) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ? AND delete_at IS NULL", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormPasswordResetRepository) RevokePasswordResetTokens(userID int, now time.Time) error {
	if userID == 0 {
		return nil
	}

	return r.db.Model(&models.UserToken{}).
		Where("user_id = ? AND token_type = ? AND is_revoked = ?", userID, "password_reset", false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

func (r *gormPasswordResetRepository) CreateUserToken(token *models.UserToken) error {
	return r.db.Create(token).Error
}

func (r *gormPasswordResetRepository) FindActivePasswordResetTokens(now time.Time) ([]models.UserToken, error) {
	var tokens []models.UserToken
	err := r.db.Where("token_type = ? AND is_revoked = ? AND expires_at > ?", "password_reset", false, now).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, err
}

func (r *gormPasswordResetRepository) UpdateUserPassword(userID int, hashedPassword string, now time.Time) error {
	return r.db.Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"password":  hashedPassword,
			"update_at": now,
		}).Error
}

func (r *gormPasswordResetRepository) RevokeToken(tokenID int, now time.Time) error {
	return r.db.Model(&models.UserToken{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// PasswordResetController issues and redeems reset tokens.
type PasswordResetController struct {
	repo passwordResetRepository
}

func NewPasswordResetController(db *gorm.DB) *PasswordResetController {
	return &PasswordResetController{repo: &gormPasswordResetRepository{db: db}}
}

// ForgotPassword handles password reset token generation and email dispatch.
// The response shape is identical whether or not the email exists.
func (ctl *PasswordResetController) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"code":    "VALIDATION_ERROR",
			"error":   "Invalid request payload",
		})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"code":    "INVALID_EMAIL",
			"error":   "Invalid email format",
		})
		return
	}

	user, err := ctl.repo.FindUserByEmail(req.Email)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"code":    "INTERNAL_ERROR",
				"error":   "Failed to process request",
			})
			return
		}

		// Always return success for non-existing users to avoid email enumeration.
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "If the email exists, a reset link has been sent.",
		})
		return
	}

	rawToken, err := passwordResetTokenGenerator()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": "INTERNAL_ERROR", "error": "Failed to create reset token"})
		return
	}

	hashedToken, err := utils.HashPassword(rawToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": "INTERNAL_ERROR", "error": "Failed to secure reset token"})
		return
	}

	now := time.Now()
	expiresAt := now.Add(10 * time.Minute)

	if err := ctl.repo.RevokePasswordResetTokens(user.UserID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": "INTERNAL_ERROR", "error": "Failed to prepare reset token"})
		return
	}

	token := models.UserToken{
		UserID:    user.UserID,
		TokenType: "password_reset",
		Token:     hashedToken,
		ExpiresAt: expiresAt,
		IsRevoked: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ctl.repo.CreateUserToken(&token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": "INTERNAL_ERROR", "error": "Failed to store reset token"})
		return
	}

	if err := sendPasswordResetEmail(*user, rawToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": "INTERNAL_ERROR", "error": "Failed to send reset email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If the email exists, a reset link has been sent.",
	})
}

// ResetPassword handles password reset using a previously generated token.
func (ctl *PasswordResetController) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"code":    "VALIDATION_ERROR",
			"error":   "Invalid request payload",
		})
		return
	}

	req.Token = utils.SanitizeInput(req.Token)
	req.NewPassword = utils.SanitizeInput(req.NewPassword)
	req.ConfirmPassword = utils.SanitizeInput(req.ConfirmPassword)

	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "TOKEN_REQUIRED", "error": "Token is required"})
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "PASSWORD_MISMATCH", "error": "Passwords do not match"})
		return
	}

	if valid, message := utils.ValidatePassword(req.NewPassword); !valid {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "WEAK_PASSWORD", "error": message})
		return
	}

	now := time.Now()
	tokenRecord, err := findActivePasswordResetToken(ctl.repo, req.Token, now)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "INVALID_TOKEN", "error": "Invalid or expired token"})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": "INTERNAL_ERROR", "error": "Failed to verify token"})
		return
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": "INTERNAL_ERROR", "error": "Failed to hash password"})
		return
	}

	if err := ctl.repo.UpdateUserPassword(tokenRecord.UserID, hashedPassword, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": "INTERNAL_ERROR", "error": "Failed to update password"})
		return
	}

	if err := ctl.repo.RevokeToken(tokenRecord.TokenID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": "INTERNAL_ERROR", "error": "Failed to revoke token"})
		return
	}

	if err := ctl.repo.RevokePasswordResetTokens(tokenRecord.UserID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": "INTERNAL_ERROR", "error": "Failed to finalize reset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated successfully",
	})
}

func findActivePasswordResetToken(repo passwordResetRepository, rawToken string, now time.Time) (*models.UserToken, error) {
	tokens, err := repo.FindActivePasswordResetTokens(now)
	if err != nil {
		return nil, err
	}

	for i := range tokens {
		if utils.CheckPasswordHash(rawToken, tokens[i].Token) {
			return &tokens[i], nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

func sendPasswordResetEmail(user models.User, rawToken string) error {
	baseURL := strings.TrimSpace(os.Getenv("APP_BASE_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	resetURL, err := buildResetURL(baseURL, rawToken)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(user.FullName)
	if name == "" {
		name = user.Email
	}

	subject := "Password reset request"
	body := fmt.Sprintf("A password reset was requested for your account. The link below is valid for 10 minutes:\n%s\nIf you did not request this, you can ignore this message.", resetURL)
	return sendMailFunc([]string{user.Email}, subject, passwordResetEmailHTML(subject, name, body))
}

func buildResetURL(baseURL, rawToken string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/reset-password"
	q := u.Query()
	q.Set("token", rawToken)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func passwordResetEmailHTML(subject, name, message string) string {
	escaped := strings.ReplaceAll(message, "\n", "<br />")
	return fmt.Sprintf(`<html><body style="font-family:'Segoe UI',Tahoma,Arial,sans-serif;color:#111827;">
<p>Dear %s,</p>
<p>%s</p>
<p>%s</p>
</body></html>`, name, subject, escaped)
}
