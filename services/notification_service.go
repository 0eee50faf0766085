package services

import (
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"hr-platform-api/config"
	"hr-platform-api/models"
	"hr-platform-api/utils"
)

// sendMailFunc is swappable in tests so no SMTP dialing happens.
var sendMailFunc = config.SendMail

// NotificationService reads and flags the per-user notification log. Rows are
// appended by the workflow services; nothing here ever rewrites a message.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// ListOptions narrows the notification listing.
type ListOptions struct {
	UnreadOnly bool
	Type       string
	Limit      int
	Offset     int
}

func (s *NotificationService) List(userID uint, opts ListOptions) ([]models.ReviewNotification, *utils.AppError) {
	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	q := s.db.Model(&models.ReviewNotification{}).Where("user_id = ?", userID)
	if opts.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if opts.Type != "" {
		if !models.ValidNotificationType(opts.Type) {
			return nil, utils.NewValidationError("INVALID_NOTIFICATION_TYPE", "unknown notification type filter")
		}
		q = q.Where("notification_type = ?", opts.Type)
	}

	var items []models.ReviewNotification
	if err := q.Order("create_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	return items, nil
}

func (s *NotificationService) UnreadCount(userID uint) (int64, *utils.AppError) {
	var count int64
	if err := s.db.Model(&models.ReviewNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, utils.NewInternalError(err)
	}
	return count, nil
}

// MarkRead flips is_read on a single notification. Only the owner may do so.
func (s *NotificationService) MarkRead(userID uint, notificationID uint) *utils.AppError {
	now := time.Now()
	res := s.db.Model(&models.ReviewNotification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "update_at": now})
	if res.Error != nil {
		return utils.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NewNotFoundError("NOTIFICATION_NOT_FOUND", "notification not found")
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID uint) (int64, *utils.AppError) {
	now := time.Now()
	res := s.db.Model(&models.ReviewNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "update_at": now})
	if res.Error != nil {
		return 0, utils.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}

/* ==========================
   Mail helpers shared by the workflow services
   ========================== */

func buildFormalEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "colleague"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0 0 0 0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}

// sendMailSafe dispatches best-effort: mail failure is logged, never surfaced
// to the request that triggered it.
func sendMailSafe(to []string, subject, html string) {
	if err := sendMailFunc(to, subject, html); err != nil {
		log.Printf("notification email send failed (subject=%q to=%v): %v", subject, to, err)
	}
}
