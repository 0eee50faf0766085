package models

import "time"

// Notification types emitted by workflow transitions.
const (
	NotificationReviewRequested    = "review_requested"
	NotificationReviewSubmitted    = "review_submitted"
	NotificationCycleLocked        = "cycle_locked"
	NotificationOnboardingApproved = "onboarding_approved"
)

// ReviewNotification is an append-only per-user message log. Only the is_read
// flag ever mutates, and only by the owning user.
type ReviewNotification struct {
	NotificationID   uint       `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID           uint       `gorm:"column:user_id" json:"user_id"`
	NotificationType string     `gorm:"column:notification_type" json:"notification_type"`
	Title            string     `gorm:"column:title" json:"title"`
	Message          string     `gorm:"column:message" json:"message"`
	RelatedFormID    *uint      `gorm:"column:related_form_id" json:"related_form_id,omitempty"`
	IsRead           bool       `gorm:"column:is_read" json:"is_read"`
	CreateAt         time.Time  `gorm:"column:create_at" json:"created_at"`
	UpdateAt         *time.Time `gorm:"column:update_at" json:"-"`
}

func (ReviewNotification) TableName() string { return "review_notifications" }

// ValidNotificationType reports whether t is a recognized notification type.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationReviewRequested, NotificationReviewSubmitted,
		NotificationCycleLocked, NotificationOnboardingApproved:
		return true
	}
	return false
}
