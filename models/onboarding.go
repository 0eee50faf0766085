package models

import "time"

// Onboarding submission statuses.
const (
	OnboardingStatusPending  = "pending"
	OnboardingStatusInReview = "in_review"
	OnboardingStatusApproved = "approved"
	OnboardingStatusRejected = "rejected"
)

// onboardingTransitions maps each status to the set of statuses reachable
// from it. Approved is terminal: an approved submission is immutable.
var onboardingTransitions = map[string][]string{
	OnboardingStatusPending:  {OnboardingStatusInReview, OnboardingStatusApproved, OnboardingStatusRejected},
	OnboardingStatusInReview: {OnboardingStatusApproved, OnboardingStatusRejected, OnboardingStatusPending},
	OnboardingStatusApproved: {},
	OnboardingStatusRejected: {OnboardingStatusPending},
}

// OnboardingSubmission is a prospective employee's intake form awaiting
// approval. Approval provisions a login-capable User account.
type OnboardingSubmission struct {
	SubmissionID  int        `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	FullName      string     `gorm:"column:full_name" json:"full_name"`
	PersonalEmail string     `gorm:"column:personal_email" json:"personal_email"`
	FormFields    *string    `gorm:"column:form_fields" json:"form_fields,omitempty"`
	Status        string     `gorm:"column:status" json:"status"`
	ReviewedBy    *int       `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewComment *string    `gorm:"column:review_comment" json:"review_comment,omitempty"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`

	Reviewer *User `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}

func (OnboardingSubmission) TableName() string {
	return "onboarding_submissions"
}

// ValidOnboardingStatus reports whether status is a known submission status.
func ValidOnboardingStatus(status string) bool {
	_, ok := onboardingTransitions[status]
	return ok
}

// AllowedOnboardingTargets returns the statuses reachable from current. The
// returned slice is empty for terminal states and unknown input.
func AllowedOnboardingTargets(current string) []string {
	return onboardingTransitions[current]
}

// CanTransitionOnboarding reports whether target is reachable from current.
func CanTransitionOnboarding(current, target string) bool {
	for _, allowed := range onboardingTransitions[current] {
		if allowed == target {
			return true
		}
	}
	return false
}
