package models

import "time"

// Review cycle statuses. Completed is set through the generic update path
// only; no lifecycle operation produces it.
const (
	CycleStatusDraft     = "draft"
	CycleStatusActive    = "active"
	CycleStatusLocked    = "locked"
	CycleStatusCompleted = "completed"
)

// Cycle types.
const (
	CycleTypeSixMonth = "6-month"
	CycleTypeOneYear  = "1-year"
)

// Reviewer types describe the reviewer's relationship to the employee.
const (
	ReviewerTypeSelf    = "self"
	ReviewerTypePeer    = "peer"
	ReviewerTypeClient  = "client"
	ReviewerTypeManager = "manager"
)

// Review form statuses.
const (
	FormStatusPending   = "pending"
	FormStatusDraft     = "draft"
	FormStatusSubmitted = "submitted"
	FormStatusApproved  = "approved"
)

// ReviewCycle is a bounded time period during which performance reviews are
// collected.
type ReviewCycle struct {
	CycleID   int        `gorm:"primaryKey;column:cycle_id" json:"cycle_id"`
	Name      string     `gorm:"column:name" json:"name"`
	CycleType string     `gorm:"column:cycle_type" json:"cycle_type"`
	StartDate time.Time  `gorm:"column:start_date" json:"start_date"`
	EndDate   time.Time  `gorm:"column:end_date" json:"end_date"`
	Status    string     `gorm:"column:status" json:"status"`
	CreatedBy int        `gorm:"column:created_by" json:"created_by"`
	CreateAt  time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (ReviewCycle) TableName() string {
	return "review_cycles"
}

// ReviewerAssignment links a reviewer to an employee within a cycle. The
// (cycle, employee, reviewer, reviewer_type) tuple is unique per cycle; the
// composite index is the storage-level safety net behind the application
// duplicate check.
type ReviewerAssignment struct {
	AssignmentID int        `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	CycleID      int        `gorm:"column:cycle_id;uniqueIndex:uq_assignment_tuple" json:"cycle_id"`
	EmployeeID   int        `gorm:"column:employee_id;uniqueIndex:uq_assignment_tuple" json:"employee_id"`
	ReviewerID   int        `gorm:"column:reviewer_id;uniqueIndex:uq_assignment_tuple" json:"reviewer_id"`
	ReviewerType string     `gorm:"column:reviewer_type;uniqueIndex:uq_assignment_tuple" json:"reviewer_type"`
	Status       string     `gorm:"column:status" json:"status"`
	NotifiedAt   *time.Time `gorm:"column:notified_at" json:"notified_at,omitempty"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`

	Cycle    *ReviewCycle `gorm:"foreignKey:CycleID" json:"cycle,omitempty"`
	Employee *User        `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Reviewer *User        `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (ReviewerAssignment) TableName() string {
	return "reviewer_assignments"
}

// ReviewForm holds one reviewer's evaluation of one employee for one cycle,
// created 1:1 with its assignment.
type ReviewForm struct {
	FormID          int        `gorm:"primaryKey;column:form_id" json:"form_id"`
	AssignmentID    int        `gorm:"column:assignment_id;uniqueIndex" json:"assignment_id"`
	CycleID         int        `gorm:"column:cycle_id" json:"cycle_id"`
	EmployeeID      int        `gorm:"column:employee_id" json:"employee_id"`
	ReviewerID      int        `gorm:"column:reviewer_id" json:"reviewer_id"`
	Status          string     `gorm:"column:status" json:"status"`
	Rating          *int       `gorm:"column:rating" json:"rating,omitempty"`
	Strengths       *string    `gorm:"column:strengths" json:"strengths,omitempty"`
	Improvements    *string    `gorm:"column:improvements" json:"improvements,omitempty"`
	OverallComments *string    `gorm:"column:overall_comments" json:"overall_comments,omitempty"`
	SubmittedAt     *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
}

func (ReviewForm) TableName() string {
	return "review_forms"
}

// ValidCycleType reports whether t is a recognized cycle type.
func ValidCycleType(t string) bool {
	return t == CycleTypeSixMonth || t == CycleTypeOneYear
}

// ValidCycleStatus reports whether s is a recognized cycle status.
func ValidCycleStatus(s string) bool {
	switch s {
	case CycleStatusDraft, CycleStatusActive, CycleStatusLocked, CycleStatusCompleted:
		return true
	}
	return false
}

// ValidReviewerType reports whether t is a recognized reviewer type.
func ValidReviewerType(t string) bool {
	switch t {
	case ReviewerTypeSelf, ReviewerTypePeer, ReviewerTypeClient, ReviewerTypeManager:
		return true
	}
	return false
}
