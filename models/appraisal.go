package models

import "time"

// Appraisal is the per-employee, per-cycle compensation record. One appraisal
// may exist per (employee, cycle) pair; the composite index backs the
// application-level conflict check.
type Appraisal struct {
	AppraisalID    int        `gorm:"primaryKey;column:appraisal_id" json:"appraisal_id"`
	EmployeeID     int        `gorm:"column:employee_id;uniqueIndex:uq_appraisal_employee_cycle" json:"employee_id"`
	CycleID        int        `gorm:"column:cycle_id;uniqueIndex:uq_appraisal_employee_cycle" json:"cycle_id"`
	ReviewYear     int        `gorm:"column:review_year" json:"review_year"`
	PastCtc        int64      `gorm:"column:past_ctc" json:"past_ctc"`
	CurrentCtc     int64      `gorm:"column:current_ctc" json:"current_ctc"`
	HikePercentage float64    `gorm:"column:hike_percentage" json:"hike_percentage"`
	Remarks        *string    `gorm:"column:remarks" json:"remarks,omitempty"`
	UpdatedBy      int        `gorm:"column:updated_by" json:"updated_by"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`

	Employee *User        `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Cycle    *ReviewCycle `gorm:"foreignKey:CycleID" json:"cycle,omitempty"`
}

func (Appraisal) TableName() string {
	return "appraisals"
}

// ComputeHikePercentage derives the compensation increase. A past CTC of zero
// yields 0 rather than a division by zero.
func ComputeHikePercentage(pastCtc, currentCtc int64) float64 {
	if pastCtc == 0 {
		return 0
	}
	return float64(currentCtc-pastCtc) / float64(pastCtc) * 100
}
