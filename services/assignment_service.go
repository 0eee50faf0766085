package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"hr-platform-api/models"
	"hr-platform-api/utils"
)

// AssignmentService creates reviewer assignments in bulk, fanning out the
// 1:1 review forms and the reviewer notifications in the same transaction.
type AssignmentService struct {
	db *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

// AssignmentEntry is one requested (employee, reviewer, type) pairing.
type AssignmentEntry struct {
	EmployeeID   int    `json:"employee_id"`
	ReviewerID   int    `json:"reviewer_id"`
	ReviewerType string `json:"reviewer_type"`
}

func (e AssignmentEntry) key() string {
	return fmt.Sprintf("%d:%d:%s", e.EmployeeID, e.ReviewerID, e.ReviewerType)
}

// BulkAssignResult reports the outcome of one batch.
type BulkAssignResult struct {
	Assignments  []models.ReviewerAssignment `json:"assignments"`
	FormsCreated int                         `json:"forms_created"`
	Message      string                      `json:"message"`
}

// BulkAssign validates the whole batch before any write, then inserts
// assignments, forms, and review_requested notifications as one atomic unit.
// Assignment-to-form correspondence is established by the composite
// (employee, reviewer, type) key, never by slice position.
func (s *AssignmentService) BulkAssign(cycleID int, entries []AssignmentEntry) (*BulkAssignResult, *utils.AppError) {
	if len(entries) == 0 {
		return nil, utils.NewValidationError("ASSIGNMENTS_REQUIRED", "at least one assignment entry is required")
	}

	var cycle models.ReviewCycle
	if err := s.db.First(&cycle, "cycle_id = ?", cycleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("CYCLE_NOT_FOUND", "review cycle not found")
		}
		return nil, utils.NewInternalError(err)
	}
	if cycle.Status == models.CycleStatusLocked || cycle.Status == models.CycleStatusCompleted {
		return nil, utils.NewConflictError("CYCLE_LOCKED",
			fmt.Sprintf("cycle is %s; assignments cannot be created", cycle.Status))
	}

	// Shape checks first, then batch existence and duplicate checks that
	// collect every violation instead of stopping at the first.
	userIDSet := map[int]bool{}
	for i, entry := range entries {
		if entry.EmployeeID <= 0 || entry.ReviewerID <= 0 {
			return nil, utils.NewValidationError("INVALID_ASSIGNMENT",
				fmt.Sprintf("entry %d: employee_id and reviewer_id are required", i))
		}
		if !models.ValidReviewerType(entry.ReviewerType) {
			return nil, utils.NewValidationError("INVALID_REVIEWER_TYPE",
				fmt.Sprintf("entry %d: reviewer type must be one of self, peer, client, manager", i))
		}
		userIDSet[entry.EmployeeID] = true
		userIDSet[entry.ReviewerID] = true
	}

	userIDs := make([]int, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}
	var found []int
	if err := s.db.Model(&models.User{}).
		Where("user_id IN ? AND delete_at IS NULL", userIDs).
		Pluck("user_id", &found).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	if len(found) != len(userIDs) {
		foundSet := map[int]bool{}
		for _, id := range found {
			foundSet[id] = true
		}
		var missing []string
		for _, id := range userIDs {
			if !foundSet[id] {
				missing = append(missing, fmt.Sprintf("%d", id))
			}
		}
		return nil, utils.NewNotFoundError("USERS_NOT_FOUND",
			"unknown user id(s): "+strings.Join(missing, ", "))
	}

	var existing []models.ReviewerAssignment
	if err := s.db.Where("cycle_id = ?", cycleID).Find(&existing).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	existingKeys := map[string]bool{}
	for _, a := range existing {
		existingKeys[AssignmentEntry{a.EmployeeID, a.ReviewerID, a.ReviewerType}.key()] = true
	}

	seen := map[string]bool{}
	var duplicates []string
	for _, entry := range entries {
		k := entry.key()
		if existingKeys[k] || seen[k] {
			duplicates = append(duplicates, k)
		}
		seen[k] = true
	}
	if len(duplicates) > 0 {
		return nil, utils.NewConflictError("DUPLICATE_ASSIGNMENTS",
			"duplicate (employee, reviewer, type) tuple(s): "+strings.Join(duplicates, "; "))
	}

	now := time.Now()
	var created []models.ReviewerAssignment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		assignments := make([]models.ReviewerAssignment, 0, len(entries))
		for _, entry := range entries {
			assignments = append(assignments, models.ReviewerAssignment{
				CycleID:      cycleID,
				EmployeeID:   entry.EmployeeID,
				ReviewerID:   entry.ReviewerID,
				ReviewerType: entry.ReviewerType,
				Status:       models.FormStatusPending,
				CreateAt:     now,
			})
		}
		if err := tx.Create(&assignments).Error; err != nil {
			return err
		}

		// Re-read by composite key: batch inserts may not preserve order, so
		// the key, not the index, pairs each assignment with its form.
		byKey := map[string]*models.ReviewerAssignment{}
		for i := range assignments {
			a := &assignments[i]
			byKey[AssignmentEntry{a.EmployeeID, a.ReviewerID, a.ReviewerType}.key()] = a
		}

		for _, entry := range entries {
			a := byKey[entry.key()]

			form := models.ReviewForm{
				AssignmentID: a.AssignmentID,
				CycleID:      cycleID,
				EmployeeID:   a.EmployeeID,
				ReviewerID:   a.ReviewerID,
				Status:       models.FormStatusPending,
				CreateAt:     now,
			}
			if err := tx.Create(&form).Error; err != nil {
				return err
			}

			formID := uint(form.FormID)
			notification := models.ReviewNotification{
				UserID:           uint(a.ReviewerID),
				NotificationType: models.NotificationReviewRequested,
				Title:            "Review requested",
				Message:          fmt.Sprintf("You have been asked to provide a %s review in cycle '%s'.", a.ReviewerType, cycle.Name),
				RelatedFormID:    &formID,
				CreateAt:         now,
			}
			if err := tx.Create(&notification).Error; err != nil {
				return err
			}

			dispatched := now
			if err := tx.Model(&models.ReviewerAssignment{}).
				Where("assignment_id = ?", a.AssignmentID).
				Update("notified_at", dispatched).Error; err != nil {
				return err
			}
			a.NotifiedAt = &dispatched
		}

		created = assignments
		return nil
	})
	if err != nil {
		// A concurrent batch can still hit the tuple unique index between the
		// duplicate check and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.NewConflictError("DUPLICATE_ASSIGNMENTS",
				"an identical assignment was created concurrently")
		}
		return nil, utils.NewInternalError(err)
	}

	s.notifyReviewersByMail(created, cycle.Name)

	return &BulkAssignResult{
		Assignments:  created,
		FormsCreated: len(created),
		Message:      fmt.Sprintf("created %d assignment(s) with review forms and notifications", len(created)),
	}, nil
}

// ListByCycle returns a cycle's assignments with reviewer/employee preloads.
func (s *AssignmentService) ListByCycle(cycleID int) ([]models.ReviewerAssignment, *utils.AppError) {
	var count int64
	if err := s.db.Model(&models.ReviewCycle{}).Where("cycle_id = ?", cycleID).Count(&count).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	if count == 0 {
		return nil, utils.NewNotFoundError("CYCLE_NOT_FOUND", "review cycle not found")
	}

	var assignments []models.ReviewerAssignment
	if err := s.db.Preload("Employee").Preload("Reviewer").
		Where("cycle_id = ?", cycleID).
		Order("assignment_id").
		Find(&assignments).Error; err != nil {
		return nil, utils.NewInternalError(err)
	}
	return assignments, nil
}

// notifyReviewersByMail sends best-effort emails after the batch commits.
func (s *AssignmentService) notifyReviewersByMail(assignments []models.ReviewerAssignment, cycleName string) {
	reviewerIDs := map[int]bool{}
	for _, a := range assignments {
		reviewerIDs[a.ReviewerID] = true
	}
	ids := make([]int, 0, len(reviewerIDs))
	for id := range reviewerIDs {
		ids = append(ids, id)
	}

	var reviewers []models.User
	if err := s.db.Where("user_id IN ?", ids).Find(&reviewers).Error; err != nil {
		return
	}

	subject := "Review requested"
	for _, reviewer := range reviewers {
		body := buildFormalEmailHTML(subject, reviewer.FullName,
			fmt.Sprintf("You have pending performance reviews in cycle '%s'. Please sign in to complete them.", cycleName))
		sendMailSafe([]string{reviewer.Email}, subject, body)
	}
}
