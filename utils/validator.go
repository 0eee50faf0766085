// utils/validator.go - Input validation
package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove null bytes first so they can't shield surrounding whitespace
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	return input
}

// ValidateReviewYear checks that a review year is a 4-digit year within a
// sane range (2000 .. next calendar year).
func ValidateReviewYear(year int) *AppError {
	maxYear := time.Now().Year() + 1
	if year < 2000 || year > maxYear {
		return NewValidationError("INVALID_REVIEW_YEAR",
			fmt.Sprintf("review year must be between 2000 and %d", maxYear))
	}
	return nil
}

// ValidateCtc checks that a compensation figure is a positive integer.
func ValidateCtc(field string, value int64) *AppError {
	if value <= 0 {
		return NewValidationError("INVALID_CTC", fmt.Sprintf("%s must be a positive integer", field))
	}
	return nil
}

// ValidateDateRange checks the start-before-end cycle invariant.
func ValidateDateRange(start, end time.Time) *AppError {
	if !start.Before(end) {
		return NewValidationError("INVALID_DATE_RANGE", "start date must be before end date")
	}
	return nil
}
