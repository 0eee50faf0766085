package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("a@x.com"))
	assert.True(t, ValidateEmail("first.last+tag@sub.example.org"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("a@x"))
	assert.False(t, ValidateEmail(""))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello \x00"))
	assert.Equal(t, "hello", SanitizeInput("\x00 hello \x00 \x00"))
	assert.Equal(t, "a b", SanitizeInput("a\x00 b"))
}

func TestValidateReviewYear(t *testing.T) {
	require.Nil(t, ValidateReviewYear(time.Now().Year()))
	require.Nil(t, ValidateReviewYear(2000))

	appErr := ValidateReviewYear(1999)
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_REVIEW_YEAR", appErr.Code)

	appErr = ValidateReviewYear(time.Now().Year() + 2)
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_REVIEW_YEAR", appErr.Code)
}

func TestValidateDateRange(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Nil(t, ValidateDateRange(start, start.AddDate(0, 6, 0)))

	appErr := ValidateDateRange(start, start)
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_DATE_RANGE", appErr.Code)
}

func TestNewTransitionError_EnumeratesTargets(t *testing.T) {
	appErr := NewTransitionError("INVALID_TRANSITION", "approved", nil)
	assert.Contains(t, appErr.Message, "none")

	appErr = NewTransitionError("INVALID_TRANSITION", "rejected", []string{"pending"})
	assert.Contains(t, appErr.Message, "pending")
}
