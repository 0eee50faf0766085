package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hr-platform-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.OnboardingSubmission{},
		&models.ReviewCycle{},
		&models.ReviewerAssignment{},
		&models.ReviewForm{},
		&models.Appraisal{},
		&models.ReviewNotification{},
		&models.UserToken{},
	))

	// No SMTP dialing from tests.
	prev := sendMailFunc
	sendMailFunc = func(to []string, subject, html string) error { return nil }
	t.Cleanup(func() { sendMailFunc = prev })

	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email, role string) models.User {
	t.Helper()

	user := models.User{
		FullName: name,
		Email:    email,
		Password: "x",
		Role:     role,
		Status:   models.UserStatusActive,
		CreateAt: time.Now(),
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCycle(t *testing.T, db *gorm.DB, name, status string, createdBy int) models.ReviewCycle {
	t.Helper()

	cycle := models.ReviewCycle{
		Name:      name,
		CycleType: models.CycleTypeSixMonth,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		Status:    status,
		CreatedBy: createdBy,
		CreateAt:  time.Now(),
	}
	require.NoError(t, db.Create(&cycle).Error)
	return cycle
}
