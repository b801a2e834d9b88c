package services

import (
	"testing"
	"time"

	"arcticcare-api/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Contribution{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Issue{},
		&models.IssueConfirmation{},
		&models.Comment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string, points int64, createdAt time.Time) *models.User {
	t.Helper()

	user := models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     name + "@example.com",
		Role:      models.RoleCitizen,
		Points:    points,
		Level:     LevelForPoints(points),
		CreatedAt: createdAt,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return &user
}
