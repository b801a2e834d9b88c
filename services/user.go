// services/user.go
package services

import (
	"errors"
	"strings"
	"time"

	"arcticcare-api/models"
	"arcticcare-api/pkg/apperrors"
	"arcticcare-api/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	DB     *gorm.DB
	Reward *RewardService
	Streak *StreakService
}

func NewUserService(db *gorm.DB, reward *RewardService, streak *StreakService) *UserService {
	return &UserService{DB: db, Reward: reward, Streak: streak}
}

// Register creates an account and pays the signup bonus through the ledger.
func (s *UserService) Register(name, email, avatar string, role models.UserRole) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" {
		return nil, apperrors.InvalidInput("name and email are required")
	}
	if role == "" {
		role = models.RoleCitizen
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.Conflict("email already registered")
	}

	user := models.User{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  email,
		Avatar: avatar,
		Role:   role,
		Level:  1,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if _, err := AwardTx(tx, user.ID, models.ContributionAccountCreated, PointsAccountCreated,
			"Conta criada na plataforma"); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("user registered: %s (%s)", user.ID, user.Email)

	// Reload: the award bumped points/level inside the transaction.
	if err := s.DB.Where("id = ?", user.ID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

type Profile struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Avatar        string     `json:"avatar"`
	Role          string     `json:"role"`
	Points        int64      `json:"points"`
	Level         int        `json:"level"`
	LevelProgress float64    `json:"level_progress"`
	CurrentStreak int        `json:"currentStreak"`
	LongestStreak int        `json:"longestStreak"`
	LastActiveAt  *time.Time `json:"lastActiveAt,omitempty"`
}

// Profile assembles the user-facing view: cached totals, derived level
// progress, and the streak as displayed (zeroed past the 48h grace window).
func (s *UserService) Profile(userID string, now time.Time) (*Profile, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}

	view, err := s.Streak.View(userID, now)
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:            user.ID,
		Name:          user.Name,
		Avatar:        user.Avatar,
		Role:          string(user.Role),
		Points:        user.Points,
		Level:         user.Level,
		LevelProgress: LevelProgress(user.Points),
		CurrentStreak: view.CurrentStreak,
		LongestStreak: view.LongestStreak,
		LastActiveAt:  user.LastActiveAt,
	}, nil
}
