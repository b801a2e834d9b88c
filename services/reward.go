// services/reward.go
package services

import (
	"errors"
	"fmt"

	"arcticcare-api/models"
	"arcticcare-api/pkg/apperrors"
	"arcticcare-api/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Point values per rewarded action (tunable via config/env later).
const (
	PointsIssueReported  int64 = 15
	PointsIssueConfirmed int64 = 5
	PointsComment        int64 = 2
	PointsIssueResolved  int64 = 20
	PointsAIAnalysis     int64 = 5
	PointsAccountCreated int64 = 10
)

type RewardService struct {
	DB *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db}
}

// Award appends a ledger entry and increments the user's cached total in a
// single transaction, then recomputes the cached level. Returns the new total.
func (s *RewardService) Award(userID string, ctype models.ContributionType, points int64, description string) (int64, error) {
	var newTotal int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		total, err := AwardTx(tx, userID, ctype, points, description)
		if err != nil {
			return err
		}
		newTotal = total
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newTotal, nil
}

// AwardTx is the transactional body of Award, exposed so that callers which
// already hold a transaction (streak bonus, badge unlock, issue actions) can
// join it instead of nesting a second one.
func AwardTx(tx *gorm.DB, userID string, ctype models.ContributionType, points int64, description string) (int64, error) {
	if points < 0 {
		return 0, apperrors.InvalidInput("points must be a non-negative integer")
	}
	if !models.ValidContributionTypes[ctype] {
		return 0, apperrors.InvalidInput(fmt.Sprintf("unrecognized contribution type %q", ctype))
	}

	// Validate before mutating: no ledger row for a missing user.
	var user models.User
	if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.NotFound("user not found")
		}
		return 0, err
	}

	contribution := models.Contribution{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        ctype,
		Points:      points,
		Description: description,
	}
	if err := tx.Create(&contribution).Error; err != nil {
		return 0, err
	}

	user.Points += points
	user.Level = LevelForPoints(user.Points)
	if err := tx.Save(&user).Error; err != nil {
		return 0, err
	}

	logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"type":    ctype,
		"points":  points,
		"total":   user.Points,
		"level":   user.Level,
	}).Debug("contribution recorded")

	return user.Points, nil
}

// LedgerSum recomputes a user's total from the ledger. Source of truth when
// the cached balance is in doubt.
func (s *RewardService) LedgerSum(userID string) (int64, error) {
	var sum int64
	err := s.DB.Model(&models.Contribution{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error
	return sum, err
}

// Contributions returns a user's ledger page, newest first.
func (s *RewardService) Contributions(userID string, page, limit int) ([]models.Contribution, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.DB.Model(&models.Contribution{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.Contribution
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&entries).Error
	return entries, total, err
}
