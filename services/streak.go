// services/streak.go
package services

import (
	"errors"
	"fmt"
	"time"

	"arcticcare-api/models"
	"arcticcare-api/pkg/apperrors"
	"arcticcare-api/pkg/logger"

	"gorm.io/gorm"
)

// Streak liveness grace window for the read-only view. Longer than the
// one-day increment boundary on purpose: a streak survives overnight but is
// displayed as zero after two silent days.
const streakDisplayGrace = 48 * time.Hour

type StreakService struct {
	DB *gorm.DB
}

func NewStreakService(db *gorm.DB) *StreakService {
	return &StreakService{DB: db}
}

type StreakResult struct {
	CurrentStreak int   `json:"current_streak"`
	LongestStreak int   `json:"longest_streak"`
	StreakBroken  bool  `json:"streak_broken"`
	BonusAwarded  int64 `json:"bonus_awarded"`
}

// Touch records activity at `now` and advances the consecutive-day counter.
// Same-day activity is a no-op, the next day increments, two or more silent
// days reset to 1. Every seventh consecutive day pays a bonus equal to the
// streak length, through the ledger so it shows up as a contribution.
func (s *StreakService) Touch(userID string, now time.Time) (*StreakResult, error) {
	var result StreakResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("user not found")
			}
			return err
		}

		previous := user.CurrentStreak
		newStreak := previous
		broken := false

		if user.LastActiveAt == nil {
			newStreak = 1
		} else {
			daysSinceActive := int(now.Sub(*user.LastActiveAt).Hours() / 24)
			switch {
			case daysSinceActive <= 0:
				// same-day activity does not double-count
			case daysSinceActive == 1:
				newStreak = previous + 1
			default:
				newStreak = 1
				broken = true
			}
		}

		user.CurrentStreak = newStreak
		if newStreak > user.LongestStreak {
			user.LongestStreak = newStreak
		}
		user.LastActiveAt = &now

		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		var bonus int64
		if newStreak > previous && newStreak%7 == 0 {
			bonus = int64(newStreak)
			if _, err := AwardTx(tx, userID, models.ContributionStreakBonus, bonus,
				fmt.Sprintf("Bônus de sequência: %d dias consecutivos", newStreak)); err != nil {
				return err
			}
			logger.Infof("streak bonus: user=%s streak=%d bonus=%d", userID, newStreak, bonus)
		}

		result = StreakResult{
			CurrentStreak: newStreak,
			LongestStreak: user.LongestStreak,
			StreakBroken:  broken,
			BonusAwarded:  bonus,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type StreakView struct {
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	Active        bool       `json:"active"`
	LastActiveAt  *time.Time `json:"last_active_at,omitempty"`
}

// View is the read-only liveness view: the persisted counter is untouched,
// but the displayed streak drops to zero once the user has been silent for
// longer than the 48h grace window.
func (s *StreakService) View(userID string, now time.Time) (*StreakView, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}

	view := &StreakView{
		CurrentStreak: user.CurrentStreak,
		LongestStreak: user.LongestStreak,
		LastActiveAt:  user.LastActiveAt,
	}
	if user.LastActiveAt != nil && now.Sub(*user.LastActiveAt) <= streakDisplayGrace {
		view.Active = true
	} else {
		view.CurrentStreak = 0
	}
	return view, nil
}
