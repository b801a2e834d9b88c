// services/badge.go
package services

import (
	"errors"
	"fmt"
	"time"

	"arcticcare-api/models"
	"arcticcare-api/pkg/apperrors"
	"arcticcare-api/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// SeedDefaultBadges inserts the default catalog, skipping names that already
// exist. Safe to run on every boot.
func (s *BadgeService) SeedDefaultBadges() error {
	for _, badge := range models.DefaultBadges {
		var count int64
		if err := s.DB.Model(&models.Badge{}).Where("name = ?", badge.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		badge.ID = uuid.NewString()
		if err := s.DB.Create(&badge).Error; err != nil {
			return err
		}
		logger.Infof("seeded badge %q", badge.Name)
	}
	return nil
}

// CreateBadge registers a new badge definition (admin only).
func (s *BadgeService) CreateBadge(badge *models.Badge) error {
	if badge.Name == "" {
		return apperrors.InvalidInput("badge name is required")
	}
	if badge.Points < 0 {
		return apperrors.InvalidInput("badge points must be non-negative")
	}
	if !requirementValid(badge.Requirement) {
		return apperrors.InvalidInput("badge requirement must set exactly one of issues, confirms, comments, points")
	}

	var count int64
	if err := s.DB.Model(&models.Badge{}).Where("name = ?", badge.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflict(fmt.Sprintf("badge %q already exists", badge.Name))
	}

	badge.ID = uuid.NewString()
	return s.DB.Create(badge).Error
}

func requirementValid(req models.BadgeRequirement) bool {
	set := 0
	for _, n := range []int64{req.Issues, req.Confirms, req.Comments, req.Points} {
		if n < 0 {
			return false
		}
		if n > 0 {
			set++
		}
	}
	return set == 1
}

// ListBadges returns the full catalog.
func (s *BadgeService) ListBadges() ([]models.Badge, error) {
	var badges []models.Badge
	err := s.DB.Order("created_at ASC").Find(&badges).Error
	return badges, err
}

// UserBadges returns the badges a user holds, joined with their definitions.
func (s *BadgeService) UserBadges(userID string) ([]UnlockResult, error) {
	type row struct {
		models.UserBadge
		Name        string
		Description string
		Icon        string
		Points      int64
	}
	var rows []row
	err := s.DB.Table("user_badges").
		Select("user_badges.*, badges.name, badges.description, badges.icon, badges.points").
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.unlocked_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]UnlockResult, 0, len(rows))
	for _, r := range rows {
		results = append(results, UnlockResult{
			ID:           r.BadgeID,
			Name:         r.Name,
			Description:  r.Description,
			Icon:         r.Icon,
			PointsEarned: r.Points,
			UnlockedAt:   &r.UnlockedAt,
		})
	}
	return results, nil
}

type UnlockResult struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Icon         string     `json:"icon"`
	PointsEarned int64      `json:"pointsEarned"`
	UnlockedAt   *time.Time `json:"unlockedAt,omitempty"`
}

// TryUnlock unlocks a badge for a user at most once. A repeat attempt is a
// true no-op: no second UserBadge row, no second point award, Conflict back
// to the caller.
func (s *BadgeService) TryUnlock(userID, badgeID string) (*UnlockResult, error) {
	var result UnlockResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var badge models.Badge
		if err := tx.Where("id = ?", badgeID).First(&badge).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("badge not found")
			}
			return err
		}

		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("user not found")
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.UserBadge{}).
			Where("user_id = ? AND badge_id = ?", userID, badgeID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Conflict(fmt.Sprintf("badge %q already unlocked", badge.Name))
		}

		userBadge := models.UserBadge{
			ID:      uuid.NewString(),
			UserID:  userID,
			BadgeID: badgeID,
		}
		if err := tx.Create(&userBadge).Error; err != nil {
			return err
		}

		if _, err := AwardTx(tx, userID, models.ContributionBadgeUnlocked, badge.Points,
			fmt.Sprintf("Conquista desbloqueada: %s", badge.Name)); err != nil {
			return err
		}

		result = UnlockResult{
			ID:           badge.ID,
			Name:         badge.Name,
			Description:  badge.Description,
			Icon:         badge.Icon,
			PointsEarned: badge.Points,
		}
		logger.Infof("badge unlocked: user=%s badge=%q (+%d)", userID, badge.Name, badge.Points)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// userCounts are the counters badge requirements are checked against.
type userCounts struct {
	Issues   int64
	Confirms int64
	Comments int64
	Points   int64
}

func (s *BadgeService) countsFor(userID string) (*userCounts, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}

	counts := userCounts{Points: user.Points}
	if err := s.DB.Model(&models.Issue{}).Where("reporter_id = ?", userID).Count(&counts.Issues).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.IssueConfirmation{}).Where("user_id = ?", userID).Count(&counts.Confirms).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Comment{}).Where("user_id = ?", userID).Count(&counts.Comments).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}

func meetsRequirement(counts *userCounts, req models.BadgeRequirement) bool {
	switch {
	case req.Issues > 0:
		return counts.Issues >= req.Issues
	case req.Confirms > 0:
		return counts.Confirms >= req.Confirms
	case req.Comments > 0:
		return counts.Comments >= req.Comments
	case req.Points > 0:
		return counts.Points >= req.Points
	}
	return false
}

// EvaluateForUser checks every badge the user does not yet hold against their
// current counters and unlocks the ones that qualify. Called after any action
// that moves a counter, so a predicate is acted on as soon as it flips true.
func (s *BadgeService) EvaluateForUser(userID string) ([]UnlockResult, error) {
	counts, err := s.countsFor(userID)
	if err != nil {
		return nil, err
	}

	// Catalog order is evaluation order: the same-pass points cascade must
	// not depend on storage retrieval order.
	var badges []models.Badge
	if err := s.DB.Order("created_at ASC").Find(&badges).Error; err != nil {
		return nil, err
	}

	var held []string
	if err := s.DB.Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &held).Error; err != nil {
		return nil, err
	}
	heldSet := make(map[string]bool, len(held))
	for _, id := range held {
		heldSet[id] = true
	}

	var unlocked []UnlockResult
	for _, badge := range badges {
		if heldSet[badge.ID] || !meetsRequirement(counts, badge.Requirement) {
			continue
		}
		result, err := s.TryUnlock(userID, badge.ID)
		if err != nil {
			if apperrors.IsConflict(err) {
				continue
			}
			return unlocked, err
		}
		unlocked = append(unlocked, *result)
		// A point-bearing unlock can flip a points predicate further down
		// the catalog in the same pass.
		counts.Points += result.PointsEarned
	}
	return unlocked, nil
}
