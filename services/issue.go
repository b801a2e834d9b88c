// services/issue.go
package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"arcticcare-api/models"
	"arcticcare-api/pkg/apperrors"
	"arcticcare-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type IssueService struct {
	DB     *gorm.DB
	Reward *RewardService
	Streak *StreakService
	Badges *BadgeService
}

func NewIssueService(db *gorm.DB, reward *RewardService, streak *StreakService, badges *BadgeService) *IssueService {
	return &IssueService{DB: db, Reward: reward, Streak: streak, Badges: badges}
}

type ReportInput struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    models.IssueCategory `json:"category"`
	Severity    models.IssueSeverity `json:"severity"`
	Latitude    float64              `json:"latitude"`
	Longitude   float64              `json:"longitude"`
	PhotoURL    string               `json:"photo_url"`
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return apperrors.InvalidInput("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return apperrors.InvalidInput("longitude must be between -180 and 180")
	}
	return nil
}

// Report creates a geotagged issue, pays the reporter through the ledger,
// touches their streak and re-evaluates badge predicates — reporting moves
// both the issues counter and the points counter.
func (s *IssueService) Report(userID string, in ReportInput, now time.Time) (*models.Issue, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if !models.ValidIssueCategories[in.Category] {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unrecognized category %q", in.Category))
	}
	if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}
	if in.Severity == "" {
		in.Severity = models.SeverityMedium
	}

	id := uuid.NewString()
	issue := models.Issue{
		ID:          id,
		Slug:        fmt.Sprintf("%s-%s", slug.Make(in.Title), id[:8]),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Severity:    in.Severity,
		Status:      models.StatusOpen,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		PhotoURL:    in.PhotoURL,
		ReporterID:  userID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := AwardTx(tx, userID, models.ContributionIssueReported, PointsIssueReported,
			fmt.Sprintf("Reporte: %s", in.Title)); err != nil {
			return err
		}
		return tx.Create(&issue).Error
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.Streak.Touch(userID, now); err != nil {
		logger.Warnf("streak touch failed for %s: %v", userID, err)
	}
	if _, err := s.Badges.EvaluateForUser(userID); err != nil {
		logger.Warnf("badge evaluation failed for %s: %v", userID, err)
	}

	return &issue, nil
}

func (s *IssueService) Get(issueID string) (*models.Issue, error) {
	var issue models.Issue
	if err := s.DB.Where("id = ? OR slug = ?", issueID, issueID).First(&issue).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("issue not found")
		}
		return nil, err
	}
	return &issue, nil
}

type IssueFilter struct {
	Category models.IssueCategory
	Status   models.IssueStatus
	Severity models.IssueSeverity
	Page     int
	Limit    int
}

func (s *IssueService) List(f IssueFilter) ([]models.Issue, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	q := s.DB.Model(&models.Issue{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Severity != "" {
		q = q.Where("severity = ?", f.Severity)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var issues []models.Issue
	err := q.Order("created_at DESC").
		Limit(f.Limit).Offset((f.Page - 1) * f.Limit).
		Find(&issues).Error
	return issues, total, err
}

// Confirm records one citizen vouching for an issue. One confirmation per
// (user, issue); confirming your own report is rejected.
func (s *IssueService) Confirm(userID, issueID string) (*models.Issue, error) {
	var issue models.Issue
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", issueID).First(&issue).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("issue not found")
			}
			return err
		}
		if issue.ReporterID == userID {
			return apperrors.InvalidInput("cannot confirm your own report")
		}

		var count int64
		if err := tx.Model(&models.IssueConfirmation{}).
			Where("issue_id = ? AND user_id = ?", issueID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Conflict("issue already confirmed by this user")
		}

		confirmation := models.IssueConfirmation{
			ID:      uuid.NewString(),
			IssueID: issueID,
			UserID:  userID,
		}
		if err := tx.Create(&confirmation).Error; err != nil {
			return err
		}

		issue.Confirmations++
		if err := tx.Model(&models.Issue{}).Where("id = ?", issueID).
			UpdateColumn("confirmations", gorm.Expr("confirmations + 1")).Error; err != nil {
			return err
		}

		_, err := AwardTx(tx, userID, models.ContributionIssueConfirmed, PointsIssueConfirmed,
			fmt.Sprintf("Confirmação do reporte: %s", issue.Title))
		return err
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.Badges.EvaluateForUser(userID); err != nil {
		logger.Warnf("badge evaluation failed for %s: %v", userID, err)
	}
	return &issue, nil
}

// AddComment appends a comment and pays the commenter.
func (s *IssueService) AddComment(userID, issueID, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.InvalidInput("comment body is required")
	}

	comment := models.Comment{
		ID:      uuid.NewString(),
		IssueID: issueID,
		UserID:  userID,
		Body:    body,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var issue models.Issue
		if err := tx.Where("id = ?", issueID).First(&issue).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("issue not found")
			}
			return err
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		_, err := AwardTx(tx, userID, models.ContributionComment, PointsComment,
			fmt.Sprintf("Comentário no reporte: %s", issue.Title))
		return err
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.Badges.EvaluateForUser(userID); err != nil {
		logger.Warnf("badge evaluation failed for %s: %v", userID, err)
	}
	return &comment, nil
}

func (s *IssueService) Comments(issueID string, page, limit int) ([]models.Comment, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.DB.Model(&models.Comment{}).Where("issue_id = ?", issueID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := s.DB.Where("issue_id = ?", issueID).
		Order("created_at ASC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&comments).Error
	return comments, total, err
}

// Resolve marks an issue resolved on behalf of an institution and pays the
// original reporter.
func (s *IssueService) Resolve(actorID, issueID string, now time.Time) (*models.Issue, error) {
	var issue models.Issue
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var actor models.User
		if err := tx.Where("id = ?", actorID).First(&actor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("user not found")
			}
			return err
		}
		if actor.Role != models.RoleInstitution && actor.Role != models.RoleAdmin {
			return apperrors.InvalidInput("only institutions can resolve issues")
		}

		if err := tx.Where("id = ?", issueID).First(&issue).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("issue not found")
			}
			return err
		}
		if issue.Status == models.StatusResolved || issue.Status == models.StatusArchived {
			return apperrors.Conflict("issue already resolved")
		}

		issue.Status = models.StatusResolved
		issue.ResolvedByID = &actorID
		issue.ResolvedAt = &now
		if err := tx.Save(&issue).Error; err != nil {
			return err
		}

		_, err := AwardTx(tx, issue.ReporterID, models.ContributionIssueResolved, PointsIssueResolved,
			fmt.Sprintf("Reporte resolvido: %s", issue.Title))
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("issue resolved: %s by %s", issue.ID, actorID)
	return &issue, nil
}

// Analyze runs the keyword scorer once per issue and pays the requester.
// Re-running analysis on the same issue is a Conflict, not a second award.
func (s *IssueService) Analyze(userID, issueID string) (*AnalysisResult, error) {
	var result *AnalysisResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var issue models.Issue
		if err := tx.Where("id = ?", issueID).First(&issue).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("issue not found")
			}
			return err
		}
		if issue.Analyzed {
			return apperrors.Conflict("issue already analyzed")
		}

		result = AnalyzeText(issue.Title, issue.Description, issue.Category)

		issue.Analyzed = true
		issue.Severity = result.SuggestedSeverity
		if err := tx.Save(&issue).Error; err != nil {
			return err
		}

		_, err := AwardTx(tx, userID, models.ContributionAIAnalysis, PointsAIAnalysis,
			fmt.Sprintf("Análise de severidade: %s", issue.Title))
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Nearby uses the degree-delta approximation over lat/lng: one degree of
// latitude ≈ 111km, longitude scaled by cos(lat). No spatial index.
func (s *IssueService) Nearby(lat, lng, radiusKM float64) ([]models.Issue, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}
	if radiusKM <= 0 {
		radiusKM = 5
	}

	latDelta := radiusKM / 111.0
	// cos(lat) vanishes at the poles; clamp so the box stays finite instead
	// of silently covering every longitude.
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lngDelta := radiusKM / (111.0 * cosLat)

	var issues []models.Issue
	err := s.DB.Where("latitude BETWEEN ? AND ?", lat-latDelta, lat+latDelta).
		Where("longitude BETWEEN ? AND ?", lng-lngDelta, lng+lngDelta).
		Where("status <> ?", models.StatusArchived).
		Order("created_at DESC").
		Limit(200).
		Find(&issues).Error
	return issues, err
}

// ArchiveResolved archives issues resolved more than `afterDays` ago.
// Returns how many rows moved. Run from the scheduler.
func (s *IssueService) ArchiveResolved(afterDays int, now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -afterDays)
	res := s.DB.Model(&models.Issue{}).
		Where("status = ? AND resolved_at <= ?", models.StatusResolved, cutoff).
		Update("status", models.StatusArchived)
	return res.RowsAffected, res.Error
}
