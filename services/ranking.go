// services/ranking.go
package services

import (
	"errors"
	"time"

	"arcticcare-api/models"
	"arcticcare-api/pkg/apperrors"

	"gorm.io/gorm"
)

type RankingService struct {
	DB *gorm.DB
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{DB: db}
}

type RankedUser struct {
	Rank           int    `json:"rank"`
	ID             string `json:"id"`
	Name           string `json:"name"`
	Avatar         string `json:"avatar"`
	Points         int64  `json:"points"`
	IssuesReported int64  `json:"issuesReported"`
	Comments       int64  `json:"comments"`
	Contributions  int64  `json:"contributions"`
}

type RankingPage struct {
	Entries    []RankedUser `json:"ranking"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	Total      int64        `json:"total"`
	TotalPages int          `json:"totalPages"`
}

// Tie-break is points DESC, created_at ASC, id ASC, applied identically to
// the paginated list and to PositionOf so the two can never disagree.
const rankingOrder = "points DESC, u.created_at ASC, u.id ASC"

// Rank returns one page of the global ranking. The monthly window orders by
// points earned since the first instant of the current calendar month — the
// documented semantics, not the shipped behavior that computed the date
// filter and then ordered by lifetime totals anyway.
func (s *RankingService) Rank(windowed bool, page, limit int, now time.Time) (*RankingPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	if err := s.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var entries []RankedUser
	var err error
	if windowed {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		err = s.DB.Raw(`
			SELECT u.id, u.name, u.avatar,
			       COALESCE(SUM(c.points), 0) AS points,
			       (SELECT COUNT(*) FROM issues i WHERE i.reporter_id = u.id AND i.deleted_at IS NULL) AS issues_reported,
			       (SELECT COUNT(*) FROM comments cm WHERE cm.user_id = u.id AND cm.deleted_at IS NULL) AS comments,
			       (SELECT COUNT(*) FROM contributions ct WHERE ct.user_id = u.id) AS contributions
			FROM users u
			LEFT JOIN contributions c ON c.user_id = u.id AND c.created_at >= ?
			WHERE u.deleted_at IS NULL
			GROUP BY u.id, u.name, u.avatar, u.created_at
			ORDER BY `+rankingOrder+`
			LIMIT ? OFFSET ?`, monthStart, limit, offset).Scan(&entries).Error
	} else {
		err = s.DB.Raw(`
			SELECT u.id, u.name, u.avatar, u.points,
			       (SELECT COUNT(*) FROM issues i WHERE i.reporter_id = u.id AND i.deleted_at IS NULL) AS issues_reported,
			       (SELECT COUNT(*) FROM comments cm WHERE cm.user_id = u.id AND cm.deleted_at IS NULL) AS comments,
			       (SELECT COUNT(*) FROM contributions ct WHERE ct.user_id = u.id) AS contributions
			FROM users u
			WHERE u.deleted_at IS NULL
			ORDER BY `+rankingOrder+`
			LIMIT ? OFFSET ?`, limit, offset).Scan(&entries).Error
	}
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Rank = offset + i + 1
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &RankingPage{
		Entries:    entries,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// PositionOf computes a single user's rank with the same tie-break as the
// list: users strictly ahead of them, plus one.
func (s *RankingService) PositionOf(userID string) (int, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.NotFound("user not found")
		}
		return 0, err
	}

	var ahead int64
	err := s.DB.Model(&models.User{}).
		Where(`points > ? OR (points = ? AND (created_at < ? OR (created_at = ? AND id < ?)))`,
			user.Points, user.Points, user.CreatedAt, user.CreatedAt, user.ID).
		Count(&ahead).Error
	if err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}
