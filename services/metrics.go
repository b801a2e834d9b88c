// services/metrics.go
package services

import (
	"time"

	"arcticcare-api/models"

	"gorm.io/gorm"
)

// MetricsService feeds the institutional dashboards: municipalities and NGOs
// consume aggregates, never raw reporter identities beyond the top list.
type MetricsService struct {
	DB *gorm.DB
}

func NewMetricsService(db *gorm.DB) *MetricsService {
	return &MetricsService{DB: db}
}

type CountBucket struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type TopReporter struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	IssuesReported int64  `json:"issues_reported"`
	Points         int64  `json:"points"`
}

type Overview struct {
	TotalIssues    int64         `json:"total_issues"`
	OpenIssues     int64         `json:"open_issues"`
	ResolvedIssues int64         `json:"resolved_issues"`
	ResolutionRate float64       `json:"resolution_rate"`
	ByCategory     []CountBucket `json:"by_category"`
	ByStatus       []CountBucket `json:"by_status"`
	BySeverity     []CountBucket `json:"by_severity"`
	ReportsLast30d int64         `json:"reports_last_30d"`
	TopReporters   []TopReporter `json:"top_reporters"`
}

func (s *MetricsService) groupBy(column string) ([]CountBucket, error) {
	var buckets []CountBucket
	err := s.DB.Model(&models.Issue{}).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Scan(&buckets).Error
	return buckets, err
}

func (s *MetricsService) Overview(now time.Time) (*Overview, error) {
	o := &Overview{}

	if err := s.DB.Model(&models.Issue{}).Count(&o.TotalIssues).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Issue{}).Where("status = ?", models.StatusOpen).Count(&o.OpenIssues).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Issue{}).
		Where("status IN ?", []models.IssueStatus{models.StatusResolved, models.StatusArchived}).
		Count(&o.ResolvedIssues).Error; err != nil {
		return nil, err
	}
	if o.TotalIssues > 0 {
		o.ResolutionRate = float64(o.ResolvedIssues) / float64(o.TotalIssues)
	}

	var err error
	if o.ByCategory, err = s.groupBy("category"); err != nil {
		return nil, err
	}
	if o.ByStatus, err = s.groupBy("status"); err != nil {
		return nil, err
	}
	if o.BySeverity, err = s.groupBy("severity"); err != nil {
		return nil, err
	}

	since := now.AddDate(0, 0, -30)
	if err := s.DB.Model(&models.Issue{}).Where("created_at >= ?", since).Count(&o.ReportsLast30d).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Raw(`
		SELECT u.id, u.name, u.points, COUNT(i.id) AS issues_reported
		FROM users u
		JOIN issues i ON i.reporter_id = u.id AND i.deleted_at IS NULL
		WHERE u.deleted_at IS NULL
		GROUP BY u.id, u.name, u.points
		ORDER BY issues_reported DESC, u.points DESC
		LIMIT 10`).Scan(&o.TopReporters).Error; err != nil {
		return nil, err
	}

	return o, nil
}
