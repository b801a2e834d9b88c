package models

import (
	"time"

	"gorm.io/gorm"
)

type IssueCategory string

const (
	CategoryFire          IssueCategory = "fire"
	CategoryFlood         IssueCategory = "flood"
	CategoryPollution     IssueCategory = "pollution"
	CategoryDeforestation IssueCategory = "deforestation"
	CategoryWaste         IssueCategory = "waste"
	CategoryOther         IssueCategory = "other"
)

var ValidIssueCategories = map[IssueCategory]bool{
	CategoryFire:          true,
	CategoryFlood:         true,
	CategoryPollution:     true,
	CategoryDeforestation: true,
	CategoryWaste:         true,
	CategoryOther:         true,
}

type IssueSeverity string

const (
	SeverityLow      IssueSeverity = "low"
	SeverityMedium   IssueSeverity = "medium"
	SeverityHigh     IssueSeverity = "high"
	SeverityCritical IssueSeverity = "critical"
)

type IssueStatus string

const (
	StatusOpen     IssueStatus = "open"
	StatusInReview IssueStatus = "in_review"
	StatusResolved IssueStatus = "resolved"
	StatusArchived IssueStatus = "archived"
)

// Issue is a geotagged citizen report of an environmental incident.
type Issue struct {
	ID          string        `gorm:"primaryKey;type:uuid" json:"id"`
	Slug        string        `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string        `gorm:"not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Category    IssueCategory `gorm:"type:varchar(24);not null;index" json:"category"`
	Severity    IssueSeverity `gorm:"type:varchar(16);default:'medium';index" json:"severity"`
	Status      IssueStatus   `gorm:"type:varchar(16);default:'open';index" json:"status"`

	Latitude  float64 `gorm:"not null;index" json:"latitude"`
	Longitude float64 `gorm:"not null;index" json:"longitude"`
	PhotoURL  string  `gorm:"type:text" json:"photo_url"`

	ReporterID    string     `gorm:"index;not null" json:"reporter_id"`
	Confirmations int64      `gorm:"default:0" json:"confirmations"`
	Analyzed      bool       `gorm:"default:false" json:"analyzed"`
	ResolvedByID  *string    `json:"resolved_by_id,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IssueConfirmation: one per (user, issue) — a citizen vouching that the
// reported incident is real.
type IssueConfirmation struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	IssueID   string    `gorm:"not null;uniqueIndex:idx_issue_confirmer" json:"issue_id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_issue_confirmer" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Comment on an issue.
type Comment struct {
	ID        string         `gorm:"primaryKey;type:uuid" json:"id"`
	IssueID   string         `gorm:"index;not null" json:"issue_id"`
	UserID    string         `gorm:"index;not null" json:"user_id"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
