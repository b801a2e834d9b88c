package models

import (
	"time"
)

type ContributionType string

const (
	ContributionIssueReported  ContributionType = "issue_reported"
	ContributionIssueConfirmed ContributionType = "issue_confirmed"
	ContributionComment        ContributionType = "comment"
	ContributionDataSubmitted  ContributionType = "data_submitted"
	ContributionAccountCreated ContributionType = "account_created"
	ContributionAIAnalysis     ContributionType = "ai_analysis"
	ContributionBadgeUnlocked  ContributionType = "badge_unlocked"
	ContributionStreakBonus    ContributionType = "streak_bonus"
	ContributionIssueResolved  ContributionType = "issue_resolved"
)

// ValidContributionTypes is the closed set accepted by the reward ledger.
var ValidContributionTypes = map[ContributionType]bool{
	ContributionIssueReported:  true,
	ContributionIssueConfirmed: true,
	ContributionComment:        true,
	ContributionDataSubmitted:  true,
	ContributionAccountCreated: true,
	ContributionAIAnalysis:     true,
	ContributionBadgeUnlocked:  true,
	ContributionStreakBonus:    true,
	ContributionIssueResolved:  true,
}

// Contribution is an append-only ledger entry: one row per rewarded action.
// Rows are never updated or deleted; the sum of a user's rows is the source
// of truth for their point total.
type Contribution struct {
	ID          string           `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string           `gorm:"index;not null" json:"user_id"`
	Type        ContributionType `gorm:"type:varchar(32);not null;index" json:"type"`
	Points      int64            `gorm:"not null" json:"points"`
	Description string           `gorm:"type:text" json:"description"`
	CreatedAt   time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
}
