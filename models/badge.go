package models

import (
	"time"
)

// BadgeRequirement is the qualification predicate stored with each badge.
// Exactly one field is expected to be set; zero values mean "not this kind".
type BadgeRequirement struct {
	Issues   int64 `json:"issues,omitempty"`
	Confirms int64 `json:"confirms,omitempty"`
	Comments int64 `json:"comments,omitempty"`
	Points   int64 `json:"points,omitempty"`
}

// Badge: static reward config, created by admins and immutable afterwards.
type Badge struct {
	ID          string           `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string           `gorm:"uniqueIndex;not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Icon        string           `gorm:"type:text" json:"icon"`
	Points      int64            `gorm:"not null;default:0" json:"points"`
	Category    string           `gorm:"type:varchar(32)" json:"category"`
	Requirement BadgeRequirement `gorm:"serializer:json" json:"requirement"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

// UserBadge: awarded instance. Unique on (user, badge) — a badge can be
// unlocked by a user at most once.
type UserBadge struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"not null;uniqueIndex:idx_user_badge" json:"user_id"`
	BadgeID    string    `gorm:"not null;uniqueIndex:idx_user_badge" json:"badge_id"`
	UnlockedAt time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

// DefaultBadges seeds the catalog on first boot (names kept in pt-BR, the
// platform's primary locale).
var DefaultBadges = []Badge{
	{
		Name:        "Primeiro Reporte",
		Description: "Reportou seu primeiro problema ambiental",
		Icon:        "🏅",
		Points:      10,
		Category:    "reporter",
		Requirement: BadgeRequirement{Issues: 1},
	},
	{
		Name:        "Vigilante",
		Description: "Reportou 10 problemas ambientais",
		Icon:        "🔭",
		Points:      50,
		Category:    "reporter",
		Requirement: BadgeRequirement{Issues: 10},
	},
	{
		Name:        "Confirmador",
		Description: "Confirmou 5 reportes de outros cidadãos",
		Icon:        "✅",
		Points:      25,
		Category:    "community",
		Requirement: BadgeRequirement{Confirms: 5},
	},
	{
		Name:        "Comunicador",
		Description: "Escreveu 20 comentários",
		Icon:        "💬",
		Points:      30,
		Category:    "community",
		Requirement: BadgeRequirement{Comments: 20},
	},
	{
		Name:        "Guardião do Ártico",
		Description: "Acumulou 1000 pontos",
		Icon:        "🛡️",
		Points:      100,
		Category:    "milestone",
		Requirement: BadgeRequirement{Points: 1000},
	},
}
