package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleCitizen     UserRole = "citizen"
	RoleInstitution UserRole = "institution"
	RoleAdmin       UserRole = "admin"
)

// User is the local account record. Identity resolution (token → user id)
// happens at the gateway; this service owns the gamification state.
type User struct {
	ID     string   `gorm:"primaryKey;type:uuid" json:"id"`
	Name   string   `gorm:"not null" json:"name"`
	Email  string   `gorm:"uniqueIndex;not null" json:"email"`
	Avatar string   `gorm:"type:text" json:"avatar"`
	Role   UserRole `gorm:"type:varchar(16);default:'citizen'" json:"role"`

	// Gamification state. Points is a cache over the contribution ledger;
	// the ledger audit worker rewrites it when the two diverge.
	Points        int64      `gorm:"default:0" json:"points"`
	Level         int        `gorm:"default:1" json:"level"`
	CurrentStreak int        `gorm:"default:0" json:"current_streak"`
	LongestStreak int        `gorm:"default:0" json:"longest_streak"`
	LastActiveAt  *time.Time `json:"last_active_at,omitempty"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
