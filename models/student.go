package models

import (
	"time"

	"gorm.io/gorm"
)

// Student is the central account record, keyed by the externally assigned
// CI (national id string). The point balance is only ever mutated through
// the ledger service; everything else is plain profile data.
type Student struct {
	CI   string `gorm:"primaryKey" json:"ci"`
	Name string `gorm:"not null" json:"name"`

	Points          int  `gorm:"not null;default:0" json:"points"`
	ProfileComplete bool `gorm:"default:false" json:"profile_complete"`

	// Free-form profile attributes (completing them earns a one-time bonus)
	FavoriteMovie  string `json:"favorite_movie"`
	FavoriteHobby  string `json:"favorite_hobby"`
	FavoriteTeam   string `json:"favorite_team"`
	FavoriteMusic  string `json:"favorite_music"`
	FavoriteGame   string `json:"favorite_game"`
	AdditionalInfo string `json:"additional_info"`

	// Activity counters consumed by badge criteria
	TriviaWins       int `gorm:"default:0" json:"trivia_wins"`
	TriviasCompleted int `gorm:"default:0" json:"trivias_completed"`
	IslandRounds     int `gorm:"default:0" json:"island_rounds"`

	Badges []StudentBadge `gorm:"foreignKey:StudentCI;references:CI" json:"badges,omitempty"`

	Timestamps
}

// StudentBadge is an unlocked badge instance. Written once on first unlock,
// never revoked; the composite unique index is what makes unlocks idempotent.
type StudentBadge struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	StudentCI  string    `gorm:"not null;uniqueIndex:idx_student_badge" json:"student_ci"`
	BadgeID    string    `gorm:"not null;uniqueIndex:idx_student_badge" json:"badge_id"`
	UnlockedAt time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
