package models

import "time"

// Mission is a weekly assignment completed by handing in a file or a link.
type Mission struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Points      int       `gorm:"not null;default:0" json:"points"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// MissionSubmission records a hand-in. One per student per mission; the
// unique index keeps a double submit from awarding twice.
type MissionSubmission struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	StudentCI string    `gorm:"not null;uniqueIndex:idx_submission_student_mission" json:"student_ci"`
	MissionID string    `gorm:"not null;uniqueIndex:idx_submission_student_mission" json:"mission_id"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
