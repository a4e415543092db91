package models

import "time"

// MovementType tags what produced a ledger entry
type MovementType string

const (
	MovementTypeProfile  MovementType = "profile"
	MovementTypeTrivia   MovementType = "trivia"
	MovementTypeBadge    MovementType = "badge"
	MovementTypeDonation MovementType = "donation"
	MovementTypePurchase MovementType = "purchase"
	MovementTypeMission  MovementType = "mission"
	MovementTypeManual   MovementType = "manual"
)

// Movement is an immutable ledger entry: unsigned magnitude plus an
// earned/spent flag. Appended exactly once per balance change and never
// updated or deleted afterwards.
type Movement struct {
	ID        string       `gorm:"primaryKey;type:uuid" json:"id"`
	StudentCI string       `gorm:"index;not null" json:"student_ci"`
	Points    int          `gorm:"not null" json:"points"`
	Earned    bool         `gorm:"not null" json:"earned"`
	Type      MovementType `gorm:"index" json:"type,omitempty"`
	ProductID *string      `gorm:"index" json:"product_id,omitempty"`
	CreatedAt time.Time    `gorm:"autoCreateTime;index" json:"created_at"`
}
