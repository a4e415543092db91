package models

import "time"

// Product is a store item. Non-unlockable products are bought outright at
// full price; unlockable ones are funded by donations from any number of
// students until AccumulatedPoints reaches Price, at which point the product
// is unlocked for everyone (global state, not per-student).
type Product struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Price       int    `gorm:"not null" json:"price"`
	Description string `json:"description"`

	Unlockable bool `gorm:"default:false" json:"unlockable"`
	Repeatable bool `gorm:"not null" json:"repeatable"`

	// Donation total so far; never exceeds Price. Incremented atomically,
	// two simultaneous donations must both land.
	AccumulatedPoints int `gorm:"default:0" json:"accumulated_points"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Unlocked reports whether a donation-funded product has met its threshold.
func (p *Product) Unlocked() bool {
	return p.Unlockable && p.AccumulatedPoints >= p.Price
}

// Remaining is how many donated points the product still needs.
func (p *Product) Remaining() int {
	if r := p.Price - p.AccumulatedPoints; r > 0 {
		return r
	}
	return 0
}
