package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CardOption is one of the three choices on a decision card. The stat deltas
// may be negative; a bad call costs the group.
type CardOption struct {
	Text        string `json:"text"`
	Consequence string `json:"consequence"`
	Survival    int    `json:"survival"`
	Ingenuity   int    `json:"ingenuity"`
	Teamwork    int    `json:"teamwork"`
}

// OptionList stores a card's choices as one JSONB column.
type OptionList []CardOption

func (o OptionList) Value() (driver.Value, error) {
	b, err := json.Marshal(o)
	return string(b), err
}

func (o *OptionList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*o = nil
		return nil
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	default:
		return fmt.Errorf("cannot scan %T into OptionList", value)
	}
}

// IslandCard is a situation card in the La Isla survival game.
type IslandCard struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	Situation string     `gorm:"not null" json:"situation"`
	Options   OptionList `gorm:"type:jsonb" json:"options"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
