package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CriterionKind enumerates the supported automatic-unlock predicates.
// Anything outside this set is rejected when a badge is written, so a typo
// in a criteria object fails loudly instead of being silently ignored.
type CriterionKind string

const (
	CriterionTotalPoints  CriterionKind = "total_points"
	CriterionTriviaWins   CriterionKind = "trivia_wins"
	CriterionIslandRounds CriterionKind = "la_isla_rounds"
	CriterionLevel        CriterionKind = "level"
)

// Criterion is one predicate: a stat >= threshold test, except for
// CriterionLevel which is an exact level-tag match.
type Criterion struct {
	Kind      CriterionKind
	Threshold int
	Level     string
}

// Criteria is the full predicate set of an automatic badge. All entries must
// hold for the badge to qualify. The wire/storage form stays compatible with
// the flat criteria objects admins author, e.g. {"total_points": 500} or
// {"level": "beginner"}.
type Criteria []Criterion

func (c Criteria) MarshalJSON() ([]byte, error) {
	obj := make(map[string]interface{}, len(c))
	for _, crit := range c {
		if crit.Kind == CriterionLevel {
			obj[string(crit.Kind)] = crit.Level
		} else {
			obj[string(crit.Kind)] = crit.Threshold
		}
	}
	return json.Marshal(obj)
}

func (c *Criteria) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	parsed := make(Criteria, 0, len(obj))
	for key, raw := range obj {
		switch kind := CriterionKind(key); kind {
		case CriterionTotalPoints, CriterionTriviaWins, CriterionIslandRounds:
			var n int
			if err := json.Unmarshal(raw, &n); err != nil {
				return fmt.Errorf("criteria %q: expected a number: %w", key, err)
			}
			if n < 0 {
				return fmt.Errorf("criteria %q: threshold must not be negative", key)
			}
			parsed = append(parsed, Criterion{Kind: kind, Threshold: n})
		case CriterionLevel:
			var tag string
			if err := json.Unmarshal(raw, &tag); err != nil {
				return fmt.Errorf("criteria %q: expected a level tag: %w", key, err)
			}
			parsed = append(parsed, Criterion{Kind: kind, Level: tag})
		default:
			return fmt.Errorf("unknown criteria key %q", key)
		}
	}
	*c = parsed
	return nil
}

func (c Criteria) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	b, err := json.Marshal(c)
	return string(b), err
}

func (c *Criteria) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into Criteria", value)
	}
}

// Badge is an administrator-authored achievement definition. Exactly one of
// {Criteria, Custom} is meaningful: automatic badges carry a criteria set and
// are unlocked by the evaluator, custom badges carry none and are unlocked by
// an explicit user action.
type Badge struct {
	ID          string    `gorm:"primaryKey" json:"id"` // slug of the name
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Points      int       `gorm:"not null;default:0" json:"points"`
	Criteria    Criteria  `gorm:"type:jsonb" json:"criteria,omitempty"`
	Custom      bool      `gorm:"default:false" json:"custom"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
