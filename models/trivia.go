package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// Every question has exactly this many answer options.
	TriviaOptionCount = 4
	// A trivia carries between one and three questions.
	TriviaMaxQuestions = 3
)

// Question is a single multiple-choice prompt.
type Question struct {
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// QuestionList is the ordered question sequence, stored as one JSONB column.
type QuestionList []Question

func (q QuestionList) Value() (driver.Value, error) {
	b, err := json.Marshal(q)
	return string(b), err
}

func (q *QuestionList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*q = nil
		return nil
	case []byte:
		return json.Unmarshal(v, q)
	case string:
		return json.Unmarshal([]byte(v), q)
	default:
		return fmt.Errorf("cannot scan %T into QuestionList", value)
	}
}

// Trivia is a fixed-length daily quiz. The id is derived from the date
// (YYYYMMDD) so there is at most one trivia per day.
type Trivia struct {
	ID        string       `gorm:"primaryKey" json:"id"`
	Title     string       `gorm:"not null" json:"title"`
	Date      time.Time    `gorm:"index;not null" json:"date"`
	Active    bool         `gorm:"default:false;index" json:"active"`
	Questions QuestionList `gorm:"type:jsonb" json:"questions"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

// TriviaID formats the canonical id for a trivia date.
func TriviaID(date time.Time) string {
	return date.Format("20060102")
}

// IntList stores a student's chosen option indexes as JSONB.
type IntList []int

func (l IntList) Value() (driver.Value, error) {
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *IntList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into IntList", value)
	}
}

// TriviaResponse is the once-per-student completion record. The composite
// unique index is the retake guard: a second finish for the same trivia can
// never insert a second row.
type TriviaResponse struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	StudentCI string    `gorm:"not null;uniqueIndex:idx_response_student_trivia" json:"student_ci"`
	TriviaID  string    `gorm:"not null;uniqueIndex:idx_response_student_trivia" json:"trivia_id"`
	Answers   IntList   `gorm:"type:jsonb" json:"answers"`
	Score     int       `gorm:"not null" json:"score"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
