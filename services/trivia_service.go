package services

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"student-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTriviaNotFound        = errors.New("trivia not found")
	ErrTriviaInactive        = errors.New("trivia is not active")
	ErrTriviaAlreadyAnswered = errors.New("trivia already answered")
	ErrTriviaExists          = errors.New("a trivia already exists for that date")
	ErrNoAttempt             = errors.New("no trivia attempt in progress")
	ErrAttemptInProgress     = errors.New("trivia attempt already in progress")
	ErrInvalidOption         = errors.New("answer option out of range")
	ErrBadQuestionSet        = errors.New("trivia needs 1-3 questions with exactly 4 options each")
)

// triviaAttempt is the server-held InProgress state of one student working
// through one trivia. It lives in memory only; the durable record is the
// TriviaResponse written on finish.
type triviaAttempt struct {
	index   int
	answers []int
	score   int
}

// TriviaService steps students through daily quizzes and finalizes the score
// into the ledger exactly once per trivia per student.
type TriviaService struct {
	DB     *gorm.DB
	Ledger *LedgerService
	Badges *BadgeService

	mu       sync.Mutex
	attempts map[string]*triviaAttempt
}

func NewTriviaService(db *gorm.DB, ledger *LedgerService, badges *BadgeService) *TriviaService {
	return &TriviaService{
		DB:       db,
		Ledger:   ledger,
		Badges:   badges,
		attempts: make(map[string]*triviaAttempt),
	}
}

func attemptKey(ci, triviaID string) string {
	return ci + "/" + triviaID
}

// QuestionView is a question as shown to the student: no correct index.
type QuestionView struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// AttemptState reports where an attempt stands after Start or Answer.
type AttemptState struct {
	TriviaID      string        `json:"trivia_id"`
	QuestionIndex int           `json:"question_index"`
	QuestionCount int           `json:"question_count"`
	Question      *QuestionView `json:"question,omitempty"`
	Finished      bool          `json:"finished"`
	Score         int           `json:"score,omitempty"`
	PointsAwarded int           `json:"points_awarded,omitempty"`
	NewBalance    int           `json:"new_balance,omitempty"`
}

// Start opens an attempt on an active, not-yet-answered trivia and returns
// the first question. Answered trivias are terminal: no retakes, ever.
func (s *TriviaService) Start(ci, triviaID string) (*AttemptState, error) {
	var trivia models.Trivia
	if err := s.DB.First(&trivia, "id = ?", triviaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTriviaNotFound
		}
		return nil, err
	}
	if !trivia.Active {
		return nil, ErrTriviaInactive
	}

	answered, err := s.hasResponse(ci, triviaID)
	if err != nil {
		return nil, err
	}
	if answered {
		return nil, ErrTriviaAlreadyAnswered
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := attemptKey(ci, triviaID)
	if _, open := s.attempts[key]; open {
		return nil, ErrAttemptInProgress
	}
	s.attempts[key] = &triviaAttempt{}

	return &AttemptState{
		TriviaID:      triviaID,
		QuestionIndex: 0,
		QuestionCount: len(trivia.Questions),
		Question:      questionView(trivia.Questions[0]),
	}, nil
}

// Answer records the chosen option for the current question and advances.
// There is no going back. Answering the last question finalizes the attempt:
// the response record and the earned movement are written in one transaction,
// then automatic badges are re-evaluated.
func (s *TriviaService) Answer(ci, triviaID string, option int) (*AttemptState, error) {
	var trivia models.Trivia
	if err := s.DB.First(&trivia, "id = ?", triviaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTriviaNotFound
		}
		return nil, err
	}
	if option < 0 || option >= models.TriviaOptionCount {
		return nil, ErrInvalidOption
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := attemptKey(ci, triviaID)
	attempt, open := s.attempts[key]
	if !open {
		return nil, ErrNoAttempt
	}

	// A retry after a failed finish arrives with every question already
	// answered; it must not record or score again, only re-run the submit.
	if attempt.index < len(trivia.Questions) {
		question := trivia.Questions[attempt.index]
		attempt.answers = append(attempt.answers, option)
		if option == question.CorrectIndex {
			attempt.score++
		}
		attempt.index++

		if attempt.index < len(trivia.Questions) {
			return &AttemptState{
				TriviaID:      triviaID,
				QuestionIndex: attempt.index,
				QuestionCount: len(trivia.Questions),
				Question:      questionView(trivia.Questions[attempt.index]),
			}, nil
		}
	}

	state, err := s.finish(ci, &trivia, attempt)
	if err != nil {
		// The attempt stays open so the student can retry the submit after a
		// transient store failure; an already-answered conflict is terminal.
		if errors.Is(err, ErrTriviaAlreadyAnswered) {
			delete(s.attempts, key)
		}
		return nil, err
	}
	delete(s.attempts, key)

	if _, err := s.Badges.EvaluateAndUnlock(ci); err != nil {
		log.Printf("⚠️  Badge evaluation after trivia %s failed for %s: %v", triviaID, ci, err)
	}
	return state, nil
}

// finish writes the once-only response record, bumps the activity counters
// and applies the score to the ledger, all in one transaction. A zero score
// still produces a zero-point earned movement for audit completeness.
func (s *TriviaService) finish(ci string, trivia *models.Trivia, attempt *triviaAttempt) (*AttemptState, error) {
	var newBalance int
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.TriviaResponse{}).
			Where("student_ci = ? AND trivia_id = ?", ci, trivia.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrTriviaAlreadyAnswered
		}

		if err := tx.Create(&models.TriviaResponse{
			ID:        uuid.NewString(),
			StudentCI: ci,
			TriviaID:  trivia.ID,
			Answers:   models.IntList(attempt.answers),
			Score:     attempt.score,
		}).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"trivias_completed": gorm.Expr("trivias_completed + 1"),
		}
		if attempt.score == len(trivia.Questions) {
			// Perfect score counts as a trivia win
			updates["trivia_wins"] = gorm.Expr("trivia_wins + 1")
		}
		if err := tx.Model(&models.Student{}).Where("ci = ?", ci).Updates(updates).Error; err != nil {
			return err
		}

		var err error
		newBalance, _, err = s.Ledger.ApplyDeltaTx(tx, ci, attempt.score, true, models.MovementTypeTrivia, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🧠 Trivia %s finished by %s: score %d/%d", trivia.ID, ci, attempt.score, len(trivia.Questions))
	return &AttemptState{
		TriviaID:      trivia.ID,
		QuestionIndex: len(trivia.Questions),
		QuestionCount: len(trivia.Questions),
		Finished:      true,
		Score:         attempt.score,
		PointsAwarded: attempt.score,
		NewBalance:    newBalance,
	}, nil
}

func (s *TriviaService) hasResponse(ci, triviaID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.TriviaResponse{}).
		Where("student_ci = ? AND trivia_id = ?", ci, triviaID).
		Count(&count).Error
	return count > 0, err
}

func questionView(q models.Question) *QuestionView {
	return &QuestionView{Prompt: q.Prompt, Options: q.Options}
}

// ActiveTrivias lists trivias currently open for play.
func (s *TriviaService) ActiveTrivias() ([]models.Trivia, error) {
	var trivias []models.Trivia
	err := s.DB.Where("active = ?", true).Order("date DESC").Find(&trivias).Error
	return trivias, err
}

// AllTrivias lists every trivia, for administration.
func (s *TriviaService) AllTrivias() ([]models.Trivia, error) {
	var trivias []models.Trivia
	err := s.DB.Order("date DESC").Find(&trivias).Error
	return trivias, err
}

// CompletedIDs returns the trivia ids a student has already answered.
func (s *TriviaService) CompletedIDs(ci string) ([]string, error) {
	var responses []models.TriviaResponse
	if err := s.DB.Where("student_ci = ?", ci).Find(&responses).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(responses))
	for _, r := range responses {
		ids = append(ids, r.TriviaID)
	}
	return ids, nil
}

// CreateTrivia validates and stores a new daily trivia. The id is derived
// from the date, so there is at most one per day.
func (s *TriviaService) CreateTrivia(title string, date time.Time, questions []models.Question) (*models.Trivia, error) {
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	trivia := &models.Trivia{
		ID:        models.TriviaID(date),
		Title:     title,
		Date:      date,
		Questions: models.QuestionList(questions),
	}

	var count int64
	if err := s.DB.Model(&models.Trivia{}).Where("id = ?", trivia.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrTriviaExists
	}
	if err := s.DB.Create(trivia).Error; err != nil {
		return nil, err
	}
	return trivia, nil
}

// SetActive flips a trivia's active flag.
func (s *TriviaService) SetActive(triviaID string, active bool) error {
	res := s.DB.Model(&models.Trivia{}).Where("id = ?", triviaID).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTriviaNotFound
	}
	return nil
}

// DeleteTrivia removes a trivia definition. Response records stay: the
// movement history referencing them is immutable.
func (s *TriviaService) DeleteTrivia(triviaID string) error {
	res := s.DB.Delete(&models.Trivia{}, "id = ?", triviaID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTriviaNotFound
	}
	return nil
}

func validateQuestions(questions []models.Question) error {
	if len(questions) == 0 || len(questions) > models.TriviaMaxQuestions {
		return ErrBadQuestionSet
	}
	for i, q := range questions {
		if q.Prompt == "" || len(q.Options) != models.TriviaOptionCount {
			return ErrBadQuestionSet
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= models.TriviaOptionCount {
			return fmt.Errorf("question %d: %w", i+1, ErrInvalidOption)
		}
	}
	return nil
}
