package services

import (
	"errors"
	"log"

	"student-rewards-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var (
	ErrBadgeNotFound      = errors.New("badge not found")
	ErrBadgeAlreadyOwned  = errors.New("badge already unlocked")
	ErrBadgeNotCustom     = errors.New("badge is not custom-unlockable")
	ErrBadgeCriteriaShape = errors.New("badge must be either automatic (criteria) or custom, not both")
	ErrBadgeNameTaken     = errors.New("badge name already in use")
)

// Level tags derived from total points. Thresholds follow the same shape as
// a rank table: highest tier whose floor is met wins.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

var levelThresholds = []struct {
	Tag   string
	Floor int
}{
	{LevelAdvanced, 1500},
	{LevelIntermediate, 500},
	{LevelBeginner, 0},
}

// LevelFor maps a point total to its level tag.
func LevelFor(points int) string {
	for _, lt := range levelThresholds {
		if points >= lt.Floor {
			return lt.Tag
		}
	}
	return LevelBeginner
}

// StudentStats is the snapshot the evaluator runs predicates against.
type StudentStats struct {
	TotalPoints  int
	TriviaWins   int
	IslandRounds int
	Level        string
}

// StatsFor builds the evaluator snapshot from a student record.
func StatsFor(student *models.Student) StudentStats {
	return StudentStats{
		TotalPoints:  student.Points,
		TriviaWins:   student.TriviaWins,
		IslandRounds: student.IslandRounds,
		Level:        LevelFor(student.Points),
	}
}

type BadgeService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewBadgeService(db *gorm.DB, ledger *LedgerService) *BadgeService {
	return &BadgeService{DB: db, Ledger: ledger}
}

// Evaluate returns the automatic badges from catalog that newly qualify for
// stats, skipping custom badges and anything in alreadyUnlocked. A badge with
// no criteria never auto-qualifies.
func Evaluate(stats StudentStats, catalog []models.Badge, alreadyUnlocked map[string]bool) []models.Badge {
	var qualifying []models.Badge
	for _, badge := range catalog {
		if badge.Custom || alreadyUnlocked[badge.ID] || len(badge.Criteria) == 0 {
			continue
		}
		if meetsCriteria(stats, badge.Criteria) {
			qualifying = append(qualifying, badge)
		}
	}
	return qualifying
}

func meetsCriteria(stats StudentStats, criteria models.Criteria) bool {
	for _, crit := range criteria {
		switch crit.Kind {
		case models.CriterionTotalPoints:
			if stats.TotalPoints < crit.Threshold {
				return false
			}
		case models.CriterionTriviaWins:
			if stats.TriviaWins < crit.Threshold {
				return false
			}
		case models.CriterionIslandRounds:
			if stats.IslandRounds < crit.Threshold {
				return false
			}
		case models.CriterionLevel:
			if stats.Level != crit.Level {
				return false
			}
		default:
			// Unknown kinds are rejected at write time; if one slips
			// through it must never count as satisfied.
			return false
		}
	}
	return true
}

// EvaluateAndUnlock re-checks automatic badge criteria for a student and
// applies every newly qualifying unlock: mark-unlocked row plus point award
// in one transaction each. Safe to call on every stat change or page load;
// the already-unlocked set makes a second pass a no-op.
func (s *BadgeService) EvaluateAndUnlock(ci string) ([]models.Badge, error) {
	var student models.Student
	if err := s.DB.First(&student, "ci = ?", ci).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	var catalog []models.Badge
	if err := s.DB.Find(&catalog).Error; err != nil {
		return nil, err
	}

	unlocked, err := s.unlockedSet(s.DB, ci)
	if err != nil {
		return nil, err
	}

	var awarded []models.Badge
	for _, badge := range Evaluate(StatsFor(&student), catalog, unlocked) {
		if err := s.unlock(ci, badge); err != nil {
			if errors.Is(err, ErrBadgeAlreadyOwned) {
				continue // raced with another session, already applied
			}
			return awarded, err
		}
		awarded = append(awarded, badge)
	}
	return awarded, nil
}

// UnlockCustom applies a user-triggered unlock of a custom badge. No criteria
// check; the sole precondition is "not already unlocked".
func (s *BadgeService) UnlockCustom(ci, badgeID string) (*models.Badge, error) {
	var badge models.Badge
	if err := s.DB.First(&badge, "id = ?", badgeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadgeNotFound
		}
		return nil, err
	}
	if !badge.Custom {
		return nil, ErrBadgeNotCustom
	}
	if err := s.unlock(ci, badge); err != nil {
		return nil, err
	}
	return &badge, nil
}

// unlock writes the mark-unlocked row and the point award atomically. The
// row goes in first so a duplicate attempt aborts before any points move.
func (s *BadgeService) unlock(ci string, badge models.Badge) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.StudentBadge{}).
			Where("student_ci = ? AND badge_id = ?", ci, badge.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrBadgeAlreadyOwned
		}

		if err := tx.Create(&models.StudentBadge{
			ID:        uuid.NewString(),
			StudentCI: ci,
			BadgeID:   badge.ID,
		}).Error; err != nil {
			return err
		}

		if badge.Points > 0 {
			if _, _, err := s.Ledger.ApplyDeltaTx(tx, ci, badge.Points, true, models.MovementTypeBadge, nil); err != nil {
				return err
			}
		}

		log.Printf("🎖️ Badge unlocked: %s → %s (+%d)", badge.ID, ci, badge.Points)
		return nil
	})
}

func (s *BadgeService) unlockedSet(db *gorm.DB, ci string) (map[string]bool, error) {
	var rows []models.StudentBadge
	if err := db.Where("student_ci = ?", ci).Find(&rows).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(rows))
	for _, r := range rows {
		set[r.BadgeID] = true
	}
	return set, nil
}

// UnlockedFor returns a student's unlocked badge rows.
func (s *BadgeService) UnlockedFor(ci string) ([]models.StudentBadge, error) {
	var rows []models.StudentBadge
	err := s.DB.Where("student_ci = ?", ci).Order("unlocked_at DESC").Find(&rows).Error
	return rows, err
}

// Catalog returns all badge definitions.
func (s *BadgeService) Catalog() ([]models.Badge, error) {
	var badges []models.Badge
	err := s.DB.Order("created_at ASC").Find(&badges).Error
	return badges, err
}

// CreateBadge stores a new definition. The id is a slug of the name; the
// automatic/custom exclusivity invariant is enforced here.
func (s *BadgeService) CreateBadge(badge *models.Badge) error {
	if badge.Custom && len(badge.Criteria) > 0 {
		return ErrBadgeCriteriaShape
	}
	badge.ID = slug.Make(badge.Name)

	var count int64
	if err := s.DB.Model(&models.Badge{}).Where("id = ?", badge.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrBadgeNameTaken
	}
	return s.DB.Create(badge).Error
}

// UpdateBadge replaces the mutable fields of an existing definition.
func (s *BadgeService) UpdateBadge(id string, badge *models.Badge) error {
	if badge.Custom && len(badge.Criteria) > 0 {
		return ErrBadgeCriteriaShape
	}
	var existing models.Badge
	if err := s.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBadgeNotFound
		}
		return err
	}
	existing.Name = badge.Name
	existing.Description = badge.Description
	existing.Icon = badge.Icon
	existing.Points = badge.Points
	existing.Criteria = badge.Criteria
	existing.Custom = badge.Custom
	return s.DB.Save(&existing).Error
}

// DeleteBadge removes a definition. Per-student unlock state is kept; an
// unlock is never revoked.
func (s *BadgeService) DeleteBadge(id string) error {
	res := s.DB.Delete(&models.Badge{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBadgeNotFound
	}
	return nil
}
