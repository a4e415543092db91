package services

import (
	"errors"
	"log"

	"student-rewards-system/models"

	"gorm.io/gorm"
)

// ProfilePointsReward is the one-time bonus for completing the profile.
const ProfilePointsReward = 50

var ErrStudentExists = errors.New("student already registered")

type StudentService struct {
	DB     *gorm.DB
	Ledger *LedgerService
	Badges *BadgeService
}

func NewStudentService(db *gorm.DB, ledger *LedgerService, badges *BadgeService) *StudentService {
	return &StudentService{DB: db, Ledger: ledger, Badges: badges}
}

// Get loads a student by CI.
func (s *StudentService) Get(ci string) (*models.Student, error) {
	var student models.Student
	if err := s.DB.Preload("Badges").First(&student, "ci = ?", ci).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &student, nil
}

// List returns all students, for administration.
func (s *StudentService) List() ([]models.Student, error) {
	var students []models.Student
	err := s.DB.Order("name ASC").Find(&students).Error
	return students, err
}

// Create registers a new student with a zero balance. The CI of a
// soft-deleted student is still occupied at the database level, so
// re-registering one restores the original record instead of inserting;
// keeping its balance and movement history intact is what keeps the ledger
// reconcilable across delete cycles.
func (s *StudentService) Create(ci, name string) (*models.Student, error) {
	var existing models.Student
	err := s.DB.Unscoped().First(&existing, "ci = ?", ci).Error
	switch {
	case err == nil:
		if !existing.DeletedAt.Valid {
			return nil, ErrStudentExists
		}
		restore := map[string]interface{}{"deleted_at": nil, "name": name}
		if err := s.DB.Unscoped().Model(&models.Student{}).Where("ci = ?", ci).Updates(restore).Error; err != nil {
			return nil, err
		}
		log.Printf("🧑‍🎓 Restored previously deleted student %s", ci)
		return s.Get(ci)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// free CI, fall through to the insert
	default:
		return nil, err
	}

	student := &models.Student{CI: ci, Name: name}
	if err := s.DB.Create(student).Error; err != nil {
		return nil, err
	}
	return student, nil
}

// Delete soft-deletes a student record.
func (s *StudentService) Delete(ci string) error {
	res := s.DB.Delete(&models.Student{}, "ci = ?", ci)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// ProfileUpdate carries the free-form profile attributes.
type ProfileUpdate struct {
	FavoriteMovie  string `json:"favorite_movie"`
	FavoriteHobby  string `json:"favorite_hobby"`
	FavoriteTeam   string `json:"favorite_team"`
	FavoriteMusic  string `json:"favorite_music"`
	FavoriteGame   string `json:"favorite_game"`
	AdditionalInfo string `json:"additional_info"`
}

// UpdateProfile saves the profile attributes. The first save flips the
// completion flag and awards the bonus; the flag flip is a conditional update
// so a repeated submit can never re-award. Returns whether the bonus was
// granted this time.
func (s *StudentService) UpdateProfile(ci string, update ProfileUpdate) (bool, error) {
	awarded := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := tx.First(&student, "ci = ?", ci).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}

		fields := map[string]interface{}{
			"favorite_movie":  update.FavoriteMovie,
			"favorite_hobby":  update.FavoriteHobby,
			"favorite_team":   update.FavoriteTeam,
			"favorite_music":  update.FavoriteMusic,
			"favorite_game":   update.FavoriteGame,
			"additional_info": update.AdditionalInfo,
		}

		// Flag flip guarded on its current value: zero rows affected means
		// someone (or a double submit) completed the profile first.
		firstSave := map[string]interface{}{"profile_complete": true}
		for k, v := range fields {
			firstSave[k] = v
		}
		res := tx.Model(&models.Student{}).
			Where("ci = ? AND profile_complete = ?", ci, false).
			Updates(firstSave)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// Already complete: just refresh the attributes, no bonus.
			return tx.Model(&models.Student{}).Where("ci = ?", ci).Updates(fields).Error
		}

		if _, _, err := s.Ledger.ApplyDeltaTx(tx, ci, ProfilePointsReward, true, models.MovementTypeProfile, nil); err != nil {
			return err
		}
		awarded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if awarded {
		log.Printf("📝 Profile completed by %s (+%d)", ci, ProfilePointsReward)
		if _, err := s.Badges.EvaluateAndUnlock(ci); err != nil {
			log.Printf("⚠️  Badge evaluation after profile completion failed for %s: %v", ci, err)
		}
	}
	return awarded, nil
}

// LeaderboardEntry is one row of the points ranking.
type LeaderboardEntry struct {
	Position int    `json:"position"`
	CI       string `json:"ci"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
}

// Leaderboard returns the top n students by points plus the caller's own
// position in the full ranking.
func (s *StudentService) Leaderboard(ci string, n int) ([]LeaderboardEntry, *LeaderboardEntry, error) {
	if n < 1 || n > 100 {
		n = 3
	}

	var students []models.Student
	if err := s.DB.Order("points DESC").Find(&students).Error; err != nil {
		return nil, nil, err
	}

	top := make([]LeaderboardEntry, 0, n)
	var own *LeaderboardEntry
	for i, st := range students {
		entry := LeaderboardEntry{Position: i + 1, CI: st.CI, Name: st.Name, Points: st.Points}
		if i < n {
			top = append(top, entry)
		}
		if st.CI == ci {
			e := entry
			own = &e
		}
	}
	return top, own, nil
}
