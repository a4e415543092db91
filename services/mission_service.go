package services

import (
	"errors"
	"log"

	"student-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMissionNotFound  = errors.New("mission not found")
	ErrMissionInactive  = errors.New("mission is not active")
	ErrAlreadySubmitted = errors.New("mission already submitted")
	ErrEmptySubmission  = errors.New("submission needs a file or a link")
)

// MissionService handles weekly hand-ins. The uploaded artifact lives in
// object storage; this service only records its URL and pays out the mission
// points once per student.
type MissionService struct {
	DB     *gorm.DB
	Ledger *LedgerService
	Badges *BadgeService
}

func NewMissionService(db *gorm.DB, ledger *LedgerService, badges *BadgeService) *MissionService {
	return &MissionService{DB: db, Ledger: ledger, Badges: badges}
}

// Active lists the missions students can currently hand in.
func (s *MissionService) Active() ([]models.Mission, error) {
	var missions []models.Mission
	err := s.DB.Where("active = ?", true).Order("created_at ASC").Find(&missions).Error
	return missions, err
}

// All lists every mission, for administration.
func (s *MissionService) All() ([]models.Mission, error) {
	var missions []models.Mission
	err := s.DB.Order("created_at ASC").Find(&missions).Error
	return missions, err
}

// SubmissionsFor returns a student's hand-ins.
func (s *MissionService) SubmissionsFor(ci string) ([]models.MissionSubmission, error) {
	var subs []models.MissionSubmission
	err := s.DB.Where("student_ci = ?", ci).Find(&subs).Error
	return subs, err
}

// Submit records a hand-in URL and awards the mission points. One submission
// per student per mission; a repeat is rejected before anything is written.
func (s *MissionService) Submit(ci, missionID, url string) (*models.MissionSubmission, error) {
	if url == "" {
		return nil, ErrEmptySubmission
	}

	var submission *models.MissionSubmission
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var mission models.Mission
		if err := tx.First(&mission, "id = ?", missionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMissionNotFound
			}
			return err
		}
		if !mission.Active {
			return ErrMissionInactive
		}

		var count int64
		if err := tx.Model(&models.MissionSubmission{}).
			Where("student_ci = ? AND mission_id = ?", ci, missionID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadySubmitted
		}

		submission = &models.MissionSubmission{
			ID:        uuid.NewString(),
			StudentCI: ci,
			MissionID: missionID,
			URL:       url,
		}
		if err := tx.Create(submission).Error; err != nil {
			return err
		}

		if mission.Points > 0 {
			if _, _, err := s.Ledger.ApplyDeltaTx(tx, ci, mission.Points, true, models.MovementTypeMission, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📬 Mission %s completed by %s", missionID, ci)
	if _, err := s.Badges.EvaluateAndUnlock(ci); err != nil {
		log.Printf("⚠️  Badge evaluation after mission failed for %s: %v", ci, err)
	}
	return submission, nil
}

// CreateMission stores a new mission definition.
func (s *MissionService) CreateMission(mission *models.Mission) error {
	mission.ID = uuid.NewString()
	return s.DB.Create(mission).Error
}

// SetActive flips a mission's availability.
func (s *MissionService) SetActive(id string, active bool) error {
	res := s.DB.Model(&models.Mission{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMissionNotFound
	}
	return nil
}

// DeleteMission removes a mission definition.
func (s *MissionService) DeleteMission(id string) error {
	res := s.DB.Delete(&models.Mission{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMissionNotFound
	}
	return nil
}
