package services

import (
	"testing"

	"student-rewards-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMissionStack(t *testing.T) *MissionService {
	t.Helper()
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	return NewMissionService(db, ledger, NewBadgeService(db, ledger))
}

func TestMissionSubmitAwardsOnce(t *testing.T) {
	svc := newMissionStack(t)
	seedStudent(t, svc.DB, "100", 0)

	mission := models.Mission{Name: "Book report", Points: 30, Active: true}
	require.NoError(t, svc.CreateMission(&mission))

	submission, err := svc.Submit("100", mission.ID, "https://drive.example.com/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "100", submission.StudentCI)

	var student models.Student
	require.NoError(t, svc.DB.First(&student, "ci = ?", "100").Error)
	assert.Equal(t, 30, student.Points)

	_, err = svc.Submit("100", mission.ID, "https://drive.example.com/report-v2.pdf")
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	require.NoError(t, svc.DB.First(&student, "ci = ?", "100").Error)
	assert.Equal(t, 30, student.Points, "a rejected resubmit pays nothing")
}

func TestMissionSubmitGuards(t *testing.T) {
	svc := newMissionStack(t)
	seedStudent(t, svc.DB, "100", 0)

	_, err := svc.Submit("100", "missing", "https://example.com")
	assert.ErrorIs(t, err, ErrMissionNotFound)

	mission := models.Mission{Name: "Paused", Points: 10, Active: true}
	require.NoError(t, svc.CreateMission(&mission))
	require.NoError(t, svc.SetActive(mission.ID, false))

	_, err = svc.Submit("100", mission.ID, "https://example.com")
	assert.ErrorIs(t, err, ErrMissionInactive)

	require.NoError(t, svc.SetActive(mission.ID, true))
	_, err = svc.Submit("100", mission.ID, "")
	assert.ErrorIs(t, err, ErrEmptySubmission)
}

func TestMissionActiveListing(t *testing.T) {
	svc := newMissionStack(t)

	active := models.Mission{Name: "Open", Active: true}
	require.NoError(t, svc.CreateMission(&active))
	paused := models.Mission{Name: "Paused", Active: true}
	require.NoError(t, svc.CreateMission(&paused))
	require.NoError(t, svc.SetActive(paused.ID, false))

	missions, err := svc.Active()
	require.NoError(t, err)
	require.Len(t, missions, 1)
	assert.Equal(t, "Open", missions[0].Name)

	all, err := svc.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestZeroPointMissionWritesNoMovement(t *testing.T) {
	svc := newMissionStack(t)
	seedStudent(t, svc.DB, "100", 0)

	mission := models.Mission{Name: "Optional survey", Points: 0, Active: true}
	require.NoError(t, svc.CreateMission(&mission))

	_, err := svc.Submit("100", mission.ID, "https://forms.example.com/1")
	require.NoError(t, err)

	var count int64
	require.NoError(t, svc.DB.Model(&models.Movement{}).Where("student_ci = ?", "100").Count(&count).Error)
	assert.Zero(t, count)
}
