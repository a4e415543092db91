package services

import (
	"testing"

	"student-rewards-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStudentStack(t *testing.T) *StudentService {
	t.Helper()
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	badges := NewBadgeService(db, ledger)
	return NewStudentService(db, ledger, badges)
}

func TestCreateStudent(t *testing.T) {
	svc := newStudentStack(t)

	student, err := svc.Create("100", "Ana")
	require.NoError(t, err)
	assert.Zero(t, student.Points)
	assert.False(t, student.ProfileComplete)

	_, err = svc.Create("100", "Ana Again")
	assert.ErrorIs(t, err, ErrStudentExists)
}

func TestRecreateDeletedStudentRestoresRecord(t *testing.T) {
	svc := newStudentStack(t)
	_, err := svc.Create("100", "Ana")
	require.NoError(t, err)
	seedBalance(t, svc.Ledger, "100", 40)
	require.NoError(t, svc.Delete("100"))

	_, err = svc.Get("100")
	require.ErrorIs(t, err, ErrStudentNotFound)

	student, err := svc.Create("100", "Ana Maria")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", student.Name)
	assert.Equal(t, 40, student.Points, "the restored balance must still match the movement log")

	report, err := svc.Ledger.Reconcile("100")
	require.NoError(t, err)
	assert.True(t, report.Consistent)
}

func TestProfileBonusAwardedOnce(t *testing.T) {
	svc := newStudentStack(t)
	_, err := svc.Create("100", "Ana")
	require.NoError(t, err)

	update := ProfileUpdate{FavoriteMovie: "Coco", FavoriteHobby: "chess"}
	awarded, err := svc.UpdateProfile("100", update)
	require.NoError(t, err)
	assert.True(t, awarded)

	student, err := svc.Get("100")
	require.NoError(t, err)
	assert.Equal(t, ProfilePointsReward, student.Points)
	assert.True(t, student.ProfileComplete)
	assert.Equal(t, "Coco", student.FavoriteMovie)

	// A repeated save refreshes the attributes but never re-awards.
	update.FavoriteMovie = "Up"
	awarded, err = svc.UpdateProfile("100", update)
	require.NoError(t, err)
	assert.False(t, awarded)

	student, err = svc.Get("100")
	require.NoError(t, err)
	assert.Equal(t, ProfilePointsReward, student.Points)
	assert.Equal(t, "Up", student.FavoriteMovie)

	var count int64
	require.NoError(t, svc.DB.Model(&models.Movement{}).
		Where("student_ci = ? AND type = ?", "100", models.MovementTypeProfile).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestProfileUpdateUnknownStudent(t *testing.T) {
	svc := newStudentStack(t)
	_, err := svc.UpdateProfile("missing", ProfileUpdate{})
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestLeaderboard(t *testing.T) {
	svc := newStudentStack(t)
	for _, s := range []struct {
		ci     string
		name   string
		points int
	}{
		{"1", "Ana", 500},
		{"2", "Bruno", 300},
		{"3", "Carla", 800},
		{"4", "Diego", 100},
		{"5", "Elena", 50},
	} {
		_, err := svc.Create(s.ci, s.name)
		require.NoError(t, err)
		seedBalance(t, svc.Ledger, s.ci, s.points)
	}

	top, own, err := svc.Leaderboard("5", 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "Carla", top[0].Name)
	assert.Equal(t, "Ana", top[1].Name)
	assert.Equal(t, "Bruno", top[2].Name)

	require.NotNil(t, own)
	assert.Equal(t, 5, own.Position)
	assert.Equal(t, 50, own.Points)
}

func TestLeaderboardCallerInTop(t *testing.T) {
	svc := newStudentStack(t)
	_, err := svc.Create("1", "Ana")
	require.NoError(t, err)
	seedBalance(t, svc.Ledger, "1", 10)

	top, own, err := svc.Leaderboard("1", 3)
	require.NoError(t, err)
	require.Len(t, top, 1)
	require.NotNil(t, own)
	assert.Equal(t, 1, own.Position)
}
