package services

import (
	"testing"

	"student-rewards-system/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Student{},
		&models.StudentBadge{},
		&models.Movement{},
		&models.Badge{},
		&models.Product{},
		&models.Trivia{},
		&models.TriviaResponse{},
		&models.IslandCard{},
		&models.Mission{},
		&models.MissionSubmission{},
	))
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, ci string, points int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Student{CI: ci, Name: "Student " + ci, Points: points}).Error)
}

// seedBalance gives a student points through the ledger so the movement log
// stays consistent with the balance.
func seedBalance(t *testing.T, ledger *LedgerService, ci string, points int) {
	t.Helper()
	if points == 0 {
		return
	}
	_, _, err := ledger.ApplyDelta(ci, points, true, models.MovementTypeManual, nil)
	require.NoError(t, err)
}
