package services

import (
	"testing"

	"student-rewards-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDeltaEarnAndSpend(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	seedStudent(t, db, "100", 0)

	balance, movement, err := ledger.ApplyDelta("100", 120, true, models.MovementTypeManual, nil)
	require.NoError(t, err)
	assert.Equal(t, 120, balance)
	assert.True(t, movement.Earned)
	assert.Equal(t, 120, movement.Points)

	balance, movement, err = ledger.ApplyDelta("100", 50, false, models.MovementTypePurchase, nil)
	require.NoError(t, err)
	assert.Equal(t, 70, balance)
	assert.False(t, movement.Earned)

	var student models.Student
	require.NoError(t, db.First(&student, "ci = ?", "100").Error)
	assert.Equal(t, 70, student.Points)
}

func TestApplyDeltaInsufficientPointsWritesNothing(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	seedStudent(t, db, "100", 0)
	seedBalance(t, ledger, "100", 30)

	_, _, err := ledger.ApplyDelta("100", 31, false, models.MovementTypePurchase, nil)
	require.ErrorIs(t, err, ErrInsufficientPoints)

	var student models.Student
	require.NoError(t, db.First(&student, "ci = ?", "100").Error)
	assert.Equal(t, 30, student.Points, "balance must be untouched after a rejected spend")

	var count int64
	require.NoError(t, db.Model(&models.Movement{}).Where("student_ci = ? AND earned = ?", "100", false).Count(&count).Error)
	assert.Zero(t, count, "a rejected spend must not leave a movement behind")
}

func TestApplyDeltaSpendToExactlyZero(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	seedStudent(t, db, "100", 0)
	seedBalance(t, ledger, "100", 30)

	balance, _, err := ledger.ApplyDelta("100", 30, false, models.MovementTypePurchase, nil)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestApplyDeltaUnknownStudent(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)

	_, _, err := ledger.ApplyDelta("missing", 10, true, models.MovementTypeManual, nil)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestApplyDeltaNegativeAmount(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	seedStudent(t, db, "100", 0)

	_, _, err := ledger.ApplyDelta("100", -5, true, models.MovementTypeManual, nil)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestMovementsForNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	seedStudent(t, db, "100", 0)

	_, _, err := ledger.ApplyDelta("100", 10, true, models.MovementTypeTrivia, nil)
	require.NoError(t, err)
	_, _, err = ledger.ApplyDelta("100", 5, false, models.MovementTypePurchase, nil)
	require.NoError(t, err)

	movements, err := ledger.MovementsFor("100")
	require.NoError(t, err)
	require.Len(t, movements, 2)
}

func TestReconcileConsistent(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	seedStudent(t, db, "100", 0)
	seedBalance(t, ledger, "100", 200)

	_, _, err := ledger.ApplyDelta("100", 80, false, models.MovementTypeDonation, nil)
	require.NoError(t, err)

	report, err := ledger.Reconcile("100")
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Equal(t, 120, report.Balance)
	assert.Equal(t, 120, report.LedgerBalance)
}

func TestReconcileDetectsDrift(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	seedStudent(t, db, "100", 0)
	seedBalance(t, ledger, "100", 100)

	// Simulate a write that bypassed the ledger.
	require.NoError(t, db.Model(&models.Student{}).Where("ci = ?", "100").Update("points", 999).Error)

	report, err := ledger.Reconcile("100")
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	assert.Equal(t, 999, report.Balance)
	assert.Equal(t, 100, report.LedgerBalance)
}
