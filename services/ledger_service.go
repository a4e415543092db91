package services

import (
	"errors"
	"fmt"
	"log"

	"student-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrNegativeAmount     = errors.New("amount must not be negative")
)

// LedgerService is the only sanctioned way to change a student's balance.
// Every balance change and its movement record land in one transaction, so
// the visible balance and the audit trail cannot silently diverge.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// ApplyDelta credits (earned) or debits (!earned) amount points and appends
// the matching movement. Debits that would drive the balance negative are
// rejected before anything is written.
func (s *LedgerService) ApplyDelta(ci string, amount int, earned bool, movType models.MovementType, productID *string) (int, *models.Movement, error) {
	var (
		newBalance int
		movement   *models.Movement
	)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		newBalance, movement, err = s.ApplyDeltaTx(tx, ci, amount, earned, movType, productID)
		return err
	})
	if err != nil {
		return 0, nil, err
	}
	return newBalance, movement, nil
}

// ApplyDeltaTx is ApplyDelta inside a caller-owned transaction, used by the
// trivia, badge and store flows so their own writes commit atomically with
// the ledger entry.
func (s *LedgerService) ApplyDeltaTx(tx *gorm.DB, ci string, amount int, earned bool, movType models.MovementType, productID *string) (int, *models.Movement, error) {
	if amount < 0 {
		return 0, nil, ErrNegativeAmount
	}

	var student models.Student
	if err := tx.First(&student, "ci = ?", ci).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, ErrStudentNotFound
		}
		return 0, nil, err
	}

	// Guarded atomic update: the balance arithmetic happens in the database,
	// and a concurrent spend that would underflow simply matches zero rows.
	update := tx.Model(&models.Student{}).Where("ci = ?", ci)
	if earned {
		update = update.Update("points", gorm.Expr("points + ?", amount))
	} else {
		update = update.Where("points >= ?", amount).
			Update("points", gorm.Expr("points - ?", amount))
	}
	if update.Error != nil {
		return 0, nil, update.Error
	}
	if update.RowsAffected == 0 {
		return 0, nil, ErrInsufficientPoints
	}

	movement := &models.Movement{
		ID:        uuid.NewString(),
		StudentCI: ci,
		Points:    amount,
		Earned:    earned,
		Type:      movType,
		ProductID: productID,
	}
	if err := tx.Create(movement).Error; err != nil {
		return 0, nil, err
	}

	var updated models.Student
	if err := tx.First(&updated, "ci = ?", ci).Error; err != nil {
		return 0, nil, err
	}

	sign := "+"
	if !earned {
		sign = "-"
	}
	log.Printf("💰 Ledger: %s %s%d (%s) → balance=%d", ci, sign, amount, movType, updated.Points)

	return updated.Points, movement, nil
}

// MovementsFor returns a student's full movement history, newest first.
func (s *LedgerService) MovementsFor(ci string) ([]models.Movement, error) {
	var movements []models.Movement
	err := s.DB.Where("student_ci = ?", ci).
		Order("created_at DESC").
		Find(&movements).Error
	return movements, err
}

// ReconcileReport compares a stored balance against the movement log.
type ReconcileReport struct {
	StudentCI     string `json:"student_ci"`
	Balance       int    `json:"balance"`
	LedgerBalance int    `json:"ledger_balance"`
	Consistent    bool   `json:"consistent"`
}

// Reconcile recomputes the balance from the movement log. The two must agree
// at all times; a mismatch means some write bypassed the ledger.
func (s *LedgerService) Reconcile(ci string) (*ReconcileReport, error) {
	var student models.Student
	if err := s.DB.First(&student, "ci = ?", ci).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	var movements []models.Movement
	if err := s.DB.Where("student_ci = ?", ci).Find(&movements).Error; err != nil {
		return nil, err
	}

	ledgerBalance := 0
	for _, m := range movements {
		if m.Earned {
			ledgerBalance += m.Points
		} else {
			ledgerBalance -= m.Points
		}
	}

	report := &ReconcileReport{
		StudentCI:     ci,
		Balance:       student.Points,
		LedgerBalance: ledgerBalance,
		Consistent:    student.Points == ledgerBalance,
	}
	if !report.Consistent {
		log.Printf("⚠️  Ledger drift for %s: balance=%d ledger=%d", ci, student.Points, ledgerBalance)
	}
	return report, nil
}

// HasPurchase reports whether the student already bought the given product.
// Used to enforce the non-repeatable flag.
func (s *LedgerService) HasPurchase(tx *gorm.DB, ci, productID string) (bool, error) {
	var count int64
	err := tx.Model(&models.Movement{}).
		Where("student_ci = ? AND product_id = ? AND type = ?", ci, productID, models.MovementTypePurchase).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("counting purchases: %w", err)
	}
	return count > 0, nil
}
