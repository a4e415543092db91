package services

import (
	"testing"

	"student-rewards-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreStack(t *testing.T) (*StoreService, *LedgerService) {
	t.Helper()
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	return NewStoreService(db, ledger), ledger
}

func TestPurchase(t *testing.T) {
	store, ledger := newStoreStack(t)
	seedStudent(t, store.DB, "100", 0)
	seedBalance(t, ledger, "100", 100)

	product := models.Product{Name: "Stickers", Price: 40, Repeatable: true}
	require.NoError(t, store.CreateProduct(&product))

	result, err := store.Purchase("100", product.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, result.NewBalance)
	assert.Equal(t, models.MovementTypePurchase, result.Movement.Type)
	require.NotNil(t, result.Movement.ProductID)
	assert.Equal(t, product.ID, *result.Movement.ProductID)

	// Repeatable products can be bought again while points last.
	result, err = store.Purchase("100", product.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, result.NewBalance)

	_, err = store.Purchase("100", product.ID)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
}

func TestPurchaseNonRepeatableOnce(t *testing.T) {
	store, ledger := newStoreStack(t)
	seedStudent(t, store.DB, "100", 0)
	seedBalance(t, ledger, "100", 100)

	product := models.Product{Name: "Field Trip Pass", Price: 10, Repeatable: false}
	require.NoError(t, store.CreateProduct(&product))

	_, err := store.Purchase("100", product.ID)
	require.NoError(t, err)

	_, err = store.Purchase("100", product.ID)
	assert.ErrorIs(t, err, ErrAlreadyPurchased)
}

func TestPurchaseUnlockableRejected(t *testing.T) {
	store, ledger := newStoreStack(t)
	seedStudent(t, store.DB, "100", 0)
	seedBalance(t, ledger, "100", 500)

	product := models.Product{Name: "Class Party", Price: 300, Unlockable: true}
	require.NoError(t, store.CreateProduct(&product))

	_, err := store.Purchase("100", product.ID)
	assert.ErrorIs(t, err, ErrProductUnlockable)
}

func TestPurchaseUnknownProduct(t *testing.T) {
	store, _ := newStoreStack(t)
	seedStudent(t, store.DB, "100", 0)

	_, err := store.Purchase("100", "nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDonationAccumulatesAcrossStudents(t *testing.T) {
	store, ledger := newStoreStack(t)
	seedStudent(t, store.DB, "100", 0)
	seedStudent(t, store.DB, "200", 0)
	seedBalance(t, ledger, "100", 100)
	seedBalance(t, ledger, "200", 100)

	product := models.Product{Name: "Class Party", Price: 150, Unlockable: true}
	require.NoError(t, store.CreateProduct(&product))

	result, err := store.Donate("100", product.ID, 80)
	require.NoError(t, err)
	assert.Equal(t, 80, result.Product.AccumulatedPoints)
	assert.False(t, result.Unlocked)
	assert.Equal(t, 20, result.NewBalance)

	result, err = store.Donate("200", product.ID, 70)
	require.NoError(t, err)
	assert.Equal(t, 150, result.Product.AccumulatedPoints)
	assert.True(t, result.Unlocked, "hits the price, unlocks for everyone")

	// The pool is full: further donations are rejected.
	_, err = store.Donate("100", product.ID, 1)
	assert.ErrorIs(t, err, ErrProductUnlocked)
}

func TestDonationCannotOvershootPool(t *testing.T) {
	store, ledger := newStoreStack(t)
	seedStudent(t, store.DB, "100", 0)
	seedBalance(t, ledger, "100", 500)

	product := models.Product{Name: "Class Party", Price: 100, Unlockable: true}
	require.NoError(t, store.CreateProduct(&product))

	_, err := store.Donate("100", product.ID, 101)
	require.ErrorIs(t, err, ErrInvalidDonation)

	// The rejected donation must not have moved any points.
	var student models.Student
	require.NoError(t, store.DB.First(&student, "ci = ?", "100").Error)
	assert.Equal(t, 500, student.Points)

	var fresh models.Product
	require.NoError(t, store.DB.First(&fresh, "id = ?", product.ID).Error)
	assert.Zero(t, fresh.AccumulatedPoints)
}

func TestDonationGuards(t *testing.T) {
	store, ledger := newStoreStack(t)
	seedStudent(t, store.DB, "100", 0)
	seedBalance(t, ledger, "100", 100)

	normal := models.Product{Name: "Stickers", Price: 40}
	require.NoError(t, store.CreateProduct(&normal))
	_, err := store.Donate("100", normal.ID, 10)
	assert.ErrorIs(t, err, ErrProductNotUnlock)

	unlockable := models.Product{Name: "Class Party", Price: 300, Unlockable: true}
	require.NoError(t, store.CreateProduct(&unlockable))

	_, err = store.Donate("100", unlockable.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidDonation)
	_, err = store.Donate("100", unlockable.ID, -5)
	assert.ErrorIs(t, err, ErrInvalidDonation)

	_, err = store.Donate("100", unlockable.ID, 101)
	assert.ErrorIs(t, err, ErrInsufficientPoints, "donation above own balance is rejected")
}

func TestProductsSplit(t *testing.T) {
	store, _ := newStoreStack(t)

	require.NoError(t, store.CreateProduct(&models.Product{Name: "Stickers", Price: 40}))
	require.NoError(t, store.CreateProduct(&models.Product{Name: "Class Party", Price: 300, Unlockable: true}))

	normal, unlockable, err := store.Products()
	require.NoError(t, err)
	require.Len(t, normal, 1)
	require.Len(t, unlockable, 1)
	assert.Equal(t, "Stickers", normal[0].Name)
	assert.Equal(t, "Class Party", unlockable[0].Name)
}

func TestCreateProductValidation(t *testing.T) {
	store, _ := newStoreStack(t)
	err := store.CreateProduct(&models.Product{Name: "Free", Price: 0})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestUpdateProductKeepsPool(t *testing.T) {
	store, ledger := newStoreStack(t)
	seedStudent(t, store.DB, "100", 0)
	seedBalance(t, ledger, "100", 100)

	product := models.Product{Name: "Class Party", Price: 300, Unlockable: true}
	require.NoError(t, store.CreateProduct(&product))
	_, err := store.Donate("100", product.ID, 50)
	require.NoError(t, err)

	require.NoError(t, store.UpdateProduct(product.ID, &models.Product{
		Name: "Bigger Party", Price: 400, Unlockable: true,
	}))

	var fresh models.Product
	require.NoError(t, store.DB.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, "Bigger Party", fresh.Name)
	assert.Equal(t, 50, fresh.AccumulatedPoints, "editing a product never touches the pool")
}
