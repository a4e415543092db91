package services

import (
	"errors"
	"log"

	"student-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductUnlockable = errors.New("unlockable products are funded by donations, not purchased")
	ErrProductNotUnlock  = errors.New("product does not accept donations")
	ErrProductUnlocked   = errors.New("product is already unlocked")
	ErrAlreadyPurchased  = errors.New("product already purchased")
	ErrInvalidDonation   = errors.New("donation amount out of range")
	ErrInvalidPrice      = errors.New("price must be positive")
)

// StoreService runs the two spend flows: full-price purchases and partial
// donations toward a shared unlock threshold. Both terminate in a ledger
// movement; nothing here touches a balance directly.
type StoreService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewStoreService(db *gorm.DB, ledger *LedgerService) *StoreService {
	return &StoreService{DB: db, Ledger: ledger}
}

// PurchaseResult is what the student sees after a successful checkout.
type PurchaseResult struct {
	Product    *models.Product  `json:"product"`
	Movement   *models.Movement `json:"movement"`
	NewBalance int              `json:"new_balance"`
}

// Purchase debits the full price of a non-unlockable product. Insufficient
// balance rejects before any write; non-repeatable products can be bought
// once per student, checked against the movement log.
func (s *StoreService) Purchase(ci, productID string) (*PurchaseResult, error) {
	var result PurchaseResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if product.Unlockable {
			return ErrProductUnlockable
		}

		if !product.Repeatable {
			bought, err := s.Ledger.HasPurchase(tx, ci, productID)
			if err != nil {
				return err
			}
			if bought {
				return ErrAlreadyPurchased
			}
		}

		newBalance, movement, err := s.Ledger.ApplyDeltaTx(tx, ci, product.Price, false, models.MovementTypePurchase, &product.ID)
		if err != nil {
			return err
		}

		result = PurchaseResult{Product: &product, Movement: movement, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🛒 Purchase: %s bought %s for %d", ci, result.Product.Name, result.Product.Price)
	return &result, nil
}

// DonationResult reports the state of the shared pool after a donation.
type DonationResult struct {
	Product    *models.Product  `json:"product"`
	Movement   *models.Movement `json:"movement"`
	NewBalance int              `json:"new_balance"`
	Unlocked   bool             `json:"unlocked"`
}

// Donate moves amount points from the student into a product's shared pool.
// The pool increment is a guarded atomic update: two simultaneous donations
// both land, and the pool can never overshoot the price. Once the pool
// reaches the price the product is unlocked for every student and further
// donations are rejected.
func (s *StoreService) Donate(ci, productID string, amount int) (*DonationResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidDonation
	}

	var result DonationResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if !product.Unlockable {
			return ErrProductNotUnlock
		}
		if product.Unlocked() {
			return ErrProductUnlocked
		}
		if amount > product.Remaining() {
			return ErrInvalidDonation
		}

		newBalance, movement, err := s.Ledger.ApplyDeltaTx(tx, ci, amount, false, models.MovementTypeDonation, &product.ID)
		if err != nil {
			return err
		}

		// Guard re-checked in the UPDATE itself: a concurrent donation that
		// already filled the pool makes this match zero rows and the whole
		// transaction (including the spend above) rolls back.
		res := tx.Model(&models.Product{}).
			Where("id = ? AND accumulated_points + ? <= price", productID, amount).
			Update("accumulated_points", gorm.Expr("accumulated_points + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidDonation
		}

		var updated models.Product
		if err := tx.First(&updated, "id = ?", productID).Error; err != nil {
			return err
		}

		result = DonationResult{
			Product:    &updated,
			Movement:   movement,
			NewBalance: newBalance,
			Unlocked:   updated.Unlocked(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Unlocked {
		log.Printf("🔓 Product unlocked for everyone: %s", result.Product.Name)
	}
	return &result, nil
}

// Products lists the catalog, unlockables separated from regular items the
// way the store screen presents them.
func (s *StoreService) Products() (normal, unlockable []models.Product, err error) {
	var all []models.Product
	if err = s.DB.Order("created_at ASC").Find(&all).Error; err != nil {
		return nil, nil, err
	}
	for _, p := range all {
		if p.Unlockable {
			unlockable = append(unlockable, p)
		} else {
			normal = append(normal, p)
		}
	}
	return normal, unlockable, nil
}

// CreateProduct validates and stores a catalog item.
func (s *StoreService) CreateProduct(product *models.Product) error {
	if product.Price <= 0 {
		return ErrInvalidPrice
	}
	product.ID = uuid.NewString()
	product.AccumulatedPoints = 0
	return s.DB.Create(product).Error
}

// UpdateProduct replaces the descriptive fields. The accumulated pool is
// never edited by hand; it only moves through Donate.
func (s *StoreService) UpdateProduct(id string, product *models.Product) error {
	if product.Price <= 0 {
		return ErrInvalidPrice
	}
	var existing models.Product
	if err := s.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	existing.Name = product.Name
	existing.Price = product.Price
	existing.Description = product.Description
	existing.Unlockable = product.Unlockable
	existing.Repeatable = product.Repeatable
	return s.DB.Save(&existing).Error
}

// DeleteProduct removes a catalog item.
func (s *StoreService) DeleteProduct(id string) error {
	res := s.DB.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
