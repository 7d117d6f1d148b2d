package repository

import (
	"errors"

	"ledger-reconciliation-backend/internal/apperr"
	"ledger-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountStore supplies account reference data; the engine reads opening
// balances from it and never mutates balances directly.
type AccountStore interface {
	Get(id uuid.UUID) (*models.Account, error)
	Create(account *models.Account) error
	List() ([]models.Account, error)
}

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Get(id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, apperr.Unavailable(err)
	}
	return &account, nil
}

func (r *AccountRepository) Create(account *models.Account) error {
	if err := r.db.Create(account).Error; err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}

func (r *AccountRepository) List() ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, apperr.Unavailable(err)
	}
	return accounts, nil
}

// CategoryStore is read-only reference data.
type CategoryStore interface {
	Get(id uuid.UUID) (*models.Category, error)
	ListByKind(kind models.TransactionKind) ([]models.Category, error)
}

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Get(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, apperr.Unavailable(err)
	}
	return &category, nil
}

func (r *CategoryRepository) ListByKind(kind models.TransactionKind) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("kind = ?", kind).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperr.Unavailable(err)
	}
	return categories, nil
}
