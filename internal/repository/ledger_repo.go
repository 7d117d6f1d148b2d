package repository

import (
	"errors"
	"time"

	"ledger-reconciliation-backend/internal/apperr"
	"ledger-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerStore is the narrow read/write contract the engine consumes for
// ledger rows. Store errors are retryable (apperr.ErrDataUnavailable)
// except for plain not-found lookups.
type LedgerStore interface {
	Get(id uuid.UUID) (*models.LedgerTransaction, error)
	ListByAccount(accountID uuid.UUID, from, to time.Time) ([]models.LedgerTransaction, error)
	ListAllByAccount(accountID uuid.UUID) ([]models.LedgerTransaction, error)
	Insert(tx *models.LedgerTransaction) error
	Update(id uuid.UUID, fields map[string]interface{}) error
	Delete(id uuid.UUID) error
	ListAdjustments(accountID uuid.UUID, sessionID uuid.UUID) ([]models.LedgerTransaction, error)
	HasAdjustments(accountID uuid.UUID) (bool, error)
	ClearSessionLinks(sessionID uuid.UUID) error
}

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) DB() *gorm.DB {
	return r.db
}

func (r *LedgerRepository) Get(id uuid.UUID) (*models.LedgerTransaction, error) {
	var tx models.LedgerTransaction
	if err := r.db.First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, apperr.Unavailable(err)
	}
	return &tx, nil
}

func (r *LedgerRepository) ListByAccount(accountID uuid.UUID, from, to time.Time) ([]models.LedgerTransaction, error) {
	var txs []models.LedgerTransaction
	err := r.db.
		Where("account_id = ?", accountID).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, created_at ASC").
		Find(&txs).Error
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return txs, nil
}

func (r *LedgerRepository) ListAllByAccount(accountID uuid.UUID) ([]models.LedgerTransaction, error) {
	var txs []models.LedgerTransaction
	err := r.db.
		Where("account_id = ?", accountID).
		Order("date ASC, created_at ASC").
		Find(&txs).Error
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return txs, nil
}

func (r *LedgerRepository) Insert(tx *models.LedgerTransaction) error {
	if err := r.db.Create(tx).Error; err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}

func (r *LedgerRepository) Update(id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.Model(&models.LedgerTransaction{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return apperr.Unavailable(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LedgerRepository) Delete(id uuid.UUID) error {
	if err := r.db.Delete(&models.LedgerTransaction{}, "id = ?", id).Error; err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}

// ListAdjustments finds adjustment entries for an account, matched by the
// origin tag with a description-marker fallback for rows written before
// the tag existed.
func (r *LedgerRepository) ListAdjustments(accountID uuid.UUID, sessionID uuid.UUID) ([]models.LedgerTransaction, error) {
	var txs []models.LedgerTransaction
	err := r.db.
		Where("account_id = ?", accountID).
		Where("(origin = ? AND origin_session_id = ?) OR (description LIKE ? AND reconciliation_id = ?)",
			models.OriginReconciliationAdjustment, sessionID,
			"%"+models.AdjustmentMarker+"%", sessionID).
		Find(&txs).Error
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return txs, nil
}

func (r *LedgerRepository) HasAdjustments(accountID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.LedgerTransaction{}).
		Where("account_id = ?", accountID).
		Where("origin = ? OR payment_method = ?",
			models.OriginReconciliationAdjustment, models.AdjustmentPaymentMethod).
		Count(&count).Error
	if err != nil {
		return false, apperr.Unavailable(err)
	}
	return count > 0, nil
}

// ClearSessionLinks drops the reconciliation flag and link of every
// transaction pointing at the session.
func (r *LedgerRepository) ClearSessionLinks(sessionID uuid.UUID) error {
	err := r.db.Model(&models.LedgerTransaction{}).
		Where("reconciliation_id = ?", sessionID).
		Updates(map[string]interface{}{
			"is_reconciled":     false,
			"reconciliation_id": nil,
		}).Error
	if err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}
