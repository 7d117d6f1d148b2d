package repository

import (
	"errors"

	"ledger-reconciliation-backend/internal/apperr"
	"ledger-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionStore is the narrow contract for reconciliation session rows.
type SessionStore interface {
	Get(id uuid.UUID) (*models.ReconciliationSession, error)
	Create(sess *models.ReconciliationSession) error
	Update(id uuid.UUID, fields map[string]interface{}) error
	Delete(id uuid.UUID) error
	ListByAccount(accountID uuid.UUID) ([]models.ReconciliationSession, error)
}

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Get(id uuid.UUID) (*models.ReconciliationSession, error) {
	var sess models.ReconciliationSession
	if err := r.db.First(&sess, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, apperr.Unavailable(err)
	}
	return &sess, nil
}

func (r *SessionRepository) Create(sess *models.ReconciliationSession) error {
	if err := r.db.Create(sess).Error; err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}

func (r *SessionRepository) Update(id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.Model(&models.ReconciliationSession{}).
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

func (r *SessionRepository) Delete(id uuid.UUID) error {
	if err := r.db.Delete(&models.ReconciliationSession{}, "id = ?", id).Error; err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}

func (r *SessionRepository) ListByAccount(accountID uuid.UUID) ([]models.ReconciliationSession, error) {
	var sessions []models.ReconciliationSession
	err := r.db.
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return sessions, nil
}
