package repository

import (
	"errors"

	"ledger-reconciliation-backend/internal/apperr"
	"ledger-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LinkStore is the narrow contract for transaction/session link rows.
type LinkStore interface {
	Upsert(link *models.ReconciliationLink) error
	Find(transactionID, sessionID uuid.UUID) (*models.ReconciliationLink, error)
	Delete(transactionID, sessionID uuid.UUID) error
	DeleteBySession(sessionID uuid.UUID) error
	ListBySession(sessionID uuid.UUID) ([]models.ReconciliationLink, error)
}

type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Upsert inserts or replaces the link row for a (transaction, session)
// pair, keyed on the unique pair index.
func (r *LinkRepository) Upsert(link *models.ReconciliationLink) error {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "transaction_id"}, {Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_reconciled", "reconciled_at", "details",
		}),
	}).Create(link).Error
	if err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}

// Find returns the link row for a (transaction, session) pair, or nil
// when no such row exists.
func (r *LinkRepository) Find(transactionID, sessionID uuid.UUID) (*models.ReconciliationLink, error) {
	var link models.ReconciliationLink
	err := r.db.
		Where("transaction_id = ? AND session_id = ?", transactionID, sessionID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Unavailable(err)
	}
	return &link, nil
}

func (r *LinkRepository) Delete(transactionID, sessionID uuid.UUID) error {
	err := r.db.
		Delete(&models.ReconciliationLink{}, "transaction_id = ? AND session_id = ?", transactionID, sessionID).
		Error
	if err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}

func (r *LinkRepository) DeleteBySession(sessionID uuid.UUID) error {
	if err := r.db.Delete(&models.ReconciliationLink{}, "session_id = ?", sessionID).Error; err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}

func (r *LinkRepository) ListBySession(sessionID uuid.UUID) ([]models.ReconciliationLink, error) {
	var links []models.ReconciliationLink
	err := r.db.
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&links).Error
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return links, nil
}
