package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is read-only reference data; the reconciliation engine never
// mutates it.
type Category struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string          `gorm:"uniqueIndex" json:"name"`
	Kind      TransactionKind `gorm:"index" json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
}
