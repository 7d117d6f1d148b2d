package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ReconciliationLink records that a ledger transaction was matched
// against the bank statement in a given session. Adjustment entries are
// created already linked, with the posting details captured in Details.
type ReconciliationLink struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID uuid.UUID      `gorm:"type:uuid;index:idx_link_tx_session,unique" json:"transaction_id"`
	SessionID     uuid.UUID      `gorm:"type:uuid;index:idx_link_tx_session,unique;index" json:"session_id"`
	IsReconciled  bool           `json:"is_reconciled"`
	ReconciledAt  *time.Time     `json:"reconciled_at"`
	Details       datatypes.JSON `json:"details"`
	CreatedAt     time.Time      `json:"created_at"`
}
