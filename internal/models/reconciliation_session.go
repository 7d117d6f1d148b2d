package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SessionStatus string

const (
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
)

// CanTransitionTo reports whether a session may move to the given status.
// completed is terminal; there is no reopen transition.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	return s == StatusInProgress && next == StatusCompleted
}

// ReconciliationSession is one reconciliation attempt for an account over
// a date range. BankBalance is the operator-entered statement balance and
// is never derived; BookBalance is recomputed from the ledger unless
// adjustment entries exist for the account, in which case it is preserved.
type ReconciliationSession struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID   uuid.UUID       `gorm:"type:uuid;index" json:"account_id"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	BankBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"bank_balance"`
	BookBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"book_balance"`
	Status      SessionStatus   `gorm:"index" json:"status"`
	Notes       string          `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
