package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindIncome      TransactionKind = "income"
	KindExpenditure TransactionKind = "expenditure"
	KindTransferIn  TransactionKind = "transfer_in"
	KindTransferOut TransactionKind = "transfer_out"
)

// TransactionOrigin distinguishes operator-entered rows from rows the
// adjustment engine created. The legacy description marker and payment
// method tag are still written alongside it so marker-based audit
// lookups keep working against older rows.
type TransactionOrigin string

const (
	OriginManual                   TransactionOrigin = "manual"
	OriginReconciliationAdjustment TransactionOrigin = "reconciliation_adjustment"
)

// AdjustmentMarker is appended to the description of every adjustment
// entry, and AdjustmentPaymentMethod is its reserved payment-method tag.
const (
	AdjustmentMarker        = "[Reconciliation Adjustment]"
	AdjustmentPaymentMethod = "reconciliation_adjustment"
)

type LedgerTransaction struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID        uuid.UUID         `gorm:"type:uuid;index" json:"account_id"`
	Amount           decimal.Decimal   `gorm:"type:decimal(20,4)" json:"amount"` // signed: positive=inflow
	Date             time.Time         `gorm:"index" json:"date"`
	Description      string            `json:"description"`
	Kind             TransactionKind   `gorm:"index" json:"kind"`
	CategoryID       *uuid.UUID        `gorm:"type:uuid" json:"category_id"`
	PaymentMethod    string            `json:"payment_method"`
	Origin           TransactionOrigin `gorm:"index;default:manual" json:"origin"`
	OriginSessionID  *uuid.UUID        `gorm:"type:uuid;index" json:"origin_session_id"`
	IsReconciled     bool              `gorm:"index" json:"is_reconciled"`
	ReconciliationID *uuid.UUID        `gorm:"type:uuid;index" json:"reconciliation_id"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// SignedAmount returns the signed ledger amount for a positive magnitude
// of the given kind: inflows are positive, outflows negative.
func SignedAmount(kind TransactionKind, magnitude decimal.Decimal) decimal.Decimal {
	switch kind {
	case KindExpenditure, KindTransferOut:
		return magnitude.Neg()
	default:
		return magnitude
	}
}
