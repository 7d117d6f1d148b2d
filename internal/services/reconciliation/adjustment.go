package reconciliation

import (
	"encoding/json"
	"time"

	"ledger-reconciliation-backend/internal/apperr"
	"ledger-reconciliation-backend/internal/cache"
	"ledger-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// balancedTolerance is the agreement threshold: a session is balanced
// iff |bank - book| < 0.01.
var balancedTolerance = decimal.NewFromFloat(0.01)

// Difference returns bank_balance - book_balance.
func Difference(sess *models.ReconciliationSession) decimal.Decimal {
	return sess.BankBalance.Sub(sess.BookBalance)
}

func IsBalanced(sess *models.ReconciliationSession) bool {
	return Difference(sess).Abs().LessThan(balancedTolerance)
}

// SuggestAdjustmentKind points the book balance toward the bank balance:
// posting an expenditure raises the recorded book balance in this model
// (book balance is bank-side-equivalent, not cash on hand), posting
// income lowers it.
func SuggestAdjustmentKind(difference decimal.Decimal) models.TransactionKind {
	if difference.GreaterThan(decimal.Zero) {
		return models.KindExpenditure
	}
	return models.KindIncome
}

// PostAdjustment posts a corrective ledger entry and updates the
// session's book balance incrementally from the pre-adjustment value.
// A full resum here would double-count adjustments already folded into
// the preserved book balance, so the incremental formula is load-bearing.
//
// Failure semantics are asymmetric: failures while creating the ledger
// row or its link abort before the session is touched; a failure in the
// book-balance update afterwards leaves the entry in place and returns
// the entry together with apperr.ErrInconsistentBalance.
func (s *Service) PostAdjustment(sessionID uuid.UUID, kind models.TransactionKind, amount decimal.Decimal, categoryID *uuid.UUID, description string, date time.Time) (*models.LedgerTransaction, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, apperr.Validationf("adjustment amount must be positive, got %s", amount)
	}
	if kind != models.KindIncome && kind != models.KindExpenditure {
		return nil, apperr.Validationf("adjustment kind must be income or expenditure, got %s", kind)
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := EnsureMutable(sess); err != nil {
		return nil, err
	}

	sid := sess.ID
	entry := &models.LedgerTransaction{
		ID:               uuid.New(),
		AccountID:        sess.AccountID,
		Amount:           models.SignedAmount(kind, amount),
		Date:             date,
		Description:      description + " " + models.AdjustmentMarker,
		Kind:             kind,
		CategoryID:       categoryID,
		PaymentMethod:    models.AdjustmentPaymentMethod,
		Origin:           models.OriginReconciliationAdjustment,
		OriginSessionID:  &sid,
		IsReconciled:     true,
		ReconciliationID: &sid,
		CreatedAt:        time.Now(),
	}
	if err := s.store.Insert(entry); err != nil {
		return nil, err
	}

	now := time.Now()
	details, _ := json.Marshal(map[string]interface{}{
		"kind":             kind,
		"amount":           amount.String(),
		"pre_book_balance": sess.BookBalance.String(),
		"bank_balance":     sess.BankBalance.String(),
	})
	link := &models.ReconciliationLink{
		ID:            uuid.New(),
		TransactionID: entry.ID,
		SessionID:     sess.ID,
		IsReconciled:  true,
		ReconciledAt:  &now,
		Details:       details,
		CreatedAt:     now,
	}
	if err := s.links.Upsert(link); err != nil {
		// No partial adjustment before the session is mutated: take the
		// ledger row back out and surface the failure.
		if delErr := s.store.Delete(entry.ID); delErr != nil {
			s.log.WithFields(logrus.Fields{
				"session_id":     sess.ID,
				"transaction_id": entry.ID,
			}).WithError(delErr).Error("failed to remove adjustment entry after link failure")
		}
		return nil, err
	}

	// Incremental update from the pre-adjustment book balance.
	var newBook decimal.Decimal
	if kind == models.KindExpenditure {
		newBook = sess.BookBalance.Add(amount)
	} else {
		newBook = sess.BookBalance.Sub(amount)
	}
	if err := s.sessions.Update(sess.ID, map[string]interface{}{"book_balance": newBook}); err != nil {
		s.log.WithFields(logrus.Fields{
			"session_id":     sess.ID,
			"transaction_id": entry.ID,
		}).WithError(err).Warn("adjustment created but balances may not be accurate")
		// The entry was persisted; dependent views must still refresh or
		// a manual refresh would be answered from a stale cache.
		s.notify.Changed(cache.Key("sessions", sess.AccountID.String()))
		s.notify.Changed(cache.Key("ledger", sess.AccountID.String()))
		return entry, apperr.ErrInconsistentBalance
	}

	s.log.WithFields(logrus.Fields{
		"session_id":     sess.ID,
		"transaction_id": entry.ID,
		"kind":           kind,
		"amount":         amount.String(),
		"book_balance":   newBook.String(),
	}).Info("adjustment posted")
	s.notify.Changed(cache.Key("sessions", sess.AccountID.String()))
	s.notify.Changed(cache.Key("ledger", sess.AccountID.String()))
	return entry, nil
}

// Summary is the per-session reconciliation report the operator sees.
type Summary struct {
	SessionID       uuid.UUID              `json:"session_id"`
	BankBalance     decimal.Decimal        `json:"bank_balance"`
	BookBalance     decimal.Decimal        `json:"book_balance"`
	Difference      decimal.Decimal        `json:"difference"`
	IsBalanced      bool                   `json:"is_balanced"`
	SuggestedKind   models.TransactionKind `json:"suggested_kind"`
	ReconciledCount int                    `json:"reconciled_count"`
	TotalCount      int                    `json:"total_count"`
	Progress        float64                `json:"progress"`
}

// Summarize recomputes the session report from the current transaction
// set. Never cached beyond that set.
func (s *Service) Summarize(sessionID uuid.UUID) (*Summary, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	reconciled, total, err := s.progress(sess)
	if err != nil {
		return nil, err
	}
	diff := Difference(sess)
	summary := &Summary{
		SessionID:       sess.ID,
		BankBalance:     sess.BankBalance,
		BookBalance:     sess.BookBalance,
		Difference:      diff,
		IsBalanced:      IsBalanced(sess),
		SuggestedKind:   SuggestAdjustmentKind(diff),
		ReconciledCount: reconciled,
		TotalCount:      total,
	}
	if total > 0 {
		summary.Progress = float64(reconciled) / float64(total)
	}
	return summary, nil
}
