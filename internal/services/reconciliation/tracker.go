package reconciliation

import (
	"time"

	"ledger-reconciliation-backend/internal/cache"
	"ledger-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SetReconciled toggles the matched flag on a single transaction and
// upserts its link row. Toggling is balance-neutral: it marks matching,
// it does not move money, so no recomputation happens here.
func (s *Service) SetReconciled(transactionID uuid.UUID, reconciled bool, sessionID uuid.UUID) (*models.LedgerTransaction, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := EnsureMutable(sess); err != nil {
		return nil, err
	}
	tx, err := s.store.Get(transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.applyReconciled(tx, reconciled, sessionID); err != nil {
		return nil, err
	}
	s.notify.Changed(cache.Key("ledger", sess.AccountID.String()))
	s.notify.Changed(cache.Key("sessions", sess.AccountID.String()))
	return tx, nil
}

// BatchSetReconciled applies the same toggle to every transaction.
// All-or-nothing at the observable level: items are updated optimistically
// one at a time, and any single failure reverts every already-applied item
// to its pre-batch state before the error surfaces. The store itself is
// not required to be transactional; the revert is a compensating action.
func (s *Service) BatchSetReconciled(transactionIDs []uuid.UUID, reconciled bool, sessionID uuid.UUID) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if err := EnsureMutable(sess); err != nil {
		return err
	}

	type prior struct {
		tx           *models.LedgerTransaction
		isReconciled bool
		sessionRef   *uuid.UUID
		link         *models.ReconciliationLink
	}
	applied := make([]prior, 0, len(transactionIDs))

	revert := func() {
		for i := len(applied) - 1; i >= 0; i-- {
			p := applied[i]
			if err := s.applyReconciledState(p.tx.ID, p.isReconciled, p.sessionRef, p.link, sessionID); err != nil {
				s.log.WithFields(logrus.Fields{
					"session_id":     sessionID,
					"transaction_id": p.tx.ID,
				}).WithError(err).Error("failed to revert batch reconciliation item")
			}
		}
	}

	for _, id := range transactionIDs {
		tx, err := s.store.Get(id)
		if err != nil {
			revert()
			return err
		}
		priorLink, err := s.links.Find(id, sessionID)
		if err != nil {
			revert()
			return err
		}
		// Captured before the write so a half-applied item (row updated,
		// link upsert failed) is still rolled back.
		applied = append(applied, prior{
			tx:           tx,
			isReconciled: tx.IsReconciled,
			sessionRef:   tx.ReconciliationID,
			link:         priorLink,
		})
		if err := s.applyReconciled(tx, reconciled, sessionID); err != nil {
			revert()
			return err
		}
	}

	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"count":      len(transactionIDs),
		"reconciled": reconciled,
	}).Info("batch reconciliation applied")
	s.notify.Changed(cache.Key("ledger", sess.AccountID.String()))
	s.notify.Changed(cache.Key("sessions", sess.AccountID.String()))
	return nil
}

// applyReconciled writes the toggle to the transaction row and its link.
func (s *Service) applyReconciled(tx *models.LedgerTransaction, reconciled bool, sessionID uuid.UUID) error {
	fields := map[string]interface{}{"is_reconciled": reconciled}
	if reconciled {
		fields["reconciliation_id"] = sessionID
	} else {
		fields["reconciliation_id"] = nil
	}
	if err := s.store.Update(tx.ID, fields); err != nil {
		return err
	}
	tx.IsReconciled = reconciled
	if reconciled {
		sid := sessionID
		tx.ReconciliationID = &sid
	} else {
		tx.ReconciliationID = nil
	}

	now := time.Now()
	link := &models.ReconciliationLink{
		TransactionID: tx.ID,
		SessionID:     sessionID,
		IsReconciled:  reconciled,
		CreatedAt:     now,
	}
	if reconciled {
		link.ReconciledAt = &now
	}
	return s.links.Upsert(link)
}

// applyReconciledState restores a transaction's pre-batch flag and link.
// A transaction that had no link row before the batch gets its row
// removed again rather than left behind with a cleared flag.
func (s *Service) applyReconciledState(txID uuid.UUID, isReconciled bool, sessionRef *uuid.UUID, priorLink *models.ReconciliationLink, sessionID uuid.UUID) error {
	fields := map[string]interface{}{"is_reconciled": isReconciled}
	if sessionRef != nil {
		fields["reconciliation_id"] = *sessionRef
	} else {
		fields["reconciliation_id"] = nil
	}
	if err := s.store.Update(txID, fields); err != nil {
		return err
	}
	if priorLink == nil {
		return s.links.Delete(txID, sessionID)
	}
	restored := *priorLink
	restored.ID = uuid.Nil
	return s.links.Upsert(&restored)
}

// progress counts reconciled vs total transactions in the session's
// date range from the current transaction set.
func (s *Service) progress(sess *models.ReconciliationSession) (reconciled, total int, err error) {
	txs, err := s.store.ListByAccount(sess.AccountID, sess.StartDate, sess.EndDate)
	if err != nil {
		return 0, 0, err
	}
	for _, tx := range txs {
		total++
		if tx.IsReconciled {
			reconciled++
		}
	}
	return reconciled, total, nil
}
