package reconciliation

import (
	"time"

	"ledger-reconciliation-backend/internal/apperr"
	"ledger-reconciliation-backend/internal/cache"
	"ledger-reconciliation-backend/internal/models"
	"ledger-reconciliation-backend/internal/repository"
	"ledger-reconciliation-backend/internal/services/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Service owns reconciliation session records and the session lifecycle.
// Mutating operations on completed sessions are rejected; completing an
// unbalanced session is permitted and only logged.
type Service struct {
	sessions repository.SessionStore
	links    repository.LinkStore
	store    repository.LedgerStore
	accessor *ledger.Accessor
	log      *logrus.Logger
	notify   cache.Notifier
}

func NewService(sessions repository.SessionStore, links repository.LinkStore, store repository.LedgerStore, accessor *ledger.Accessor, log *logrus.Logger, notify cache.Notifier) *Service {
	return &Service{
		sessions: sessions,
		links:    links,
		store:    store,
		accessor: accessor,
		log:      log,
		notify:   notify,
	}
}

// EnsureMutable rejects mutations on completed sessions.
func EnsureMutable(sess *models.ReconciliationSession) error {
	if sess.Status == models.StatusCompleted {
		return apperr.Validationf("session %s is completed and can no longer be modified", sess.ID)
	}
	return nil
}

func (s *Service) CreateSession(accountID uuid.UUID, start, end time.Time, bankBalance decimal.Decimal, notes string) (*models.ReconciliationSession, error) {
	if end.Before(start) {
		return nil, apperr.Validationf("end date %s is before start date %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	sess := &models.ReconciliationSession{
		ID:          uuid.New(),
		AccountID:   accountID,
		StartDate:   start,
		EndDate:     end,
		BankBalance: bankBalance,
		Status:      models.StatusInProgress,
		Notes:       notes,
		CreatedAt:   time.Now(),
	}
	// A fresh session has no preserved balance yet; always resum.
	book, err := s.accessor.ComputeBookBalance(accountID, start, end)
	if err != nil {
		return nil, err
	}
	sess.BookBalance = book
	if err := s.sessions.Create(sess); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"account_id": accountID,
	}).Info("reconciliation session created")
	s.notify.Changed(cache.Key("sessions", accountID.String()))
	return sess, nil
}

func (s *Service) GetSession(id uuid.UUID) (*models.ReconciliationSession, error) {
	return s.sessions.Get(id)
}

func (s *Service) ListSessions(accountID uuid.UUID) ([]models.ReconciliationSession, error) {
	return s.sessions.ListByAccount(accountID)
}

// SessionEdit carries the operator-editable fields of an in_progress
// session. Nil pointers leave the current value untouched.
type SessionEdit struct {
	StartDate   *time.Time
	EndDate     *time.Time
	BankBalance *decimal.Decimal
	Notes       *string
}

// UpdateSession edits an in_progress session and recomputes the book
// balance under the preservation rule.
func (s *Service) UpdateSession(id uuid.UUID, edit SessionEdit) (*models.ReconciliationSession, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if err := EnsureMutable(sess); err != nil {
		return nil, err
	}
	if edit.StartDate != nil {
		sess.StartDate = *edit.StartDate
	}
	if edit.EndDate != nil {
		sess.EndDate = *edit.EndDate
	}
	if sess.EndDate.Before(sess.StartDate) {
		return nil, apperr.Validationf("end date %s is before start date %s",
			sess.EndDate.Format("2006-01-02"), sess.StartDate.Format("2006-01-02"))
	}
	if edit.BankBalance != nil {
		sess.BankBalance = *edit.BankBalance
	}
	if edit.Notes != nil {
		sess.Notes = *edit.Notes
	}
	book, err := s.resolveBookBalance(sess)
	if err != nil {
		return nil, err
	}
	sess.BookBalance = book

	err = s.sessions.Update(id, map[string]interface{}{
		"start_date":   sess.StartDate,
		"end_date":     sess.EndDate,
		"bank_balance": sess.BankBalance,
		"book_balance": sess.BookBalance,
		"notes":        sess.Notes,
	})
	if err != nil {
		return nil, err
	}
	s.notify.Changed(cache.Key("sessions", sess.AccountID.String()))
	return sess, nil
}

// RecalculateBookBalance refreshes the stored book balance. Safe to call
// repeatedly: it either resums the ledger or keeps the preserved value.
func (s *Service) RecalculateBookBalance(id uuid.UUID) (*models.ReconciliationSession, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	book, err := s.resolveBookBalance(sess)
	if err != nil {
		return nil, err
	}
	if !book.Equal(sess.BookBalance) {
		if err := s.sessions.Update(id, map[string]interface{}{"book_balance": book}); err != nil {
			return nil, err
		}
		sess.BookBalance = book
		s.notify.Changed(cache.Key("sessions", sess.AccountID.String()))
	}
	return sess, nil
}

// resolveBookBalance applies the preservation rule: a full resum of the
// date range, unless adjustment entries exist for the account, in which
// case the stored book balance is authoritative and kept. A resum after
// incremental adjustment updates would double-count them.
func (s *Service) resolveBookBalance(sess *models.ReconciliationSession) (decimal.Decimal, error) {
	hasAdjustments, err := s.store.HasAdjustments(sess.AccountID)
	if err != nil {
		return decimal.Zero, err
	}
	if hasAdjustments {
		return sess.BookBalance, nil
	}
	return s.accessor.ComputeBookBalance(sess.AccountID, sess.StartDate, sess.EndDate)
}

// CompleteSession transitions in_progress -> completed. The transition
// is allowed even when the session is unbalanced; the outstanding
// difference is logged, not enforced.
func (s *Service) CompleteSession(id uuid.UUID) (*models.ReconciliationSession, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if !sess.Status.CanTransitionTo(models.StatusCompleted) {
		return nil, apperr.Validationf("session %s cannot transition from %s to %s", id, sess.Status, models.StatusCompleted)
	}
	if !IsBalanced(sess) {
		s.log.WithFields(logrus.Fields{
			"session_id": id,
			"difference": Difference(sess).String(),
		}).Warn("completing unbalanced session")
	}
	if err := s.sessions.Update(id, map[string]interface{}{"status": models.StatusCompleted}); err != nil {
		return nil, err
	}
	sess.Status = models.StatusCompleted
	s.log.WithField("session_id", id).Info("reconciliation session completed")
	s.notify.Changed(cache.Key("sessions", sess.AccountID.String()))
	return sess, nil
}
