package reconciliation

import (
	"ledger-reconciliation-backend/internal/apperr"
	"ledger-reconciliation-backend/internal/cache"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// cascadeStep is one ordered step of a session deletion. Critical steps
// abort the whole operation on failure; non-critical steps are logged
// into the report and the cascade continues.
type cascadeStep struct {
	name     string
	critical bool
	run      func() error
}

// DeleteSession removes a session and everything it produced. The
// session row and its link rows must not be left half-referenced, so
// their deletion is critical. Cleanup of transaction flags and
// adjustment ledger rows is best-effort: their absence never corrupts
// remaining data, only leaves orphaned rows a later audit can find via
// the adjustment marker.
func (s *Service) DeleteSession(sessionID uuid.UUID) (*apperr.CascadeReport, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	report := &apperr.CascadeReport{}

	steps := []cascadeStep{
		{
			name:     "delete link rows",
			critical: true,
			run:      func() error { return s.links.DeleteBySession(sessionID) },
		},
		{
			name:     "clear transaction reconciliation flags",
			critical: false,
			run:      func() error { return s.store.ClearSessionLinks(sessionID) },
		},
		{
			name:     "delete adjustment entries",
			critical: false,
			run:      func() error { return s.deleteAdjustments(sess.AccountID, sessionID, report) },
		},
		{
			name:     "delete session row",
			critical: true,
			run:      func() error { return s.sessions.Delete(sessionID) },
		},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			if step.critical {
				s.log.WithFields(logrus.Fields{
					"session_id": sessionID,
					"step":       step.name,
				}).WithError(err).Error("session deletion aborted")
				// Earlier steps may already have removed rows; cached
				// views must refresh even though the cascade aborted.
				s.notify.Changed(cache.Key("sessions", sess.AccountID.String()))
				s.notify.Changed(cache.Key("ledger", sess.AccountID.String()))
				return report, err
			}
			report.Warn(step.name, err)
			s.log.WithFields(logrus.Fields{
				"session_id": sessionID,
				"step":       step.name,
			}).WithError(err).Warn("non-critical cascade step failed")
		}
	}

	report.SessionDeleted = true
	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"warnings":   len(report.Warnings),
	}).Info("reconciliation session deleted")
	s.notify.Changed(cache.Key("sessions", sess.AccountID.String()))
	s.notify.Changed(cache.Key("ledger", sess.AccountID.String()))
	return report, nil
}

// deleteAdjustments removes the session's adjustment ledger rows one at
// a time; individual failures go into the report and do not abort the
// batch.
func (s *Service) deleteAdjustments(accountID, sessionID uuid.UUID, report *apperr.CascadeReport) error {
	entries, err := s.store.ListAdjustments(accountID, sessionID)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := s.store.Delete(entry.ID); err != nil {
			report.Warn("delete adjustment entry "+entry.ID.String(), err)
			s.log.WithFields(logrus.Fields{
				"session_id":     sessionID,
				"transaction_id": entry.ID,
			}).WithError(err).Warn("failed to delete adjustment entry")
		}
	}
	return nil
}
