package reconciliation

import (
	"testing"

	"ledger-reconciliation-backend/internal/apperr"
	"ledger-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSessionComputesBookBalance(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, "1000")
	env.createTx(t, account.ID, models.KindIncome, "500", midRange)
	env.createTx(t, account.ID, models.KindExpenditure, "200", midRange)

	sess := env.createSession(t, account.ID, "1300")

	assert.True(t, sess.BookBalance.Equal(dec("1300")), "book = %s", sess.BookBalance)
	assert.True(t, Difference(sess).IsZero())
	assert.True(t, IsBalanced(sess))
	assert.Equal(t, models.StatusInProgress, sess.Status)
}

func TestCreateSessionRejectsInvertedDates(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, "0")

	_, err := env.svc.CreateSession(account.ID, rangeEnd, rangeStart, dec("0"), "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCompleteSession(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, "100")
	sess := env.createSession(t, account.ID, "100")

	completed, err := env.svc.CompleteSession(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	// completed is terminal
	_, err = env.svc.CompleteSession(sess.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCompleteUnbalancedSessionPermitted(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, "100")
	sess := env.createSession(t, account.ID, "250")

	require.False(t, IsBalanced(sess))
	completed, err := env.svc.CompleteSession(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
}

func TestCompletedSessionRejectsMutations(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, "100")
	tx := env.createTx(t, account.ID, models.KindIncome, "50", midRange)
	sess := env.createSession(t, account.ID, "150")
	_, err := env.svc.CompleteSession(sess.ID)
	require.NoError(t, err)

	_, err = env.svc.SetReconciled(tx.ID, true, sess.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = env.svc.BatchSetReconciled([]uuid.UUID{tx.ID}, true, sess.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = env.svc.PostAdjustment(sess.ID, models.KindIncome, dec("10"), nil, "late fix", midRange)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	notes := "edited"
	_, err = env.svc.UpdateSession(sess.ID, SessionEdit{Notes: &notes})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateSessionRecomputesBookBalance(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, "1000")
	env.createTx(t, account.ID, models.KindIncome, "500", midRange)
	sess := env.createSession(t, account.ID, "1500")

	env.createTx(t, account.ID, models.KindExpenditure, "200", midRange)
	bank := dec("1300")
	updated, err := env.svc.UpdateSession(sess.ID, SessionEdit{BankBalance: &bank})
	require.NoError(t, err)

	assert.True(t, updated.BookBalance.Equal(dec("1300")), "book = %s", updated.BookBalance)
	assert.True(t, IsBalanced(updated))
}

func TestUpdateSessionPreservesBookBalanceAfterAdjustment(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, "1000")
	sess := env.createSession(t, account.ID, "1100")

	_, err := env.svc.PostAdjustment(sess.ID, models.KindExpenditure, dec("100"), nil, "bank fee", midRange)
	require.NoError(t, err)

	notes := "adjusted"
	updated, err := env.svc.UpdateSession(sess.ID, SessionEdit{Notes: &notes})
	require.NoError(t, err)

	// a resum would fold the adjustment row in a second time; the
	// preserved value must win
	assert.True(t, updated.BookBalance.Equal(dec("1100")), "book = %s", updated.BookBalance)
}

func TestRecalculateBookBalanceIdempotent(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, "1000")
	env.createTx(t, account.ID, models.KindIncome, "500", midRange)
	env.createTx(t, account.ID, models.KindExpenditure, "200", midRange)
	sess := env.createSession(t, account.ID, "1300")

	first, err := env.svc.RecalculateBookBalance(sess.ID)
	require.NoError(t, err)
	second, err := env.svc.RecalculateBookBalance(sess.ID)
	require.NoError(t, err)

	assert.True(t, first.BookBalance.Equal(second.BookBalance))
	assert.True(t, second.BookBalance.Equal(dec("1300")))
}

func TestListSessionsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t, "0")
	env.createSession(t, account.ID, "0")
	env.createSession(t, account.ID, "0")

	sessions, err := env.svc.ListSessions(account.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
	assert.False(t, sessions[0].CreatedAt.Before(sessions[1].CreatedAt))
}
