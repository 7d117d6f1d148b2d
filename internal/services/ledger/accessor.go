package ledger

import (
	"time"

	"ledger-reconciliation-backend/internal/cache"
	"ledger-reconciliation-backend/internal/models"
	"ledger-reconciliation-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Accessor reads an account's transactions and derives running balances.
// Balance computation always resums the complete current transaction set
// plus the opening balance; it never applies incremental deltas, so
// repeated calls after partial failures converge to the same value.
type Accessor struct {
	accounts repository.AccountStore
	store    repository.LedgerStore
	log      *logrus.Logger
	notify   cache.Notifier
}

func NewAccessor(accounts repository.AccountStore, store repository.LedgerStore, log *logrus.Logger, notify cache.Notifier) *Accessor {
	return &Accessor{accounts: accounts, store: store, log: log, notify: notify}
}

func (a *Accessor) ListTransactions(accountID uuid.UUID, from, to time.Time) ([]models.LedgerTransaction, error) {
	return a.store.ListByAccount(accountID, from, to)
}

// ComputeBalance resums the full ledger: opening balance plus every
// transaction amount for the account.
func (a *Accessor) ComputeBalance(accountID uuid.UUID) (decimal.Decimal, error) {
	account, err := a.accounts.Get(accountID)
	if err != nil {
		return decimal.Zero, err
	}
	txs, err := a.store.ListAllByAccount(accountID)
	if err != nil {
		return decimal.Zero, err
	}
	balance := account.OpeningBalance
	for _, tx := range txs {
		balance = balance.Add(tx.Amount)
	}
	return balance, nil
}

// ComputeBookBalance resums the opening balance plus every transaction
// amount within [from, to].
func (a *Accessor) ComputeBookBalance(accountID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	account, err := a.accounts.Get(accountID)
	if err != nil {
		return decimal.Zero, err
	}
	txs, err := a.store.ListByAccount(accountID, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	balance := account.OpeningBalance
	for _, tx := range txs {
		balance = balance.Add(tx.Amount)
	}
	return balance, nil
}

// CreateTransaction inserts an operator-entered ledger row. Amount is
// the positive magnitude; the stored amount is signed by kind.
func (a *Accessor) CreateTransaction(accountID uuid.UUID, kind models.TransactionKind, magnitude decimal.Decimal, date time.Time, description string, categoryID *uuid.UUID, paymentMethod string) (*models.LedgerTransaction, error) {
	tx := &models.LedgerTransaction{
		ID:            uuid.New(),
		AccountID:     accountID,
		Amount:        models.SignedAmount(kind, magnitude),
		Date:          date,
		Description:   description,
		Kind:          kind,
		CategoryID:    categoryID,
		PaymentMethod: paymentMethod,
		Origin:        models.OriginManual,
		CreatedAt:     time.Now(),
	}
	if err := a.store.Insert(tx); err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{
		"account_id":     accountID,
		"transaction_id": tx.ID,
		"kind":           kind,
	}).Info("ledger transaction created")
	a.notify.Changed(cache.Key("ledger", accountID.String()))
	return tx, nil
}
