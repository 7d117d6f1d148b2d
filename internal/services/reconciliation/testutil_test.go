package reconciliation

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"ledger-reconciliation-backend/internal/cache"
	"ledger-reconciliation-backend/internal/models"
	"ledger-reconciliation-backend/internal/repository"
	ledgersvc "ledger-reconciliation-backend/internal/services/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db       *gorm.DB
	accounts *repository.AccountRepository
	ledger   *repository.LedgerRepository
	sessions *repository.SessionRepository
	links    *repository.LinkRepository
	accessor *ledgersvc.Accessor
	svc      *Service
	log      *logrus.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Category{},
		&models.LedgerTransaction{},
		&models.ReconciliationSession{},
		&models.ReconciliationLink{},
	))

	log := logrus.New()
	log.SetOutput(io.Discard)

	env := &testEnv{
		db:       db,
		accounts: repository.NewAccountRepository(db),
		ledger:   repository.NewLedgerRepository(db),
		sessions: repository.NewSessionRepository(db),
		links:    repository.NewLinkRepository(db),
		log:      log,
	}
	env.accessor = ledgersvc.NewAccessor(env.accounts, env.ledger, log, cache.NopNotifier{})
	env.svc = NewService(env.sessions, env.links, env.ledger, env.accessor, log, cache.NopNotifier{})
	return env
}

// withStores rebuilds the service around substitute store contracts,
// keeping everything else from the env. Used for fault injection.
func (e *testEnv) withStores(sessions repository.SessionStore, links repository.LinkStore, store repository.LedgerStore) *Service {
	return e.withStoresNotify(sessions, links, store, cache.NopNotifier{})
}

// withStoresNotify is withStores with an observable notifier.
func (e *testEnv) withStoresNotify(sessions repository.SessionStore, links repository.LinkStore, store repository.LedgerStore, notify cache.Notifier) *Service {
	if sessions == nil {
		sessions = e.sessions
	}
	if links == nil {
		links = e.links
	}
	if store == nil {
		store = e.ledger
	}
	return NewService(sessions, links, store, e.accessor, e.log, notify)
}

// recordingNotifier collects the scopes passed to Changed.
type recordingNotifier struct {
	scopes []string
}

func (r *recordingNotifier) Changed(scope string) {
	r.scopes = append(r.scopes, scope)
}

func (e *testEnv) createAccount(t *testing.T, opening string) *models.Account {
	t.Helper()
	account := &models.Account{
		ID:             uuid.New(),
		Name:           "Checking " + uuid.NewString()[:8],
		OpeningBalance: dec(opening),
		CreatedAt:      time.Now(),
	}
	require.NoError(t, e.accounts.Create(account))
	return account
}

func (e *testEnv) createTx(t *testing.T, accountID uuid.UUID, kind models.TransactionKind, magnitude string, date time.Time) *models.LedgerTransaction {
	t.Helper()
	tx, err := e.accessor.CreateTransaction(accountID, kind, dec(magnitude), date, "test entry", nil, "cash")
	require.NoError(t, err)
	return tx
}

func (e *testEnv) createSession(t *testing.T, accountID uuid.UUID, bank string) *models.ReconciliationSession {
	t.Helper()
	sess, err := e.svc.CreateSession(accountID, rangeStart, rangeEnd, dec(bank), "")
	require.NoError(t, err)
	return sess
}

var (
	rangeStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	midRange   = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// failingLedgerStore wraps the real store and fails selected operations
// on a chosen transaction.
type failingLedgerStore struct {
	repository.LedgerStore
	failUpdateOn uuid.UUID
	failDeleteOn uuid.UUID
}

func (f *failingLedgerStore) Update(id uuid.UUID, fields map[string]interface{}) error {
	if id == f.failUpdateOn {
		return errTestStore
	}
	return f.LedgerStore.Update(id, fields)
}

func (f *failingLedgerStore) Delete(id uuid.UUID) error {
	if id == f.failDeleteOn {
		return errTestStore
	}
	return f.LedgerStore.Delete(id)
}

// failingSessionStore fails every Update call.
type failingSessionStore struct {
	repository.SessionStore
}

func (f *failingSessionStore) Update(id uuid.UUID, fields map[string]interface{}) error {
	return errTestStore
}

// failingLinkStore fails every Upsert call.
type failingLinkStore struct {
	repository.LinkStore
}

func (f *failingLinkStore) Upsert(link *models.ReconciliationLink) error {
	return errTestStore
}

// failingSessionStoreDelete fails every Delete call.
type failingSessionStoreDelete struct {
	repository.SessionStore
}

func (f *failingSessionStoreDelete) Delete(id uuid.UUID) error {
	return errTestStore
}

// failingLinkStoreDelete fails every DeleteBySession call.
type failingLinkStoreDelete struct {
	repository.LinkStore
}

func (f *failingLinkStoreDelete) DeleteBySession(sessionID uuid.UUID) error {
	return errTestStore
}

var errTestStore = &testStoreError{}

type testStoreError struct{}

func (*testStoreError) Error() string { return "store unreachable" }
