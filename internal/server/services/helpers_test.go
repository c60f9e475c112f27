package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/dmitrijs2005/matchmaker/internal/logging"
	"github.com/dmitrijs2005/matchmaker/internal/server/auth"
	"github.com/dmitrijs2005/matchmaker/internal/server/config"
	"github.com/dmitrijs2005/matchmaker/internal/server/metrics"
	"github.com/dmitrijs2005/matchmaker/internal/server/notify"
	"github.com/dmitrijs2005/matchmaker/internal/server/objectstore"
	"github.com/dmitrijs2005/matchmaker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/matchmaker/internal/server/store"
	"github.com/dmitrijs2005/matchmaker/internal/server/store/memory"
)

var errBoom = errors.New("boom")

// runDate is the fixed "now" used by workflow tests.
var runDate = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return runDate }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Storage = config.StorageMemory
	cfg.UserSecretKey = "user-secret"
	cfg.AdminSecretKey = "admin-secret"
	cfg.ResetBaseURL = "https://example.test/reset"
	return cfg
}

func newManager(cfg *config.Config) *repomanager.StoreRepositoryManager {
	return repomanager.NewStoreRepositoryManager(memory.New(), cfg)
}

// --- fakes ---

type fakeVerifier struct {
	identity *auth.Identity
	err      error
}

func (f *fakeVerifier) Verify(ctx context.Context, idToken string) (*auth.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if idToken == "" {
		return nil, common.ErrorInvalidCredential
	}
	return f.identity, nil
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (f *fakeNotifier) Notify(ctx context.Context, userID string, ev notify.Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return true
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

// brokenObjects fails every call. Embedding the interface keeps it compiling
// if the interface grows.
type brokenObjects struct {
	objectstore.ObjectStore
}

func (brokenObjects) PutObject(context.Context, string, []byte, string) error {
	return common.ErrorUploadFailed
}

func (brokenObjects) GetObject(context.Context, string) ([]byte, error) {
	return nil, common.ErrorFetchFailed
}

func (brokenObjects) DeleteObject(context.Context, string) error {
	return common.ErrorDeleteFailed
}

func (brokenObjects) PresignUpload(context.Context, string, string) (string, error) {
	return "", errBoom
}

// brokenStore fails every record store call the way a backend outage does.
type brokenStore struct {
	store.RecordStore
}

func unavailable() error {
	return fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, errBoom)
}

func (brokenStore) GetByID(context.Context, store.Collection, string, any) error {
	return unavailable()
}

func (brokenStore) Scan(context.Context, store.Collection, store.Predicate, any) error {
	return unavailable()
}

func (brokenStore) Put(context.Context, store.Collection, any) error {
	return unavailable()
}

func (brokenStore) Update(context.Context, store.Collection, string, []store.Assignment) error {
	return unavailable()
}

// newBufferLogger returns a text logger writing into the returned buffer.
func newBufferLogger() (logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil))), &buf
}

// --- constructors ---

func newUserService(t *testing.T, m repomanager.RepositoryManager, v auth.FederatedVerifier, mail *fakeMailer) *UserService {
	t.Helper()
	s := NewUserService(m, auth.NewHasher(auth.MinBcryptCost), v, mail, metrics.NewRegistry(), logging.Nop{}, testConfig())
	s.now = fixedNow
	return s
}

func newApplicationService(t *testing.T, m repomanager.RepositoryManager, objects objectstore.ObjectStore, n notify.Notifier) *ApplicationService {
	t.Helper()
	s := NewApplicationService(m, objects, n, metrics.NewRegistry(), logging.Nop{}, testConfig())
	s.now = fixedNow
	return s
}
