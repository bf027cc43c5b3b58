package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/infrastructure/postgres"
)

func newTestStore(t *testing.T) *postgres.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), postgres.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres.AutoMigrate(db))
	return postgres.NewStore(db)
}

type fakeUploader struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, objectPath)
	return "https://cdn.test/" + objectPath, nil
}

type sentMail struct {
	To       string
	Template string
	Data     map[string]any
}

type fakeRevoker struct {
	revoked []string
}

func (f *fakeRevoker) RevokeSessions(_ context.Context, userIDs ...string) {
	f.revoked = append(f.revoked, userIDs...)
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, to, template string, data map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: to, Template: template, Data: data})
	return nil
}

type fakeSearcher struct {
	mu      sync.Mutex
	indexed map[string]bool
	deleted []string
	hits    []string
	err     error
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{indexed: map[string]bool{}}
}

func (f *fakeSearcher) Index(_ context.Context, car *entity.Car) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[car.ID] = true
	return nil
}

func (f *fakeSearcher) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.indexed, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _, _ int) ([]string, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.hits, int64(len(f.hits)), nil
}

var errBoom = errors.New("boom")

func image(name string) *File {
	return &File{Name: name, ContentType: "image/jpeg", Body: bytes.NewReader([]byte("img"))}
}
