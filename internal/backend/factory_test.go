package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"finview/internal/cache"
	"finview/internal/config"
	"finview/internal/core"
	"finview/internal/finance"
	"finview/internal/finance/google"
	"finview/internal/finance/memory"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}

	app := &config.Config{
		DataBackend:             "sheets",
		GoogleSpreadsheetID:     "sheet-1",
		GoogleSnapshotSheet:     "Snapshots",
		GoogleConversationSheet: "Conversations",
		DataDir:                 "seed",
		SnapshotCacheTTL:        time.Minute,
	}
	cfg, err := FromAppConfig(app)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Type != SheetsBackend || cfg.GoogleSpreadsheetID != "sheet-1" || cfg.DataDirectory != "seed" {
		t.Fatalf("unexpected backend config %+v", cfg)
	}
	if cfg.SnapshotCacheSize != DefaultSnapshotCacheSize {
		t.Fatalf("cache size = %d", cfg.SnapshotCacheSize)
	}

	app.DataBackend = "postgres"
	if _, err := FromAppConfig(app); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"sheets without id", Config{Type: SheetsBackend}, true},
		{"unknown", Config{Type: "mongo"}, true},
		{"negative ttl", Config{Type: MemoryBackend, SnapshotCacheTTL: -time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 3 || got[0] != "sqlite" || got[1] != "sheets" || got[2] != "memory" {
		t.Fatalf("unexpected types %v", got)
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.CreateBackend(context.Background(), Config{Type: MemoryBackend, DataDirectory: t.TempDir(), SnapshotCacheTTL: time.Minute})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Close()

	if _, ok := res.Snapshots.(*memory.Store); !ok {
		t.Fatalf("memory backend should not be cached, got %T", res.Snapshots)
	}
	if res.CacheSize != nil {
		t.Fatal("memory backend has no cache")
	}
	if _, err := res.Snapshots.GetSnapshot(context.Background(), "user123"); err != nil {
		t.Fatalf("demo user missing: %v", err)
	}
}

func TestCreateSQLiteBackendWithCache(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.CreateBackend(context.Background(), Config{
		Type:             SQLiteBackend,
		SQLiteDBPath:     filepath.Join(t.TempDir(), "finview.db"),
		SnapshotCacheTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer func() {
		if err := res.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	if _, ok := res.Snapshots.(*cache.SnapshotCache); !ok {
		t.Fatalf("expected cached reader, got %T", res.Snapshots)
	}
	if err := res.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}

	snap, err := res.Snapshots.GetSnapshot(context.Background(), "user123")
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if snap.UserID() != "user123" {
		t.Fatalf("unexpected user %q", snap.UserID())
	}
	if res.CacheSize() != 1 {
		t.Fatalf("CacheSize = %d, want 1", res.CacheSize())
	}

	if _, err := res.Snapshots.GetSnapshot(context.Background(), "ghost"); !errors.Is(err, finance.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

type fakeSheets struct{ logs []core.ConversationLog }

func (f *fakeSheets) GetSnapshot(context.Context, string) (core.Snapshot, error) {
	return core.Snapshot{}, finance.ErrUserNotFound
}

func (f *fakeSheets) LogConversation(_ context.Context, l core.ConversationLog) error {
	f.logs = append(f.logs, l)
	return nil
}

func TestCreateSheetsBackend(t *testing.T) {
	var gotOpts google.Options
	fake := &fakeSheets{}
	f := &DefaultFactory{
		logger: NewFactory(nil).(*DefaultFactory).logger,
		newSheets: func(_ context.Context, opts google.Options) (Backend, error) {
			gotOpts = opts
			return fake, nil
		},
	}

	res, err := f.CreateBackend(context.Background(), Config{
		Type:                    SheetsBackend,
		GoogleSpreadsheetID:     "sheet-1",
		GoogleSnapshotSheet:     "Snap",
		GoogleConversationSheet: "Conv",
	})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Close()

	if gotOpts.SpreadsheetID != "sheet-1" || gotOpts.SnapshotSheet != "Snap" || gotOpts.ConversationSheet != "Conv" {
		t.Fatalf("unexpected options %+v", gotOpts)
	}
	if res.Backend != Backend(fake) {
		t.Fatal("backend should be the sheets client")
	}
	if res.Health != nil {
		t.Fatal("sheets backend has no health check")
	}
}

func TestCreateSheetsBackendError(t *testing.T) {
	f := &DefaultFactory{
		logger: NewFactory(nil).(*DefaultFactory).logger,
		newSheets: func(context.Context, google.Options) (Backend, error) {
			return nil, errors.New("no credentials")
		},
	}
	_, err := f.CreateBackend(context.Background(), Config{Type: SheetsBackend, GoogleSpreadsheetID: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
}
