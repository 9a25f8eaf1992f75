package backend

import (
	"context"
	"fmt"
	"log/slog"

	"finview/internal/cache"
	"finview/internal/finance/google"
	"finview/internal/finance/memory"
	"finview/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger

	// newSheets is swapped in tests; production dials the Sheets API.
	newSheets func(ctx context.Context, opts google.Options) (Backend, error)
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger.With("component", "backend"),
		newSheets: func(ctx context.Context, opts google.Options) (Backend, error) {
			return google.NewFromEnv(ctx, opts)
		},
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *BackendResult
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(config)
	case SheetsBackend:
		res, err = f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		res, err = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.Type != MemoryBackend && config.SnapshotCacheTTL > 0 {
		f.withSnapshotCache(res, config)
	}
	return res, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Backend:   repo,
		Snapshots: repo,
		Health:    repo.Ping,
		Cleanup:   repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := f.newSheets(ctx, google.Options{
		SpreadsheetID:     config.GoogleSpreadsheetID,
		SnapshotSheet:     config.GoogleSnapshotSheet,
		ConversationSheet: config.GoogleConversationSheet,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend",
		"snapshot_sheet", config.GoogleSnapshotSheet,
		"conversation_sheet", config.GoogleConversationSheet)

	return &BackendResult{
		Backend:   cli,
		Snapshots: cli,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	store := memory.NewFromFiles(dataDir)

	f.logger.Info("Initialized memory backend", "data_directory", dataDir, "users", len(store.UserIDs()))

	return &BackendResult{
		Backend:   store,
		Snapshots: store,
	}, nil
}

// withSnapshotCache puts an LRU in front of the backend reader and chains
// the sweeper's shutdown into Cleanup.
func (f *DefaultFactory) withSnapshotCache(res *BackendResult, config Config) {
	size := config.SnapshotCacheSize
	if size <= 0 {
		size = DefaultSnapshotCacheSize
	}
	sc := cache.NewSnapshotCache(res.Snapshots, size, config.SnapshotCacheTTL)

	manager := cache.NewManager()
	manager.Register(sc.Cleaner())
	manager.StartCleanup(config.SnapshotCacheTTL)

	next := res.Cleanup
	res.Snapshots = sc
	res.CacheSize = sc.Size
	res.Cleanup = func() error {
		manager.Stop()
		if next != nil {
			return next()
		}
		return nil
	}

	f.logger.Info("Snapshot cache enabled", "ttl", config.SnapshotCacheTTL, "max_entries", size)
}
