package backend

import (
	"context"
	"time"

	"finview/internal/finance"
)

// Backend is a data source that serves snapshots and records conversations.
type Backend interface {
	finance.SnapshotReader
	finance.ConversationLogger
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// HealthCheck reports whether the backend can serve requests right now.
type HealthCheck func(ctx context.Context) error

// BackendResult contains the backend, the reader the chat path should use
// (the backend itself or a cache in front of it) and lifecycle hooks.
type BackendResult struct {
	Backend   Backend
	Snapshots finance.SnapshotReader
	// CacheSize reports cached snapshot entries; nil when uncached.
	CacheSize func() int
	Health    HealthCheck
	Cleanup   CleanupFunc
}

// Close runs Cleanup if there is one.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID     string
	GoogleSnapshotSheet     string
	GoogleConversationSheet string

	// Memory backend specific
	DataDirectory string

	// SnapshotCacheTTL enables the snapshot cache for remote backends when
	// positive.
	SnapshotCacheTTL  time.Duration
	SnapshotCacheSize int
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
