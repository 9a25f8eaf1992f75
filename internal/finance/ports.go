package finance

import (
	"context"
	"errors"

	"finview/internal/core"
)

// ErrUserNotFound is returned by SnapshotReader when no data exists for the
// user. Callers treat it as an anonymous request.
var ErrUserNotFound = errors.New("user not found")

// Ports for outbound adapters.
type (
	// SnapshotReader resolves a user id to that user's financial snapshot.
	SnapshotReader interface {
		GetSnapshot(ctx context.Context, userID string) (core.Snapshot, error)
	}

	// ConversationLogger records chat exchanges. Callers do not wait on or
	// react to failures beyond logging them.
	ConversationLogger interface {
		LogConversation(ctx context.Context, log core.ConversationLog) error
	}
)
