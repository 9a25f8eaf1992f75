// Package worker handles conversation-log messages consumed from AMQP.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finview/internal/amqp"
	"finview/internal/finance"
)

// ConversationLogWorker persists consumed conversation-log messages. The
// store is expected to ignore ids it has already seen, so redelivered
// messages are harmless.
type ConversationLogWorker struct {
	store finance.ConversationLogger
}

func NewConversationLogWorker(store finance.ConversationLogger) *ConversationLogWorker {
	return &ConversationLogWorker{store: store}
}

// HandleMessage stores one message. A returned error requeues it.
func (w *ConversationLogWorker) HandleMessage(ctx context.Context, msg *amqp.ConversationLoggedMessage) error {
	if msg == nil {
		return errors.New("nil conversation message")
	}

	slog.InfoContext(ctx, "Processing conversation log message",
		"id", msg.Log.ID,
		"user_id", msg.Log.UserID,
		"rule", msg.Log.Rule,
		"published_at", msg.Timestamp)

	if err := w.store.LogConversation(ctx, msg.Log); err != nil {
		return fmt.Errorf("store conversation %s: %w", msg.Log.ID, err)
	}
	return nil
}
