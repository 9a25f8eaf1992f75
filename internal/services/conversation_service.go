package services

import (
	"context"
	"fmt"
	"log/slog"

	"finview/internal/core"
	"finview/internal/finance"
)

// Publisher forwards logged conversations to a message broker.
type Publisher interface {
	PublishConversationLogged(ctx context.Context, l core.ConversationLog) error
	Close() error
}

// ConversationService writes each exchange to the configured logger and,
// when a publisher is present, announces it on the broker. Neither failure
// reaches the caller.
type ConversationService struct {
	logger    finance.ConversationLogger
	publisher Publisher
}

func NewConversationService(logger finance.ConversationLogger, publisher Publisher) *ConversationService {
	return &ConversationService{
		logger:    logger,
		publisher: publisher,
	}
}

func (s *ConversationService) Log(ctx context.Context, l core.ConversationLog) {
	if s.logger != nil {
		if err := s.logger.LogConversation(ctx, l); err != nil {
			slog.ErrorContext(ctx, "Failed to log conversation", "id", l.ID, "error", err)
		}
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishConversationLogged(ctx, l); err != nil {
		slog.ErrorContext(ctx, "Failed to publish conversation log", "id", l.ID, "error", err)
	}
}

// Close releases the publisher. The logger is owned by the backend.
func (s *ConversationService) Close() error {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			return fmt.Errorf("close conversation publisher: %w", err)
		}
	}
	return nil
}
