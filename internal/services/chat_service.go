package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"finview/internal/assistant"
	"finview/internal/core"
	"finview/internal/finance"
	applog "finview/internal/log"
)

const snapshotTimeout = 5 * time.Second

// ErrMessageRequired is returned for a chat request without a message.
var ErrMessageRequired = errors.New("message is required")

// ChatRequest is one incoming chat message. UserID is the already-resolved
// identity; empty means anonymous.
type ChatRequest struct {
	Message string
	UserID  string
}

// ChatService answers chat messages. Each call is independent; nothing
// from earlier exchanges is consulted.
type ChatService struct {
	snapshots     finance.SnapshotReader
	conversations *ConversationService
	now           func() time.Time
	newID         func() string

	pending sync.WaitGroup
}

func NewChatService(snapshots finance.SnapshotReader, conversations *ConversationService) *ChatService {
	return &ChatService{
		snapshots:     snapshots,
		conversations: conversations,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

func (s *ChatService) Chat(ctx context.Context, req ChatRequest) (assistant.Reply, error) {
	if req.Message == "" {
		return assistant.Reply{}, ErrMessageRequired
	}

	snap, err := s.lookup(ctx, req.UserID)
	if err != nil {
		return assistant.Reply{}, err
	}

	result := assistant.Respond(req.Message, snap)
	reply := assistant.Format(result.Template)

	applog.NewStructuredLogger(applog.FromContext(ctx).WithComponent(applog.ComponentChat)).
		LogChatReplied(ctx, req.UserID, result.Rule, snap != nil, len(req.Message))

	s.logAsync(ctx, core.ConversationLog{
		ID:                 s.newID(),
		UserID:             req.UserID,
		Message:            req.Message,
		Reply:              reply.Reply,
		Rule:               result.Rule,
		TrainingSystemUsed: false,
		CreatedAt:          s.now(),
	})
	return reply, nil
}

// lookup returns nil for anonymous callers and unknown users.
func (s *ChatService) lookup(ctx context.Context, userID string) (*core.Snapshot, error) {
	if userID == "" || s.snapshots == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	snap, err := s.snapshots.GetSnapshot(ctx, userID)
	if errors.Is(err, finance.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot for %s: %w", userID, err)
	}
	return &snap, nil
}

func (s *ChatService) logAsync(ctx context.Context, l core.ConversationLog) {
	if s.conversations == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.conversations.Log(ctx, l)
	}()
}

// Wait blocks until in-flight conversation logs are written.
func (s *ChatService) Wait() {
	s.pending.Wait()
}
