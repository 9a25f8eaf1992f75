package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finview/internal/core"
	"finview/internal/finance"
)

// MirrorSource is the durable store conversation logs are mirrored from.
type MirrorSource interface {
	PendingMirror(ctx context.Context, limit, maxAttempts int) ([]core.ConversationLog, error)
	MarkMirrored(ctx context.Context, id string, at time.Time) error
	RecordMirrorFailure(ctx context.Context, id string, reason error) error
}

type MirrorProcessorConfig struct {
	// PollInterval is how often to check for unmirrored logs (default: 30s)
	PollInterval time.Duration

	// BatchSize is the max number of logs copied per poll (default: 10)
	BatchSize int

	// MaxAttempts is how many failed copies a log gets before it is left
	// behind (default: 5)
	MaxAttempts int
}

func DefaultMirrorProcessorConfig() MirrorProcessorConfig {
	return MirrorProcessorConfig{
		PollInterval: 30 * time.Second,
		BatchSize:    10,
		MaxAttempts:  5,
	}
}

// MirrorProcessor copies stored conversation logs to a secondary logger,
// usually a spreadsheet, and marks them once copied.
type MirrorProcessor struct {
	source MirrorSource
	sink   finance.ConversationLogger
	config MirrorProcessorConfig
	now    func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewMirrorProcessor(source MirrorSource, sink finance.ConversationLogger, config MirrorProcessorConfig) *MirrorProcessor {
	defaults := DefaultMirrorProcessorConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	return &MirrorProcessor{
		source: source,
		sink:   sink,
		config: config,
		now:    time.Now,
	}
}

// Start begins the polling loop. Returns an error if already running.
func (p *MirrorProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("mirror processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Mirror processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize)
	return nil
}

// Stop signals the loop and waits for the current batch to finish.
func (p *MirrorProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.running = false
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Mirror processor stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Mirror processor stop timed out")
		return ctx.Err()
	}
}

func (p *MirrorProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *MirrorProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.ProcessBatch(ctx)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch mirrors one batch and returns how many logs were copied. A
// log that fails to copy is retried behind logs with fewer failures, until
// it reaches MaxAttempts.
func (p *MirrorProcessor) ProcessBatch(ctx context.Context) int {
	logs, err := p.source.PendingMirror(ctx, p.config.BatchSize, p.config.MaxAttempts)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read pending conversation logs", "error", err)
		return 0
	}
	if len(logs) == 0 {
		return 0
	}

	slog.DebugContext(ctx, "Mirroring conversation logs", "count", len(logs))

	copied := 0
	for _, l := range logs {
		if ctx.Err() != nil {
			break
		}
		if err := p.sink.LogConversation(ctx, l); err != nil {
			p.handleFailure(ctx, l, err)
			continue
		}
		if err := p.source.MarkMirrored(ctx, l.ID, p.now()); err != nil {
			slog.ErrorContext(ctx, "Failed to mark conversation log mirrored", "id", l.ID, "error", err)
			continue
		}
		copied++
	}
	if copied > 0 {
		slog.InfoContext(ctx, "Conversation logs mirrored", "count", copied, "batch", len(logs))
	}
	return copied
}

func (p *MirrorProcessor) handleFailure(ctx context.Context, l core.ConversationLog, copyErr error) {
	slog.WarnContext(ctx, "Failed to mirror conversation log", "id", l.ID, "error", copyErr)
	if err := p.source.RecordMirrorFailure(ctx, l.ID, copyErr); err != nil {
		slog.ErrorContext(ctx, "Failed to record mirror failure", "id", l.ID, "error", err)
	}
}
