package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"finview/internal/core"
	"finview/internal/finance"

	_ "modernc.org/sqlite"
)

// Ensure interface conformance
var (
	_ finance.SnapshotReader     = (*SQLiteRepository)(nil)
	_ finance.ConversationLogger = (*SQLiteRepository)(nil)
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// timestampLayout sorts lexically in time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func dsn(dbPath string) string {
	return dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

// Ping checks that the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// GetSnapshot implements finance.SnapshotReader. The child tables are
// loaded concurrently once the user row is known to exist.
func (r *SQLiteRepository) GetSnapshot(ctx context.Context, userID string) (core.Snapshot, error) {
	u, err := r.queries.GetUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Snapshot{}, finance.ErrUserNotFound
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("get user: %w", err)
	}

	data := core.SnapshotData{
		UserID:        u.UserID,
		TotalIncome:   u.TotalIncome,
		TotalExpenses: u.TotalExpenses,
		Balance:       u.Balance,
	}
	var txRows []TransactionRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Categories, err = r.queries.ListCategorySpend(gctx, userID)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		data.Investments, err = r.queries.ListInvestments(gctx, userID)
		if err != nil {
			return fmt.Errorf("list investments: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		data.SIPContributions, err = r.queries.ListSIPContributions(gctx, userID)
		if err != nil {
			return fmt.Errorf("list sip contributions: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		txRows, err = r.queries.ListTransactions(gctx, userID)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Snapshot{}, err
	}

	for _, row := range txRows {
		date, err := time.Parse(time.RFC3339, row.OccurredOn)
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("transaction %q date: %w", row.Title, err)
		}
		data.RecentTransactions = append(data.RecentTransactions, core.Transaction{
			Title:    row.Title,
			Amount:   row.Amount,
			Type:     core.TransactionType(row.Type),
			Category: row.Category,
			Date:     date,
		})
	}

	snap, err := core.NewSnapshot(data)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("build snapshot for %s: %w", userID, err)
	}
	return snap, nil
}

// SaveSnapshot replaces everything stored for the snapshot's user.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, snap core.Snapshot) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	q := r.queries.WithTx(tx)
	userID := snap.UserID()
	if err = q.UpsertUser(ctx, User{
		UserID:        userID,
		TotalIncome:   snap.TotalIncome(),
		TotalExpenses: snap.TotalExpenses(),
		Balance:       snap.Balance(),
	}); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	if err = q.DeleteUserChildren(ctx, userID); err != nil {
		return fmt.Errorf("clear user data: %w", err)
	}
	for i, c := range snap.Categories() {
		if err = q.InsertCategorySpend(ctx, userID, i, c); err != nil {
			return fmt.Errorf("insert category %s: %w", c.Name, err)
		}
	}
	for i, inv := range snap.Investments() {
		if err = q.InsertInvestment(ctx, userID, i, inv); err != nil {
			return fmt.Errorf("insert investment %s: %w", inv.Name, err)
		}
	}
	for i, s := range snap.SIPContributions() {
		if err = q.InsertSIPContribution(ctx, userID, i, s); err != nil {
			return fmt.Errorf("insert sip %s: %w", s.Fund, err)
		}
	}
	for i, t := range snap.RecentTransactions() {
		if err = q.InsertTransaction(ctx, userID, i, TransactionRow{
			Title:      t.Title,
			Amount:     t.Amount,
			Type:       string(t.Type),
			Category:   t.Category,
			OccurredOn: t.Date.UTC().Format(time.RFC3339),
		}); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.Title, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot saved to SQLite",
		"user_id", userID,
		"categories", len(snap.Categories()),
		"transactions", len(snap.RecentTransactions()))
	return nil
}

// UserIDs lists every stored user, sorted.
func (r *SQLiteRepository) UserIDs(ctx context.Context) ([]string, error) {
	ids, err := r.queries.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ids, nil
}

// LogConversation implements finance.ConversationLogger. Logging the same
// id twice is a no-op.
func (r *SQLiteRepository) LogConversation(ctx context.Context, l core.ConversationLog) error {
	inserted, err := r.queries.InsertConversationLog(ctx, ConversationLogRow{
		ID:                 l.ID,
		UserID:             l.UserID,
		Message:            l.Message,
		Reply:              l.Reply,
		Rule:               l.Rule,
		TrainingSystemUsed: l.TrainingSystemUsed,
		CreatedAt:          l.CreatedAt.UTC().Format(timestampLayout),
	})
	if err != nil {
		return fmt.Errorf("insert conversation log: %w", err)
	}
	if !inserted {
		slog.DebugContext(ctx, "Conversation log already stored", "id", l.ID)
		return nil
	}
	slog.InfoContext(ctx, "Conversation saved to SQLite", "id", l.ID, "user_id", l.UserID, "rule", l.Rule)
	return nil
}

// PendingMirror returns up to limit logs not yet copied to the mirror that
// have failed fewer than maxAttempts times. Logs with fewer failures come
// first, then oldest first.
func (r *SQLiteRepository) PendingMirror(ctx context.Context, limit, maxAttempts int) ([]core.ConversationLog, error) {
	rows, err := r.queries.GetPendingMirrorLogs(ctx, int64(maxAttempts), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending mirror logs: %w", err)
	}
	logs := make([]core.ConversationLog, 0, len(rows))
	for _, row := range rows {
		created, err := time.Parse(timestampLayout, row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("conversation %s created_at: %w", row.ID, err)
		}
		logs = append(logs, core.ConversationLog{
			ID:                 row.ID,
			UserID:             row.UserID,
			Message:            row.Message,
			Reply:              row.Reply,
			Rule:               row.Rule,
			TrainingSystemUsed: row.TrainingSystemUsed,
			CreatedAt:          created,
		})
	}
	return logs, nil
}

// MarkMirrored records that a log reached the mirror.
func (r *SQLiteRepository) MarkMirrored(ctx context.Context, id string, at time.Time) error {
	if err := r.queries.MarkConversationMirrored(ctx, id, at.UTC().Format(timestampLayout)); err != nil {
		return fmt.Errorf("mark conversation mirrored: %w", err)
	}
	slog.DebugContext(ctx, "Conversation marked as mirrored", "id", id)
	return nil
}

// RecordMirrorFailure counts a failed copy of log id and keeps the reason.
func (r *SQLiteRepository) RecordMirrorFailure(ctx context.Context, id string, reason error) error {
	msg := ""
	if reason != nil {
		msg = reason.Error()
	}
	if err := r.queries.IncrementMirrorAttempt(ctx, id, msg); err != nil {
		return fmt.Errorf("record mirror failure: %w", err)
	}
	return nil
}

// ConversationCount is the number of stored logs.
func (r *SQLiteRepository) ConversationCount(ctx context.Context) (int64, error) {
	n, err := r.queries.CountConversationLogs(ctx)
	if err != nil {
		return 0, fmt.Errorf("count conversation logs: %w", err)
	}
	return n, nil
}
