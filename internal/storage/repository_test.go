package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"finview/internal/core"
	"finview/internal/finance"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "finview.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSeededDemoUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	snap, err := repo.GetSnapshot(ctx, "user123")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if got := snap.CategoryTotal().String(); got != "₹34,000" {
		t.Errorf("category total = %s", got)
	}
	if got := len(snap.Categories()); got != 8 {
		t.Errorf("categories = %d, want 8", got)
	}
	if got, _ := snap.Category(core.CategoryFoodDining); got.String() != "₹8,500" {
		t.Errorf("food = %s", got.String())
	}
	if got := len(snap.Investments()); got != 3 {
		t.Errorf("investments = %d, want 3", got)
	}
	if got := len(snap.SIPContributions()); got != 2 {
		t.Errorf("sips = %d, want 2", got)
	}
	txs := snap.RecentTransactions()
	if len(txs) != 3 || txs[0].Title != "Salary Credit" || txs[0].Type != core.Income {
		t.Fatalf("unexpected transactions: %+v", txs)
	}
	if want := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC); !txs[0].Date.Equal(want) {
		t.Errorf("salary date = %v", txs[0].Date)
	}
}

func TestGetSnapshotUnknownUser(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetSnapshot(context.Background(), "nobody")
	if !errors.Is(err, finance.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSaveSnapshotReplaces(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := core.MustSnapshot(core.SnapshotData{
		UserID:      "alice",
		TotalIncome: core.Rupees(1000),
		Categories: []core.CategorySpend{
			{Name: core.CategoryShopping, Amount: core.Rupees(300)},
			{Name: core.CategoryHousing, Amount: core.Rupees(500)},
		},
	})
	if err := repo.SaveSnapshot(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := core.MustSnapshot(core.SnapshotData{
		UserID:      "alice",
		TotalIncome: core.Rupees(2000),
		Categories: []core.CategorySpend{
			{Name: core.CategoryEducation, Amount: core.Rupees(250)},
		},
	})
	if err := repo.SaveSnapshot(ctx, second); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := repo.GetSnapshot(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if names := got.CategoryNames(); len(names) != 1 || names[0] != core.CategoryEducation {
		t.Errorf("categories = %v", names)
	}
	if got.TotalIncome().String() != "₹2,000" {
		t.Errorf("income = %s", got.TotalIncome().String())
	}

	ids, err := repo.UserIDs(ctx)
	if err != nil {
		t.Fatalf("user ids: %v", err)
	}
	if len(ids) != 2 || ids[0] != "alice" || ids[1] != "user123" {
		t.Errorf("ids = %v", ids)
	}
}

func TestConversationLogMirrorQueue(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"b", "a", "c"} {
		err := repo.LogConversation(ctx, core.ConversationLog{
			ID:        id,
			UserID:    "user123",
			Message:   "hi",
			Reply:     "hello",
			Rule:      "default",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("log %s: %v", id, err)
		}
	}
	// Same id again is ignored.
	if err := repo.LogConversation(ctx, core.ConversationLog{ID: "a", Message: "dup", CreatedAt: base}); err != nil {
		t.Fatalf("duplicate log: %v", err)
	}
	if n, err := repo.ConversationCount(ctx); err != nil || n != 3 {
		t.Fatalf("count = %d, %v", n, err)
	}

	pending, err := repo.PendingMirror(ctx, 2, 5)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "b" || pending[1].ID != "a" {
		t.Fatalf("unexpected pending order: %+v", pending)
	}
	if pending[1].Message != "hi" || !pending[0].CreatedAt.Equal(base) {
		t.Errorf("unexpected row contents: %+v", pending[0])
	}

	for _, l := range pending {
		if err := repo.MarkMirrored(ctx, l.ID, time.Now()); err != nil {
			t.Fatalf("mark: %v", err)
		}
	}
	pending, err = repo.PendingMirror(ctx, 10, 5)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "c" {
		t.Fatalf("expected only c pending, got %+v", pending)
	}
}

func TestConversationLogMirrorFailures(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "new"} {
		err := repo.LogConversation(ctx, core.ConversationLog{
			ID:        id,
			Message:   "hi",
			Reply:     "hello",
			Rule:      "default",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("log %s: %v", id, err)
		}
	}

	if err := repo.RecordMirrorFailure(ctx, "old", errors.New("quota exceeded")); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	pending, err := repo.PendingMirror(ctx, 1, 3)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "new" {
		t.Fatalf("a failed log should queue behind newer ones, got %+v", pending)
	}

	if err := repo.RecordMirrorFailure(ctx, "old", errors.New("quota exceeded")); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	pending, err = repo.PendingMirror(ctx, 10, 2)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "new" {
		t.Fatalf("log at max attempts should be skipped, got %+v", pending)
	}
}
