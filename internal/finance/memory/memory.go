package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"finview/internal/core"
	"finview/internal/finance"
)

// SeedFile is the optional file NewFromFiles reads snapshots from.
const SeedFile = "seed_snapshots.toml"

// Ensure interface conformance
var (
	_ finance.SnapshotReader     = (*Store)(nil)
	_ finance.ConversationLogger = (*Store)(nil)
)

type Store struct {
	mu        sync.RWMutex
	snapshots map[string]core.Snapshot
	logs      []core.ConversationLog
}

func New(snaps ...core.Snapshot) *Store {
	s := &Store{snapshots: make(map[string]core.Snapshot, len(snaps))}
	for _, snap := range snaps {
		s.snapshots[snap.UserID()] = snap
	}
	return s
}

// NewFromFiles seeds the store from base/seed_snapshots.toml. A missing or
// unreadable file falls back to the built-in demo user.
func NewFromFiles(base string) *Store {
	path := filepath.Join(base, SeedFile)
	snaps, err := readSeed(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Ignoring invalid snapshot seed file", "path", path, "error", err)
		}
		return New(DemoSnapshot())
	}
	if len(snaps) == 0 {
		return New(DemoSnapshot())
	}
	return New(snaps...)
}

// GetSnapshot implements finance.SnapshotReader.
func (s *Store) GetSnapshot(_ context.Context, userID string) (core.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[userID]
	if !ok {
		return core.Snapshot{}, finance.ErrUserNotFound
	}
	return snap, nil
}

// UserIDs returns known user ids, sorted.
func (s *Store) UserIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.snapshots))
	for id := range s.snapshots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LogConversation implements finance.ConversationLogger. Entries are kept in
// memory and echoed to the structured log.
func (s *Store) LogConversation(ctx context.Context, l core.ConversationLog) error {
	s.mu.Lock()
	s.logs = append(s.logs, l)
	s.mu.Unlock()

	preview := l.Message
	if r := []rune(preview); len(r) > 50 {
		preview = string(r[:50]) + "..."
	}
	slog.InfoContext(ctx, "Conversation logged",
		"user_id", l.UserID,
		"rule", l.Rule,
		"training_system_used", l.TrainingSystemUsed,
		"message", preview)
	return nil
}

// Conversations returns a copy of the logged exchanges.
func (s *Store) Conversations() []core.ConversationLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.ConversationLog(nil), s.logs...)
}

type seedFile struct {
	Users []core.SnapshotData `toml:"users"`
}

func readSeed(path string) ([]core.Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f seedFile
	if err := toml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	out := make([]core.Snapshot, 0, len(f.Users))
	for i, u := range f.Users {
		snap, err := core.NewSnapshot(u)
		if err != nil {
			return nil, fmt.Errorf("user %d: %w", i, err)
		}
		out = append(out, snap)
	}
	return out, nil
}

// DemoSnapshot is the built-in demo user "user123". Its categories add up
// to 34,000 while the recorded total expenses figure is 35,000; answers are
// computed from the category sum.
func DemoSnapshot() core.Snapshot {
	day := func(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }
	return core.MustSnapshot(core.SnapshotData{
		UserID:        "user123",
		TotalIncome:   core.Rupees(50000),
		TotalExpenses: core.Rupees(35000),
		Balance:       core.Rupees(15000),
		Categories: []core.CategorySpend{
			{Name: core.CategoryFoodDining, Amount: core.Rupees(8500)},
			{Name: core.CategoryTransportation, Amount: core.Rupees(3200)},
			{Name: core.CategoryEntertainment, Amount: core.Rupees(2500)},
			{Name: core.CategoryShopping, Amount: core.Rupees(5000)},
			{Name: core.CategoryHousing, Amount: core.Rupees(12000)},
			{Name: core.CategoryHealthcare, Amount: core.Rupees(1200)},
			{Name: core.CategoryEducation, Amount: core.Rupees(800)},
			{Name: core.CategoryBillsUtilities, Amount: core.Rupees(800)},
		},
		Investments: []core.Investment{
			{Name: "NIFTY 50 Index Fund", Invested: core.Rupees(100000), CurrentValue: core.Rupees(108500)},
			{Name: "Blue Chip Stocks", Invested: core.Rupees(50000), CurrentValue: core.Rupees(52000)},
			{Name: "Debt Mutual Fund", Invested: core.Rupees(30000), CurrentValue: core.Rupees(31500)},
		},
		SIPContributions: []core.SIPContribution{
			{Fund: "NIFTY 50 Index Fund", MonthlyAmount: core.Rupees(5000), TotalContributed: core.Rupees(60000)},
			{Fund: "Small Cap Fund", MonthlyAmount: core.Rupees(2000), TotalContributed: core.Rupees(24000)},
		},
		RecentTransactions: []core.Transaction{
			{Title: "Salary Credit", Amount: core.Rupees(50000), Type: core.Income, Category: "Salary", Date: day(15)},
			{Title: "Zomato Order", Amount: core.Rupees(850), Type: core.Expense, Category: core.CategoryFoodDining, Date: day(14)},
			{Title: "Uber Ride", Amount: core.Rupees(320), Type: core.Expense, Category: core.CategoryTransportation, Date: day(14)},
		},
	})
}
