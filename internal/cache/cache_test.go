package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"finview/internal/core"
	"finview/internal/finance"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("a = %d, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("size = %d", c.Size())
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a should be deleted")
	}
	c.Purge()
	if c.Size() != 0 {
		t.Errorf("size after purge = %d", c.Size())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	c := NewLRUCache[string](10, time.Minute)
	c.now = clock.now

	c.Set("a", "x")
	c.Set("b", "y")
	clock.advance(30 * time.Second)
	c.Set("b", "z")
	clock.advance(40 * time.Second)

	if _, ok := c.Get("a"); ok {
		t.Error("a should have expired")
	}
	if v, ok := c.Get("b"); !ok || v != "z" {
		t.Errorf("b = %q, %v", v, ok)
	}

	c.Set("c", "w")
	clock.advance(2 * time.Minute)
	if n := c.CleanExpired(); n != 2 {
		t.Errorf("cleaned %d, want 2", n)
	}
	if c.Size() != 0 {
		t.Errorf("size = %d", c.Size())
	}
}

func TestManagerSweep(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	c := NewLRUCache[int](10, time.Second)
	c.now = clock.now
	c.Set("a", 1)

	m := NewManager()
	m.Register(c)
	m.StartCleanup(time.Hour)
	defer m.Stop()

	if n := m.Sweep(); n != 0 {
		t.Errorf("swept %d before expiry", n)
	}
	clock.advance(2 * time.Second)
	if n := m.Sweep(); n != 1 {
		t.Errorf("swept %d, want 1", n)
	}
}

type countingReader struct {
	calls atomic.Int32
	gate  chan struct{}
	snaps map[string]core.Snapshot
	err   error
}

func (r *countingReader) GetSnapshot(_ context.Context, userID string) (core.Snapshot, error) {
	r.calls.Add(1)
	if r.gate != nil {
		<-r.gate
	}
	if r.err != nil {
		return core.Snapshot{}, r.err
	}
	s, ok := r.snaps[userID]
	if !ok {
		return core.Snapshot{}, finance.ErrUserNotFound
	}
	return s, nil
}

func TestSnapshotCacheHitsAndMisses(t *testing.T) {
	snap := core.MustSnapshot(core.SnapshotData{UserID: "user123", TotalIncome: core.Rupees(10)})
	next := &countingReader{snaps: map[string]core.Snapshot{"user123": snap}}
	c := NewSnapshotCache(next, 8, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := c.GetSnapshot(ctx, "user123")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.UserID() != "user123" {
			t.Fatalf("user = %s", got.UserID())
		}
	}
	if n := next.calls.Load(); n != 1 {
		t.Errorf("backend calls = %d, want 1", n)
	}

	for i := 0; i < 2; i++ {
		if _, err := c.GetSnapshot(ctx, "ghost"); !errors.Is(err, finance.ErrUserNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if n := next.calls.Load(); n != 3 {
		t.Errorf("not-found results must not be cached, calls = %d", n)
	}

	c.Invalidate("user123")
	if _, err := c.GetSnapshot(ctx, "user123"); err != nil {
		t.Fatalf("get after invalidate: %v", err)
	}
	if n := next.calls.Load(); n != 4 {
		t.Errorf("calls after invalidate = %d, want 4", n)
	}
}

func TestSnapshotCacheCollapsesConcurrentMisses(t *testing.T) {
	snap := core.MustSnapshot(core.SnapshotData{UserID: "user123"})
	next := &countingReader{
		gate:  make(chan struct{}),
		snaps: map[string]core.Snapshot{"user123": snap},
	}
	c := NewSnapshotCache(next, 8, time.Minute)

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetSnapshot(context.Background(), "user123")
			errs <- err
		}()
	}
	for next.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(next.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	if n := next.calls.Load(); n != 1 {
		t.Errorf("backend calls = %d, want 1", n)
	}
}

func TestSnapshotCacheBackendError(t *testing.T) {
	next := &countingReader{err: errors.New("boom")}
	c := NewSnapshotCache(next, 8, time.Minute)
	if _, err := c.GetSnapshot(context.Background(), "user123"); err == nil {
		t.Fatal("expected error")
	}
}

// ctxReader blocks until gate closes or the lookup ctx is done.
type ctxReader struct {
	calls atomic.Int32
	gate  chan struct{}
	snap  core.Snapshot
}

func (r *ctxReader) GetSnapshot(ctx context.Context, _ string) (core.Snapshot, error) {
	r.calls.Add(1)
	select {
	case <-r.gate:
		return r.snap, nil
	case <-ctx.Done():
		return core.Snapshot{}, ctx.Err()
	}
}

func TestSnapshotCacheFirstCallerCancelDoesNotFailOthers(t *testing.T) {
	next := &ctxReader{
		gate: make(chan struct{}),
		snap: core.MustSnapshot(core.SnapshotData{UserID: "user123"}),
	}
	c := NewSnapshotCache(next, 8, time.Minute)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.GetSnapshot(firstCtx, "user123")
		firstErr <- err
	}()
	for next.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	secondErr := make(chan error, 1)
	go func() {
		_, err := c.GetSnapshot(context.Background(), "user123")
		secondErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller err = %v, want context.Canceled", err)
	}

	close(next.gate)
	if err := <-secondErr; err != nil {
		t.Fatalf("second caller err = %v, want nil", err)
	}
	if n := next.calls.Load(); n != 1 {
		t.Errorf("backend calls = %d, want 1", n)
	}
	if c.Size() != 1 {
		t.Errorf("cache size = %d, want 1", c.Size())
	}
}
