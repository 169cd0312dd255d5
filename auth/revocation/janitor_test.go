package revocation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/mddapi/component"
	"github.com/kbukum/mddapi/logger"
)

type failingStore struct{ *MemoryStore }

func (f *failingStore) Purge(context.Context, time.Time) (int, error) {
	return 0, errors.New("backend down")
}

func TestJanitorPurgeNow(t *testing.T) {
	store := NewMemoryStore(logger.NewNop())
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = store.Revoke(ctx, "a", now.Add(-time.Minute))
	_ = store.Revoke(ctx, "b", now.Add(time.Minute))

	var observed int
	j := NewJanitor(store, time.Hour, logger.NewNop(),
		WithClock(func() time.Time { return now }),
		WithPurgeObserver(func(_ context.Context, n int) { observed = n }),
	)

	removed, err := j.PurgeNow(ctx)
	if err != nil {
		t.Fatalf("PurgeNow failed: %v", err)
	}
	if removed != 1 || observed != 1 {
		t.Errorf("expected 1 removed and observed, got %d/%d", removed, observed)
	}
	if n, _ := store.Size(ctx); n != 1 {
		t.Errorf("expected 1 entry left, got %d", n)
	}
}

func TestJanitorTicks(t *testing.T) {
	store := NewMemoryStore(logger.NewNop())
	var sweeps atomic.Int32
	j := NewJanitor(store, 10*time.Millisecond, logger.NewNop(),
		WithPurgeObserver(func(context.Context, int) { sweeps.Add(1) }),
	)

	if err := j.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := j.Start(context.Background()); err == nil {
		t.Error("expected error on double start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for sweeps.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if sweeps.Load() < 2 {
		t.Fatalf("expected at least 2 sweeps, got %d", sweeps.Load())
	}

	if h := j.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s (%s)", h.Status, h.Message)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := j.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	after := sweeps.Load()
	time.Sleep(50 * time.Millisecond)
	if sweeps.Load() != after {
		t.Error("janitor kept sweeping after Stop")
	}
	if err := j.Stop(ctx); err != nil {
		t.Errorf("second Stop should be a no-op, got %v", err)
	}
	if h := j.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy after stop, got %s", h.Status)
	}
}

func TestJanitorPurgeFailureDegrades(t *testing.T) {
	store := &failingStore{NewMemoryStore(logger.NewNop())}
	j := NewJanitor(store, time.Hour, logger.NewNop())
	if err := j.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer j.Stop(context.Background())

	if _, err := j.PurgeNow(context.Background()); err == nil {
		t.Fatal("expected purge error")
	}
	if h := j.Health(context.Background()); h.Status != component.StatusDegraded {
		t.Errorf("expected degraded, got %s", h.Status)
	}
}

func TestNewJanitorDefaults(t *testing.T) {
	j := NewJanitor(NewMemoryStore(nil), 0, nil)
	if j.period != DefaultCleanupPeriod {
		t.Errorf("expected default period, got %v", j.period)
	}
	if j.Describe().Type != "worker" {
		t.Errorf("unexpected description %+v", j.Describe())
	}
}
