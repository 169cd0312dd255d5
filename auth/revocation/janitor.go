package revocation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/mddapi/component"
	"github.com/kbukum/mddapi/logger"
)

// PurgeObserver is told how many entries each purge removed.
type PurgeObserver func(ctx context.Context, removed int)

// Janitor periodically purges expired revocations. It owns exactly one
// ticker goroutine between Start and Stop.
type Janitor struct {
	store    Store
	period   time.Duration
	now      func() time.Time
	observer PurgeObserver
	log      *logger.Logger

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	lastPurge time.Time
	lastErr   error
}

var _ component.Component = (*Janitor)(nil)

// JanitorOption customizes a Janitor.
type JanitorOption func(*Janitor)

// WithClock overrides the time source.
func WithClock(now func() time.Time) JanitorOption {
	return func(j *Janitor) { j.now = now }
}

// WithPurgeObserver registers a callback run after every successful purge.
func WithPurgeObserver(fn PurgeObserver) JanitorOption {
	return func(j *Janitor) { j.observer = fn }
}

// NewJanitor creates a janitor sweeping store every period.
func NewJanitor(store Store, period time.Duration, log *logger.Logger, opts ...JanitorOption) *Janitor {
	if period <= 0 {
		period = DefaultCleanupPeriod
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	j := &Janitor{
		store:  store,
		period: period,
		now:    time.Now,
		log:    log.WithComponent("revocation-janitor"),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Name returns the component name.
func (j *Janitor) Name() string { return "revocation-janitor" }

// Start launches the ticker goroutine. Starting twice is an error.
func (j *Janitor) Start(_ context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancel != nil {
		return fmt.Errorf("revocation janitor already started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel
	j.done = make(chan struct{})
	go j.loop(ctx, j.done)

	j.log.Info("Revocation janitor started", logger.Fields("period", j.period.String()))
	return nil
}

func (j *Janitor) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(j.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = j.PurgeNow(ctx)
		}
	}
}

// PurgeNow runs one sweep immediately and returns the removed count.
func (j *Janitor) PurgeNow(ctx context.Context) (int, error) {
	start := j.now()
	removed, err := j.store.Purge(ctx, start)

	j.mu.Lock()
	j.lastPurge = start
	j.lastErr = err
	j.mu.Unlock()

	if err != nil {
		j.log.Error("Revocation purge failed", logger.ErrorFields("purge", err))
		return 0, err
	}
	if j.observer != nil {
		j.observer(ctx, removed)
	}

	fields := logger.DurationFields("purge", j.now().Sub(start))
	fields[logger.FieldCount] = removed
	if removed > 0 {
		j.log.Info("Purged expired revocations", fields)
	} else {
		j.log.Debug("No expired revocations to purge", fields)
	}
	return removed, nil
}

// Stop cancels the ticker goroutine and waits for it to exit or ctx to end.
func (j *Janitor) Stop(ctx context.Context) error {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.cancel, j.done = nil, nil
	j.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		j.log.Info("Revocation janitor stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("revocation janitor stop: %w", ctx.Err())
	}
}

// Health reports whether the janitor runs and how the last sweep went.
func (j *Janitor) Health(ctx context.Context) component.Health {
	j.mu.Lock()
	running, lastErr, lastPurge := j.cancel != nil, j.lastErr, j.lastPurge
	j.mu.Unlock()

	h := component.Health{Name: j.Name(), Status: component.StatusHealthy}
	switch {
	case !running:
		h.Status = component.StatusUnhealthy
		h.Message = "janitor not running"
	case lastErr != nil:
		h.Status = component.StatusDegraded
		h.Message = fmt.Sprintf("last purge failed: %v", lastErr)
	default:
		var parts []string
		if size, err := j.store.Size(ctx); err == nil {
			parts = append(parts, fmt.Sprintf("entries=%d", size))
		}
		if !lastPurge.IsZero() {
			parts = append(parts, "last_purge="+lastPurge.UTC().Format(time.RFC3339))
		}
		h.Message = strings.Join(parts, " ")
	}
	return h
}

// Describe returns summary info for the startup log.
func (j *Janitor) Describe() component.Description {
	return component.Description{
		Name:    "Revocation janitor",
		Type:    "worker",
		Details: fmt.Sprintf("%T period=%s", j.store, j.period),
	}
}
