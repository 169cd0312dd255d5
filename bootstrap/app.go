package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/mddapi/component"
	"github.com/kbukum/mddapi/logger"
	"github.com/kbukum/mddapi/version"
)

const defaultShutdownTimeout = 15 * time.Second

// Hook runs at a fixed point of the lifecycle.
type Hook func(ctx context.Context) error

// App owns the component registry of one process and drives it from start
// to shutdown.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	shutdownTimeout time.Duration
	onReady         []Hook
	onStop          []Hook
}

// NewApp applies defaults to cfg, validates it and builds the logger and
// the empty registry.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	s := settings{shutdownTimeout: defaultShutdownTimeout}
	for _, opt := range opts {
		opt(&s)
	}

	base := cfg.GetServiceConfig()
	if s.log == nil {
		s.log = logger.Init(&base.Logging, base.Name)
	}
	ver := base.Version
	if ver == "" {
		ver = version.Get().Version
	}

	return &App[C]{
		Name:            base.Name,
		Version:         ver,
		Cfg:             cfg,
		Components:      component.NewRegistry(s.log),
		Logger:          s.log,
		shutdownTimeout: s.shutdownTimeout,
	}, nil
}

// RegisterComponent appends c to the start order.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnReady registers hooks that run once every component has started.
func (a *App[C]) OnReady(hooks ...Hook) { a.onReady = append(a.onReady, hooks...) }

// OnStop registers hooks that run before components are stopped.
func (a *App[C]) OnStop(hooks ...Hook) { a.onStop = append(a.onStop, hooks...) }

// Run starts the components and blocks until SIGINT, SIGTERM or ctx is done,
// then shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	return a.RunTask(ctx, func(ctx context.Context) error {
		a.Logger.Info("Serving until shutdown signal")
		<-ctx.Done()
		return nil
	})
}

// RunTask starts the components, runs task and shuts down when it returns.
// The task context is canceled on SIGINT or SIGTERM. A task error wins over
// a shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := a.start(taskCtx); err != nil {
		_ = a.stop()
		return err
	}

	taskErr := task(taskCtx)
	if taskCtx.Err() != nil && ctx.Err() == nil {
		a.Logger.Info("Shutdown signal received")
	}

	stopErr := a.stop()
	if taskErr != nil {
		return taskErr
	}
	return stopErr
}

// Unhealthy returns "name=status(message)" for every component that does
// not report healthy.
func (a *App[C]) Unhealthy(ctx context.Context) []string {
	var out []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		entry := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			entry += "(" + h.Message + ")"
		}
		out = append(out, entry)
	}
	return out
}

func (a *App[C]) start(ctx context.Context) error {
	began := time.Now()
	info := version.Get()
	a.Logger.Info("Starting", logger.Fields(
		"name", a.Name,
		"version", a.Version,
		"commit", info.GitCommit,
		"go_version", info.GoVersion,
	))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("start components: %w", err)
	}
	if bad := a.Unhealthy(ctx); len(bad) > 0 {
		a.Logger.Warn("Components not healthy after start", logger.Fields(
			"components", strings.Join(bad, ", "),
		))
	}
	for i, h := range a.onReady {
		if err := h(ctx); err != nil {
			return fmt.Errorf("ready hook %d: %w", i, err)
		}
	}

	a.Logger.Info("Started", logger.Fields(
		"components", len(a.Components.All()),
		logger.FieldDuration, time.Since(began).Milliseconds(),
	))
	return nil
}

func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	a.Logger.Info("Shutting down", logger.Fields("timeout", a.shutdownTimeout.String()))

	var errs []error
	for i, h := range a.onStop {
		if err := h(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop hook %d: %w", i, err))
		}
	}
	if err := a.Components.StopAll(ctx); err != nil {
		errs = append(errs, err)
	}

	err := errors.Join(errs...)
	if err != nil {
		a.Logger.Error("Shutdown finished with errors", logger.Fields(logger.FieldError, err.Error()))
		return err
	}
	a.Logger.Info("Shutdown complete")
	return nil
}
