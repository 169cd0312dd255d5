// Package app assembles the mddapi service: it builds the long-lived
// collaborators once at startup and hands them to the components, services
// and HTTP handlers that need them.
package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/kbukum/mddapi/auth/jwt"
	"github.com/kbukum/mddapi/auth/password"
	"github.com/kbukum/mddapi/auth/revocation"
	"github.com/kbukum/mddapi/component"
	"github.com/kbukum/mddapi/database"
	"github.com/kbukum/mddapi/internal/feed"
	"github.com/kbukum/mddapi/internal/identity"
	"github.com/kbukum/mddapi/internal/user"
	"github.com/kbukum/mddapi/logger"
	"github.com/kbukum/mddapi/observability"
	"github.com/kbukum/mddapi/redis"
	"github.com/kbukum/mddapi/server"
	"github.com/kbukum/mddapi/server/middleware"
)

const meterName = "github.com/kbukum/mddapi"

// AppContext holds the process-wide collaborators. It is built once and
// passed explicitly; nothing below it reaches for globals.
type AppContext struct {
	Cfg *Config
	Log *logger.Logger

	Hasher      password.Hasher
	Codec       *jwt.Codec
	Revocations revocation.Store
	AuthMetrics *observability.AuthMetrics
	HTTPMetrics *observability.Metrics

	Server  *server.Server
	Janitor *revocation.Janitor

	Auth *identity.Service
	Feed *feed.Service

	registry  *component.Registry
	database  *database.Component
	redis     *redis.Component
	telemetry *observability.Component
	routed    atomic.Bool
}

// New builds the AppContext and registers its components on registry in
// start order: telemetry, database, redis (when enabled), revocation
// janitor, routes, HTTP server.
func New(cfg *Config, registry *component.Registry, log *logger.Logger) (*AppContext, error) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	codec, err := jwt.NewCodec(&cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}

	ac := &AppContext{
		Cfg:      cfg,
		Log:      log,
		Hasher:   password.NewBcryptHasher(password.WithCost(cfg.Password.BcryptCost)),
		Codec:    codec,
		registry: registry,
	}

	ac.telemetry = observability.NewComponent(cfg.Observability, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	}, log)
	ac.database = database.NewComponent(cfg.Database, log)

	var src revocation.ClientSource
	if cfg.Redis.Enabled {
		ac.redis = redis.NewComponent(cfg.Redis, log)
		src = ac.redis
	}
	ac.Revocations, err = revocation.NewStore(cfg.Revocation, src, log)
	if err != nil {
		return nil, err
	}

	meter := observability.Meter(meterName)
	if ac.AuthMetrics, err = observability.NewAuthMetrics(meter, ac.Revocations.Size); err != nil {
		return nil, fmt.Errorf("auth metrics: %w", err)
	}
	if ac.HTTPMetrics, err = observability.NewMetrics(meter); err != nil {
		return nil, fmt.Errorf("http metrics: %w", err)
	}

	ac.Janitor = revocation.NewJanitor(ac.Revocations, cfg.Revocation.Period(), log,
		revocation.WithPurgeObserver(ac.AuthMetrics.RecordPurge))
	ac.Server = server.New(cfg.Server, log)

	comps := []component.Component{ac.telemetry, ac.database}
	if ac.redis != nil {
		comps = append(comps, ac.redis)
	}
	comps = append(comps, ac.Janitor, ac, server.NewComponent(ac.Server))
	for _, c := range comps {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return ac, nil
}

// Name implements component.Component.
func (ac *AppContext) Name() string { return "routes" }

// Start builds the database-backed services and mounts every route. It runs
// after the database and before the HTTP server starts listening.
func (ac *AppContext) Start(_ context.Context) error {
	db := ac.database.DB()
	if db == nil {
		return fmt.Errorf("routes: database not started")
	}
	users := user.NewRepository(db)

	auth, err := identity.NewService(users, ac.Hasher, ac.Codec, ac.Revocations, ac.Cfg.JWT.ExpiresInSeconds(),
		identity.WithMetrics(ac.AuthMetrics),
		identity.WithLogger(ac.Log),
	)
	if err != nil {
		return err
	}
	ac.Auth = auth
	ac.Feed = feed.NewService(feed.NewRepository(db), ac.Log)

	ac.mount(users)
	ac.routed.Store(true)
	return nil
}

// Stop implements component.Component.
func (ac *AppContext) Stop(_ context.Context) error { return nil }

// Health reports whether the routes are mounted.
func (ac *AppContext) Health(_ context.Context) component.Health {
	h := component.Health{Name: ac.Name(), Status: component.StatusHealthy}
	if !ac.routed.Load() {
		h.Status = component.StatusUnhealthy
		h.Message = "routes not mounted"
	}
	return h
}

// Describe implements component.Describable.
func (ac *AppContext) Describe() component.Description {
	return component.Description{
		Name:    "API routes",
		Type:    "router",
		Details: "auth, themes, articles, comments",
	}
}

func (ac *AppContext) mount(users *user.Repository) {
	ac.Server.ApplyMiddleware(
		middleware.Metrics(ac.HTTPMetrics),
		middleware.Gate(middleware.GateConfig{
			Parser:      ac.Codec,
			Revocations: ac.Revocations,
			Resolver:    user.NewResolver(users),
			Log:         ac.Log,
		}),
	)
	ac.Server.RegisterDefaultEndpoints(ac.Cfg.Name, ac.registry.HealthAll)

	engine := ac.Server.GinEngine()
	identity.NewHandler(ac.Auth).Register(engine)
	feed.NewHandler(ac.Feed).Register(engine)
}
