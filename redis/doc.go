// Package redis wraps go-redis with the service's logging and config
// conventions and exposes it as a lifecycle component.
//
// It backs the shared token revocation store when revocation.backend is
// "redis":
//
//	comp := redis.NewComponent(cfg.Redis, log)
//	registry.Register(comp)
//	store := revocation.NewRedisStore(comp, cfg.Revocation, log)
package redis
