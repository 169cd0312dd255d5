// Package bootstrap drives the process lifecycle: it builds the logger from
// the service config, starts registered components in order, waits for a
// signal or for a finite task, and stops components in reverse.
//
//	a, err := bootstrap.NewApp(cfg)
//	_ = a.RegisterComponent(database.NewComponent(cfg.Database, a.Logger))
//	err = a.Run(ctx)
package bootstrap
