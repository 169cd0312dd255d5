// Package resilience retries operations that can fail transiently, such as
// the first database connection or Redis ping at startup.
//
//	err := resilience.RetryFunc(ctx, resilience.StartupRetryConfig(5), func() error {
//	    return db.PingContext(ctx)
//	})
package resilience
