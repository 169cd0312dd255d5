// Package version exposes build information.
//
// Version, commit and build time are stamped at link time:
//
//	go build -ldflags "-X github.com/kbukum/mddapi/version.Version=1.2.0" ./cmd/mddapi
//
// Missing values are filled from the module's embedded VCS settings.
package version
