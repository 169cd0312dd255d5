// Package component defines the lifecycle contract shared by the service's
// infrastructure pieces and a registry that drives it.
//
// Components are started in registration order and stopped in reverse,
// each Stop bounded by DefaultStopTimeout.
//
//   - Component: Name/Start/Stop/Health
//   - Describable: optional startup summary
//   - Registry: ordered lifecycle and aggregated health
package component
