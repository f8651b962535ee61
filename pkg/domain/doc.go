// Package domain contains the core types of the drilldown engine: navigation
// states, the per-conversation Session with its breadcrumb and frame stack,
// inbound updates, and the error taxonomy shared by every layer.
//
// The package has no dependencies on transports or stores; adapters and the
// runtime build on top of it.
package domain
