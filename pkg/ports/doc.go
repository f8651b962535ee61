// Package ports defines the driven-side interfaces of the drilldown engine:
// session persistence, distributed locking, and the messaging transport.
// Adapters implement these; the core only consumes them.
package ports
