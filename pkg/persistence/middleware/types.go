// Package middleware provides SessionStore decorators: encryption at rest
// and PII masking of collected frame data.
package middleware

import "github.com/aretw0/drilldown/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore
