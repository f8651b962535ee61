package ports

import (
	"context"

	"github.com/aretw0/drilldown/pkg/domain"
)

// SessionStore defines the interface for persisting conversation sessions,
// keyed by the conversation identity.
type SessionStore interface {
	// Save persists the session for a given key.
	Save(ctx context.Context, key string, session *domain.Session) error

	// Load retrieves the session for a given key.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, key string) (*domain.Session, error)

	// Delete removes the session for a given key.
	Delete(ctx context.Context, key string) error

	// List returns the keys of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
