package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/drilldown/pkg/domain"
	"github.com/aretw0/drilldown/pkg/ports"
)

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks frame and debug values
// whose keys match the patterns before they reach the underlying store. The
// in-memory session the engine works with stays untouched.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, key string, session *domain.Session) error {
	// Session.Clone copies frame values shallowly; nested maps need their
	// own copy before masking or the in-memory session would be mutated.
	cloned := session.Clone()
	for i, frame := range cloned.Frames {
		copied := deepCopyMap(frame)
		maskMap(copied, m.patterns)
		cloned.Frames[i] = copied
	}
	if cloned.DebugData != nil {
		cloned.DebugData = deepCopyMap(cloned.DebugData)
		maskMap(cloned.DebugData, m.patterns)
	}
	return m.next.Save(ctx, key, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, key string) (*domain.Session, error) {
	return m.next.Load(ctx, key)
}

func (m *piiMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if subMap, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(subMap)
		} else {
			out[k] = v // shallow copy of value
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = "***"
				break
			}
		}

		// Recurse if map
		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
