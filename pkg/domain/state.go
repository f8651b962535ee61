package domain

// State identifies a node in the navigation graph.
type State string

// Sentinel states. They are interpreted by the navigation controller and must
// never be bound to a transition. The NUL prefix keeps them out of the space
// of regular identifiers.
const (
	// Home jumps to the configured root state, discarding all history.
	Home State = "\x00home"

	// Back returns to the previous state on the breadcrumb.
	Back State = "\x00back"

	// End terminates the conversation flow entirely.
	End State = "\x00end"
)

// IsSentinel reports whether s is one of the reserved navigation values.
func (s State) IsSentinel() bool {
	return s == Home || s == Back || s == End
}

// Frame accumulates the data saved while leaving one breadcrumb level.
type Frame map[string]any

// Session is the per-conversation persistent record. Breadcrumb and Frames are
// strictly paired index-for-index: Frames[i] holds the data produced on the
// edge leaving Breadcrumb[i].
type Session struct {
	Breadcrumb []State `json:"breadcrumb"`
	Frames     []Frame `json:"frames"`

	// DebugMode injects DebugData into the aggregated view and switches
	// fault replies to full detail.
	DebugMode bool           `json:"debug_mode,omitempty"`
	DebugData map[string]any `json:"debug_data,omitempty"`

	// KeyboardID is the message id of the live options keyboard, 0 if none.
	// KeyboardStale marks that something was sent after it, pushing it out
	// of visual context.
	KeyboardID    int  `json:"keyboard_id,omitempty"`
	KeyboardStale bool `json:"keyboard_stale,omitempty"`
}

// NewSession creates an empty session with no navigation history.
func NewSession() *Session {
	return &Session{
		Breadcrumb: []State{},
		Frames:     []Frame{},
	}
}

// EnableDebug turns on debug mode and merges data into the injected set.
func (s *Session) EnableDebug(data map[string]any) {
	s.DebugMode = true
	if s.DebugData == nil {
		s.DebugData = make(map[string]any)
	}
	for k, v := range data {
		s.DebugData[k] = v
	}
}

// Clone returns a deep copy of the session, isolating frames and debug data.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	next := *s
	next.Breadcrumb = append([]State(nil), s.Breadcrumb...)
	next.Frames = make([]Frame, len(s.Frames))
	for i, f := range s.Frames {
		next.Frames[i] = make(Frame, len(f))
		for k, v := range f {
			next.Frames[i][k] = v
		}
	}
	if s.DebugData != nil {
		next.DebugData = make(map[string]any, len(s.DebugData))
		for k, v := range s.DebugData {
			next.DebugData[k] = v
		}
	}
	return &next
}
