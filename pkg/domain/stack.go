package domain

// Descend pushes state onto the breadcrumb with a fresh empty frame.
func (s *Session) Descend(state State) {
	s.Breadcrumb = append(s.Breadcrumb, state)
	s.Frames = append(s.Frames, Frame{})
}

// Ascend pops the current level and the level below it, returning the state
// that is now exposed. The exposed state's previously saved frame is discarded
// together with the current one: that data described the since-superseded edge
// into the state being left. The caller must immediately Descend back into the
// returned state so it regains a fresh frame.
//
// Returns ErrCannotAscend when the breadcrumb holds fewer than two entries.
func (s *Session) Ascend() (State, error) {
	if !s.CanAscend() {
		return "", ErrCannotAscend
	}
	s.Frames = s.Frames[:len(s.Frames)-2]
	s.Breadcrumb = s.Breadcrumb[:len(s.Breadcrumb)-1]
	exposed := s.Breadcrumb[len(s.Breadcrumb)-1]
	s.Breadcrumb = s.Breadcrumb[:len(s.Breadcrumb)-1]
	return exposed, nil
}

// CanAscend reports whether there is a previous state to return to.
func (s *Session) CanAscend() bool {
	return len(s.Breadcrumb) >= 2
}

// AscendAll clears the breadcrumb and frame stack, as if freshly initialized.
func (s *Session) AscendAll() {
	s.Breadcrumb = s.Breadcrumb[:0]
	s.Frames = s.Frames[:0]
}

// Save writes a value into the current (top) frame. The data persists while
// descending below this level and is discarded when ascending above it.
// Save on an empty stack is a programming error and panics.
func (s *Session) Save(key string, value any) {
	s.Frames[len(s.Frames)-1][key] = value
}

// CurrentState returns the top of the breadcrumb, or "" when the stack is empty.
func (s *Session) CurrentState() (State, bool) {
	if len(s.Breadcrumb) == 0 {
		return "", false
	}
	return s.Breadcrumb[len(s.Breadcrumb)-1], true
}

// Depth returns the number of breadcrumb levels.
func (s *Session) Depth() int {
	return len(s.Breadcrumb)
}

// Aggregate folds the readable data view in override order: base values first,
// then debug-injected data when debug mode is on, then every frame bottom-up,
// so later frames win on key conflicts. The result is a fresh map; mutating it
// does not touch the session.
func (s *Session) Aggregate(base map[string]any) map[string]any {
	data := make(map[string]any, len(base)+len(s.DebugData))
	for k, v := range base {
		data[k] = v
	}
	if s.DebugMode {
		for k, v := range s.DebugData {
			data[k] = v
		}
	}
	for _, frame := range s.Frames {
		for k, v := range frame {
			data[k] = v
		}
	}
	return data
}
