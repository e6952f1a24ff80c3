package preview

// SyncTarget holds the pending scroll target for the content pane: the
// message the pane should jump to once it has finished rendering the newly
// selected block. Each Set bumps a generation; a consumer that waited out
// the render settle delay presents its generation to Take, and a stale one
// (superseded or cleared mid-wait) gets nothing, so scroll commands can
// never land on the wrong block.
type SyncTarget struct {
	id  string
	gen int
	set bool
}

// Set records a pending scroll target and returns the generation the
// eventual Take must present.
func (s *SyncTarget) Set(id string) int {
	s.id = id
	s.set = true
	s.gen++
	return s.gen
}

// Clear drops the pending target. Any outstanding Take goes stale.
func (s *SyncTarget) Clear() {
	s.id = ""
	s.set = false
	s.gen++
}

// Take consumes the pending target if gen is current. It returns the
// message id and whether the scroll command should be issued.
func (s *SyncTarget) Take(gen int) (string, bool) {
	if !s.set || gen != s.gen {
		return "", false
	}
	id := s.id
	s.id = ""
	s.set = false
	return id, true
}

// Pending reports whether a target is waiting to be consumed.
func (s *SyncTarget) Pending() bool {
	return s.set
}
