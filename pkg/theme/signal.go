package theme

import "sync"

// SignalSource is a SystemSource fed manually, for wiring platform appearance
// hooks (or tests) into the coordinator.
type SignalSource struct {
	mu      sync.Mutex
	current Resolved
	subs    map[int]func(Resolved)
	nextID  int
}

// NewSignalSource returns a source reporting the given initial appearance.
func NewSignalSource(initial Resolved) *SignalSource {
	return &SignalSource{current: initial, subs: make(map[int]func(Resolved))}
}

func (s *SignalSource) Resolved() Resolved {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *SignalSource) Subscribe(fn func(Resolved)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Set updates the appearance and notifies subscribers synchronously.
func (s *SignalSource) Set(r Resolved) {
	s.mu.Lock()
	if s.current == r {
		s.mu.Unlock()
		return
	}
	s.current = r
	fns := make([]func(Resolved), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(r)
	}
}
