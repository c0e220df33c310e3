package cart

import "sync"

type Store struct {
	dispatchMu sync.Mutex

	mu     sync.RWMutex
	state  State
	closed bool

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(State)
}

func NewStore() *Store {
	return &Store{subs: map[int]func(State){}}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies a and returns the committed state. Dispatches are
// serialized and subscribers see committed states in order. Once the store
// is closed Dispatch leaves the state untouched.
func (s *Store) Dispatch(a Action) State {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	if s.closed {
		st := s.state
		s.mu.Unlock()
		return st
	}
	s.state = Reduce(s.state, a)
	st := s.state
	s.mu.Unlock()

	s.notify(st)
	return st
}

func (s *Store) Product(id int64) (Product, bool) {
	return s.State().Product(id)
}

// Subscribe registers fn to be called with every committed state. fn must
// not call Dispatch.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.subMu.Lock()
	clear(s.subs)
	s.subMu.Unlock()
}

func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Store) notify(st State) {
	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
