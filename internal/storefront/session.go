package storefront

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"MiniCart/internal/cart"
	"MiniCart/internal/catalog"
)

// Session is one mounted page: its own state container and the catalog load
// started for it.
type Session struct {
	ID    string
	Store *cart.Store

	cancel   context.CancelFunc
	loaded   chan struct{}
	lastSeen time.Time
}

// Loaded is closed once the catalog load has settled or was detached.
func (s *Session) Loaded() <-chan struct{} { return s.loaded }

var ErrTooManySessions = errors.New("too many sessions")

type Sessions struct {
	// Max caps mounted sessions; 0 means no cap. Set it before serving.
	Max int

	mu sync.Mutex
	m  map[string]*Session

	loader  *catalog.Loader
	ttl     time.Duration
	log     *zap.Logger
	metrics *appMetrics
	now     func() time.Time
	wg      sync.WaitGroup
}

func NewSessions(loader *catalog.Loader, ttl time.Duration, log *zap.Logger) *Sessions {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sessions{
		m:       map[string]*Session{},
		loader:  loader,
		ttl:     ttl,
		log:     log,
		metrics: newAppMetrics(nil),
		now:     time.Now,
	}
}

// Mount creates a session and starts its catalog load.
func (s *Sessions) Mount() (*Session, error) {
	ctx, cancel := context.WithCancel(context.Background())

	sess := &Session{
		ID:     uuid.NewString(),
		Store:  cart.NewStore(),
		cancel: cancel,
		loaded: make(chan struct{}),
	}

	s.mu.Lock()
	if s.Max > 0 && len(s.m) >= s.Max {
		s.mu.Unlock()
		cancel()
		return nil, ErrTooManySessions
	}
	sess.lastSeen = s.now()
	s.m[sess.ID] = sess
	n := len(s.m)
	s.mu.Unlock()

	s.metrics.sessions.Set(float64(n))
	s.log.Info("session mounted", zap.String("session_id", sess.ID), zap.Int("sessions", n))

	done := s.loader.Start(ctx, sess.Store)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(sess.loaded)

		err := <-done
		s.metrics.catalogLoads.WithLabelValues(loadOutcome(err)).Inc()
	}()

	return sess, nil
}

// Get returns a live session and marks it as seen.
func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.m[id]
	if ok {
		sess.lastSeen = s.now()
	}
	return sess, ok
}

// Teardown unmounts a session. A pending catalog load is detached and will
// not touch the discarded store.
func (s *Sessions) Teardown(id string) bool {
	s.mu.Lock()
	sess, ok := s.m[id]
	delete(s.m, id)
	n := len(s.m)
	s.mu.Unlock()

	if !ok {
		return false
	}

	s.unmount(sess)
	s.metrics.sessions.Set(float64(n))
	s.log.Info("session torn down", zap.String("session_id", id), zap.Int("sessions", n))
	return true
}

// Sweep tears down sessions idle for longer than the TTL.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var idle []*Session
	for id, sess := range s.m {
		if sess.lastSeen.Before(cutoff) {
			idle = append(idle, sess)
			delete(s.m, id)
		}
	}
	n := len(s.m)
	s.mu.Unlock()

	for _, sess := range idle {
		s.unmount(sess)
	}
	if len(idle) > 0 {
		s.metrics.sessions.Set(float64(n))
		s.log.Info("idle sessions swept", zap.Int("swept", len(idle)), zap.Int("sessions", n))
	}
	return len(idle)
}

// Close tears down every session and waits for pending loads to detach.
func (s *Sessions) Close() {
	s.mu.Lock()
	all := s.m
	s.m = map[string]*Session{}
	s.mu.Unlock()

	for _, sess := range all {
		s.unmount(sess)
	}
	s.metrics.sessions.Set(0)
	s.wg.Wait()
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

func (s *Sessions) unmount(sess *Session) {
	sess.cancel()
	sess.Store.Close()
}
