package storefront

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"MiniCart/internal/cart"
	"MiniCart/internal/catalog"
)

type gatedSource struct {
	started chan struct{}
	release chan struct{}
}

func newGatedSource() *gatedSource {
	return &gatedSource{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (g *gatedSource) FetchProducts(ctx context.Context) ([]cart.Product, error) {
	g.started <- struct{}{}
	select {
	case <-g.release:
		return []cart.Product{{ID: 1, Title: "late"}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func mount(t *testing.T, sessions *Sessions) *Session {
	t.Helper()
	sess, err := sessions.Mount()
	require.NoError(t, err)
	return sess
}

func waitLoaded(t *testing.T, sess *Session) {
	t.Helper()
	select {
	case <-sess.Loaded():
	case <-time.After(2 * time.Second):
		t.Fatal("catalog load did not settle")
	}
}

func TestSessions_MountLoadsCatalog(t *testing.T) {
	sessions := NewSessions(catalog.NewLoader(catalog.NewDemoSource(), nil), time.Hour, zap.NewNop())
	t.Cleanup(sessions.Close)

	sess := mount(t, sessions)
	waitLoaded(t, sess)

	st := sess.Store.State()
	assert.Equal(t, cart.PhaseSuccess, st.Phase())
	assert.Len(t, st.Catalog, 3)

	got, ok := sessions.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)
}

func TestSessions_TeardownDetachesPendingLoad(t *testing.T) {
	src := newGatedSource()
	sessions := NewSessions(catalog.NewLoader(src, nil), time.Hour, zap.NewNop())
	t.Cleanup(sessions.Close)

	sess := mount(t, sessions)
	<-src.started
	require.True(t, sess.Store.State().Loading)

	require.True(t, sessions.Teardown(sess.ID))
	assert.False(t, sessions.Teardown(sess.ID))
	waitLoaded(t, sess)

	st := sess.Store.State()
	assert.True(t, sess.Store.Closed())
	assert.True(t, st.Loading)
	assert.Nil(t, st.Catalog)

	_, ok := sessions.Get(sess.ID)
	assert.False(t, ok)
}

func TestSessions_SweepEvictsIdle(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	sessions := NewSessions(catalog.NewLoader(catalog.NewDemoSource(), nil), 10*time.Minute, zap.NewNop())
	sessions.now = func() time.Time { return now }
	t.Cleanup(sessions.Close)

	idle := mount(t, sessions)
	active := mount(t, sessions)
	waitLoaded(t, idle)
	waitLoaded(t, active)

	now = now.Add(6 * time.Minute)
	_, ok := sessions.Get(active.ID)
	require.True(t, ok)

	now = now.Add(6 * time.Minute)
	assert.Equal(t, 1, sessions.Sweep())
	assert.Equal(t, 1, sessions.Len())

	_, ok = sessions.Get(idle.ID)
	assert.False(t, ok)
	assert.True(t, idle.Store.Closed())
	assert.False(t, active.Store.Closed())
}

func TestSessions_CloseTearsDownEverything(t *testing.T) {
	src := newGatedSource()
	sessions := NewSessions(catalog.NewLoader(src, nil), time.Hour, zap.NewNop())

	a := mount(t, sessions)
	<-src.started
	b := mount(t, sessions)
	<-src.started

	sessions.Close()

	assert.Zero(t, sessions.Len())
	for _, sess := range []*Session{a, b} {
		waitLoaded(t, sess)
		assert.True(t, sess.Store.Closed())
	}
}

func TestSessions_MountRespectsCap(t *testing.T) {
	src := newGatedSource()
	sessions := NewSessions(catalog.NewLoader(src, nil), time.Hour, zap.NewNop())
	sessions.Max = 1
	t.Cleanup(sessions.Close)

	first := mount(t, sessions)
	<-src.started

	_, err := sessions.Mount()
	require.ErrorIs(t, err, ErrTooManySessions)
	assert.Equal(t, 1, sessions.Len())

	require.True(t, sessions.Teardown(first.ID))
	mount(t, sessions)
	<-src.started
	assert.Equal(t, 1, sessions.Len())
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	sessions := NewSessions(catalog.NewLoader(catalog.NewDemoSource(), nil), time.Hour, zap.NewNop())
	s := &Server{Sessions: sessions, Tokens: NewTokenMaker("x", time.Hour)}
	sess := mount(t, sessions)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 5*time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}

	assert.Zero(t, sessions.Len())
	assert.True(t, sess.Store.Closed())
}

func TestLoadOutcome(t *testing.T) {
	assert.Equal(t, "success", loadOutcome(nil))
	assert.Equal(t, "detached", loadOutcome(catalog.ErrDetached))
	assert.Equal(t, "bad_status", loadOutcome(catalog.ErrBadStatus))
	assert.Equal(t, "bad_payload", loadOutcome(catalog.ErrDecode))
	assert.Equal(t, "unavailable", loadOutcome(catalog.ErrUnavailable))
}
