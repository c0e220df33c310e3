package catalog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"MiniCart/internal/cart"
)

// ErrDetached is returned by Run when the view went away before the fetch
// finished. Nothing is dispatched in that case.
var ErrDetached = errors.New("catalog loader detached")

type Dispatcher interface {
	Dispatch(a cart.Action) cart.State
}

type Loader struct {
	Source Source
	Log    *zap.Logger
}

func NewLoader(src Source, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{Source: src, Log: log}
}

// Run marks the state as loading, fetches once and dispatches exactly one
// terminal transition. It returns the fetch error, if any.
func (l *Loader) Run(ctx context.Context, d Dispatcher) error {
	d.Dispatch(cart.Loading{})
	return l.settle(ctx, d)
}

// Start marks the state as loading before returning, then fetches on its own
// goroutine. The returned channel yields the fetch result once and is then
// closed.
func (l *Loader) Start(ctx context.Context, d Dispatcher) <-chan error {
	done := make(chan error, 1)
	d.Dispatch(cart.Loading{})

	go func() {
		defer close(done)
		done <- l.settle(ctx, d)
	}()

	return done
}

func (l *Loader) settle(ctx context.Context, d Dispatcher) error {
	start := time.Now()
	products, err := l.Source.FetchProducts(ctx)

	if ctx.Err() != nil {
		l.Log.Info("catalog load detached", zap.Duration("duration", time.Since(start)))
		return ErrDetached
	}

	if err != nil {
		l.Log.Warn("catalog load failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		d.Dispatch(cart.Failure{})
		return err
	}

	l.Log.Info("catalog loaded", zap.Int("products", len(products)), zap.Duration("duration", time.Since(start)))
	d.Dispatch(cart.Success{Products: products})
	return nil
}
