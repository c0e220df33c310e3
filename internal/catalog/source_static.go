package catalog

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"MiniCart/internal/cart"
)

// BuiltinURL selects the in-process demo catalog instead of a remote endpoint.
const BuiltinURL = "builtin:demo"

type StaticSource struct {
	mu       sync.RWMutex
	products []cart.Product
	err      error
}

func NewStaticSource(products ...cart.Product) *StaticSource {
	return &StaticSource{products: slices.Clone(products)}
}

func NewDemoSource() *StaticSource {
	return NewStaticSource(
		cart.Product{ID: 1, Title: "Keyboard", Category: "electronics", Price: decimal.RequireFromString("49.90"),
			Description: "Mechanical keyboard", Image: "https://picsum.photos/seed/keyboard/200"},
		cart.Product{ID: 2, Title: "Mouse", Category: "electronics", Price: decimal.RequireFromString("19.90"),
			Description: "Wireless mouse", Image: "https://picsum.photos/seed/mouse/200"},
		cart.Product{ID: 3, Title: "Backpack", Category: "men's clothing", Price: decimal.RequireFromString("109.95"),
			Description: "Fits 15 inch laptops", Image: "https://picsum.photos/seed/backpack/200"},
	)
}

// Fail makes every later fetch return err.
func (s *StaticSource) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *StaticSource) FetchProducts(ctx context.Context) ([]cart.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}
	return slices.Clone(s.products), nil
}

// Open picks the demo catalog for BuiltinURL and an HTTP client otherwise.
func Open(endpoint string, timeout time.Duration, log *zap.Logger) (Source, error) {
	if endpoint == BuiltinURL {
		return NewDemoSource(), nil
	}
	c, err := NewClient(endpoint, timeout, log)
	if err != nil {
		return nil, err
	}
	return c, nil
}
