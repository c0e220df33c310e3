package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"MiniCart/internal/cart"
)

const DefaultURL = "https://fakestoreapi.com/products"

const maxBodyBytes = 8 << 20

var (
	ErrUnavailable = errors.New("catalog unavailable")
	ErrBadStatus   = errors.New("catalog bad status")
	ErrDecode      = errors.New("catalog decode failed")
)

type Source interface {
	FetchProducts(ctx context.Context) ([]cart.Product, error)
}

type Client struct {
	URL  string
	HTTP *http.Client
	Log  *zap.Logger
}

// NewClient builds a client for the products endpoint. A zero timeout means
// the request is bounded only by the caller's context.
func NewClient(endpoint string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("catalog url %q: want absolute http(s) url", endpoint)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		URL:  strings.TrimRight(endpoint, "/"),
		HTTP: &http.Client{Timeout: timeout},
		Log:  log,
	}, nil
}

func (c *Client) FetchProducts(ctx context.Context) ([]cart.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status=%d", ErrBadStatus, resp.StatusCode)
	}

	var products []cart.Product
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&products); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if products == nil {
		return nil, fmt.Errorf("%w: null product list", ErrDecode)
	}

	products, skipped := filterProducts(products)
	if len(skipped) > 0 {
		c.Log.Warn("catalog products skipped",
			zap.Int("skipped", len(skipped)),
			zap.Strings("reasons", skipped),
		)
	}

	c.Log.Debug("catalog fetched", zap.String("url", c.URL), zap.Int("products", len(products)))
	return products, nil
}
