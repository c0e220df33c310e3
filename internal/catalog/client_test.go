package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"MiniCart/internal/catalog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const threeProducts = `[
  {"id":1,"title":"Fjallraven Backpack","price":109.95,"description":"Your perfect pack","category":"men's clothing","image":"https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg","rating":{"rate":3.9,"count":120}},
  {"id":2,"title":"Mens Casual T-Shirt","price":22.3,"description":"Slim-fitting style","category":"men's clothing","image":"https://fakestoreapi.com/img/71-3HjGNDUL._AC_SY879._SX._UX._SY._UY_.jpg"},
  {"id":3,"title":"Mens Cotton Jacket","price":55.99,"description":"Great outerwear","category":"men's clothing","image":"https://fakestoreapi.com/img/71li-ujtlUL._AC_UX679_.jpg"}
]`

func newEndpoint(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T, url string) *catalog.Client {
	t.Helper()

	c, err := catalog.NewClient(url, 2*time.Second, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(c.HTTP.CloseIdleConnections)
	return c
}

func TestClient_FetchProducts(t *testing.T) {
	ts := newEndpoint(t, http.StatusOK, threeProducts)
	c := newClient(t, ts.URL)

	products, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Fjallraven Backpack", products[0].Title)
	assert.Equal(t, "109.95", products[0].Price.StringFixed(2))
	assert.Equal(t, "men's clothing", products[2].Category)
	assert.Equal(t, "Great outerwear", products[2].Description)
}

func TestClient_FetchProductsErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`, want: catalog.ErrBadStatus},
		{name: "not found", status: http.StatusNotFound, body: ``, want: catalog.ErrBadStatus},
		{name: "not json", status: http.StatusOK, body: `<html>oops</html>`, want: catalog.ErrDecode},
		{name: "object instead of array", status: http.StatusOK, body: `{"id":1}`, want: catalog.ErrDecode},
		{name: "null", status: http.StatusOK, body: `null`, want: catalog.ErrDecode},
		{name: "price is text", status: http.StatusOK, body: `[{"id":1,"title":"x","price":"abc"}]`, want: catalog.ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newEndpoint(t, tt.status, tt.body)
			c := newClient(t, ts.URL)

			_, err := c.FetchProducts(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "err=%v want=%v", err, tt.want)
		})
	}
}

func TestClient_SkipsInvalidProducts(t *testing.T) {
	ts := newEndpoint(t, http.StatusOK, `[
	  {"title":"no id","price":1},
	  {"id":2,"price":1},
	  {"id":3,"title":"negative","price":-1},
	  {"id":4,"title":"bad image","price":1,"image":"not a url"},
	  {"id":5,"title":"first","price":1},
	  {"id":5,"title":"second","price":2},
	  {"id":6,"title":"fine","price":3.5,"image":"https://example.com/6.png"}
	]`)
	c := newClient(t, ts.URL)

	products, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "first", products[0].Title)
	assert.Equal(t, int64(6), products[1].ID)
	assert.Equal(t, "3.50", products[1].Price.StringFixed(2))
}

func TestClient_AllInvalidIsEmptyCatalog(t *testing.T) {
	ts := newEndpoint(t, http.StatusOK, `[{"id":0,"title":""}]`)
	c := newClient(t, ts.URL)

	products, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestClient_EmptyListIsValid(t *testing.T) {
	ts := newEndpoint(t, http.StatusOK, `[]`)
	c := newClient(t, ts.URL)

	products, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := newClient(t, url)

	_, err := c.FetchProducts(context.Background())
	assert.ErrorIs(t, err, catalog.ErrUnavailable)
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	for _, u := range []string{"", "/products", "ftp://example.com/products", "://bad"} {
		_, err := catalog.NewClient(u, time.Second, nil)
		assert.Error(t, err, "url=%q", u)
	}
}

func TestOpen_Builtin(t *testing.T) {
	src, err := catalog.Open(catalog.BuiltinURL, 0, nil)
	require.NoError(t, err)

	products, err := src.FetchProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)
}
