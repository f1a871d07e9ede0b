package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productsAPI(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		switch r.URL.Path {
		case "/products/1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":1,"name":"Burger","price":"25.50","category":"SANDWICH"}`))
		case "/products/2":
			_, _ = w.Write([]byte(`{"id":2,"name":"Soda","price":6}`))
		case "/products/500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Resolve(t *testing.T) {
	var hits int32
	srv := productsAPI(t, &hits)
	c := NewClient(srv.URL+"/", time.Second, 16)

	p, err := c.Resolve(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Burger", p.Name)
	assert.True(t, decimal.RequireFromString("25.50").Equal(p.UnitPrice))

	p, err = c.Resolve(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(6).Equal(p.UnitPrice))
}

func TestClient_ResolveCachesFound(t *testing.T) {
	var hits int32
	srv := productsAPI(t, &hits)
	c := NewClient(srv.URL, time.Second, 16)

	for i := 0; i < 3; i++ {
		_, err := c.Resolve(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClient_ResolveNotFound(t *testing.T) {
	var hits int32
	srv := productsAPI(t, &hits)
	c := NewClient(srv.URL, time.Second, 16)

	for i := 0; i < 2; i++ {
		p, err := c.Resolve(context.Background(), 404)
		require.NoError(t, err)
		assert.Nil(t, p)
	}
	// misses are not cached
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestClient_ResolveFailures(t *testing.T) {
	var hits int32
	srv := productsAPI(t, &hits)
	c := NewClient(srv.URL, time.Second, 16)

	_, err := c.Resolve(context.Background(), 500)
	assert.Error(t, err)

	down := NewClient("http://127.0.0.1:1", 200*time.Millisecond, 16)
	_, err = down.Resolve(context.Background(), 1)
	assert.Error(t, err)
}
