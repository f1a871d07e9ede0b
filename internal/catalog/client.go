// Package catalog resolves product ids against the products API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-food-orders/internal/orders"
)

// Client is the HTTP catalog. Resolved products are cached by id; unknown ids
// are not cached so a product added later becomes visible.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *lru.Cache[int64, orders.Product]
}

var _ orders.Catalog = (*Client)(nil)

type productDTO struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func NewClient(baseURL string, timeout time.Duration, cacheSize int) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	cache, err := lru.New[int64, orders.Product](cacheSize)
	if err != nil {
		cache, _ = lru.New[int64, orders.Product](1024)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
	}
}

// Resolve returns (nil, nil) when the API answers 404.
func (c *Client) Resolve(ctx context.Context, id int64) (*orders.Product, error) {
	if p, ok := c.cache.Get(id); ok {
		return &p, nil
	}

	url := c.baseURL + "/products/" + strconv.FormatInt(id, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("get product %d: unexpected status %d", id, resp.StatusCode)
	}

	var dto productDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("decode product %d: %w", id, err)
	}
	p := orders.Product{ID: id, Name: dto.Name, UnitPrice: dto.Price}
	c.cache.Add(id, p)
	return &p, nil
}
