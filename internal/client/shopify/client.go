package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"stockroom/internal/httpx"
	"stockroom/internal/paging"
)

// Client talks to the commerce API of one shop. Every call goes through the
// authenticated request stack, so retries and token handling are inherited.
type Client struct {
	host string
	shop string
	http *httpx.AuthClient
}

type Config struct {
	// Host overrides the API origin, mainly for tests. When empty it is
	// derived from ShopDomain.
	Host       string
	ShopDomain string
}

func NewClient(cfg Config, auth *httpx.AuthClient) *Client {
	host := strings.TrimRight(strings.TrimSpace(cfg.Host), "/")
	shop := strings.TrimSpace(cfg.ShopDomain)
	if host == "" && shop != "" {
		host = fmt.Sprintf("https://%s.myshopify.com", shop)
	}
	return &Client{host: host, shop: shop, http: auth}
}

// CheckCredentials fast-fails sync operations before any request is issued:
// both an access token and a shop domain must be configured.
func (c *Client) CheckCredentials() error {
	if c == nil || c.http == nil || c.http.Creds == nil || strings.TrimSpace(c.http.Creds.Token()) == "" {
		return fmt.Errorf("%w: shopify access token", httpx.ErrMissingCredentials)
	}
	if c.shop == "" && c.host == "" {
		return fmt.Errorf("%w: shopify shop domain", httpx.ErrMissingCredentials)
	}
	return nil
}

// ProductsPage fetches one cursor page of products in server order.
func (c *Client) ProductsPage(ctx context.Context, after string, limit int) ([]Product, paging.PageInfo, error) {
	var page struct {
		Products []Product `json:"products"`
		PageInfo pageInfo  `json:"pageInfo"`
	}
	if err := c.page(ctx, "products", after, limit, &page); err != nil {
		return nil, paging.PageInfo{}, err
	}
	return page.Products, page.PageInfo.toPaging(), nil
}

// OrdersPage fetches one cursor page of orders in server order.
func (c *Client) OrdersPage(ctx context.Context, after string, limit int) ([]Order, paging.PageInfo, error) {
	var page struct {
		Orders   []Order  `json:"orders"`
		PageInfo pageInfo `json:"pageInfo"`
	}
	if err := c.page(ctx, "orders", after, limit, &page); err != nil {
		return nil, paging.PageInfo{}, err
	}
	return page.Orders, page.PageInfo.toPaging(), nil
}

// CreateProduct pushes a new product upstream and returns the remote record.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	body, err := json.Marshal(map[string]ProductInput{"product": in})
	if err != nil {
		return nil, fmt.Errorf("encode product: %w", err)
	}
	var out struct {
		Product Product `json:"product"`
	}
	req := &httpx.Request{
		Method: http.MethodPost,
		URL:    c.host + "/admin/api/products",
		Body:   body,
	}
	if err := c.http.DoJSON(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// UpdateProduct rewrites an existing remote product in place.
func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("product id is required")
	}
	body, err := json.Marshal(map[string]ProductInput{"product": in})
	if err != nil {
		return nil, fmt.Errorf("encode product: %w", err)
	}
	var out struct {
		Product Product `json:"product"`
	}
	req := &httpx.Request{
		Method: http.MethodPut,
		URL:    c.host + "/admin/api/products/" + url.PathEscape(id),
		Body:   body,
	}
	if err := c.http.DoJSON(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

func (c *Client) page(ctx context.Context, resource, after string, limit int, out any) error {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if after != "" {
		query.Set("after", after)
	}
	req := &httpx.Request{
		Method: http.MethodGet,
		URL:    c.host + "/admin/api/" + resource,
		Query:  query,
	}
	return c.http.DoJSON(ctx, req, out)
}
