package quickbooks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"stockroom/internal/httpx"
)

const defaultHost = "https://quickbooks.api.intuit.com"

// minorversion pins the query dialect the client was written against.
const minorVersion = "65"

// Client queries the accounting API for one company file (realm).
type Client struct {
	host  string
	realm string
	http  *httpx.AuthClient
}

type Config struct {
	// Host overrides the API origin, mainly for tests and the sandbox
	// environment.
	Host    string
	RealmID string
}

func NewClient(cfg Config, auth *httpx.AuthClient) *Client {
	host := strings.TrimRight(strings.TrimSpace(cfg.Host), "/")
	if host == "" {
		host = defaultHost
	}
	return &Client{host: host, realm: strings.TrimSpace(cfg.RealmID), http: auth}
}

// CheckCredentials fast-fails sync operations before any request is issued:
// both an access token and a company realm id must be configured.
func (c *Client) CheckCredentials() error {
	if c == nil || c.http == nil || c.http.Creds == nil || strings.TrimSpace(c.http.Creds.Token()) == "" {
		return fmt.Errorf("%w: quickbooks access token", httpx.ErrMissingCredentials)
	}
	if c.realm == "" {
		return fmt.Errorf("%w: quickbooks realm id", httpx.ErrMissingCredentials)
	}
	return nil
}

// CustomersPage fetches one offset page of customers. The page is short or
// empty when the collection is exhausted.
func (c *Client) CustomersPage(ctx context.Context, start, limit int) ([]Customer, error) {
	var envelope struct {
		QueryResponse struct {
			Customer []Customer `json:"Customer"`
		} `json:"QueryResponse"`
	}
	stmt := fmt.Sprintf("SELECT * FROM Customer ORDERBY Id STARTPOSITION %d MAXRESULTS %d", start, limit)
	if err := c.query(ctx, stmt, &envelope); err != nil {
		return nil, err
	}
	return envelope.QueryResponse.Customer, nil
}

// InvoicesPage fetches one offset page of invoices.
func (c *Client) InvoicesPage(ctx context.Context, start, limit int) ([]Invoice, error) {
	var envelope struct {
		QueryResponse struct {
			Invoice []Invoice `json:"Invoice"`
		} `json:"QueryResponse"`
	}
	stmt := fmt.Sprintf("SELECT * FROM Invoice ORDERBY Id STARTPOSITION %d MAXRESULTS %d", start, limit)
	if err := c.query(ctx, stmt, &envelope); err != nil {
		return nil, err
	}
	return envelope.QueryResponse.Invoice, nil
}

func (c *Client) query(ctx context.Context, stmt string, out any) error {
	q := url.Values{}
	q.Set("query", stmt)
	q.Set("minorversion", minorVersion)
	req := &httpx.Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/v3/company/%s/query", c.host, url.PathEscape(c.realm)),
		Query:  q,
	}
	return c.http.DoJSON(ctx, req, out)
}
