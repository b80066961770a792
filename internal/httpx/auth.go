package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"stockroom/internal/credentials"
)

// one reactive refresh per logical request
const authRetryBudget = 1

// AuthClient layers bearer authorization over an Executor. Before sending it
// refreshes a near-expired token best-effort; on a 401 it refreshes once and
// re-issues the whole request, as a bounded loop with an attempt counter.
type AuthClient struct {
	Exec   *Executor
	Creds  credentials.Provider
	Logger *zap.Logger
}

// Do sends the request with authorization and returns the response on any
// 2xx. A 401 that survives the single refresh-and-retry wraps
// ErrUnauthorized; any other non-2xx becomes an *HTTPError.
func (c *AuthClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if c == nil || c.Exec == nil {
		return nil, errors.New("auth client not configured")
	}
	if c.Creds != nil && c.Creds.NearExpiry() {
		if err := c.Creds.Refresh(ctx); err != nil {
			// keep the held token; the 401 path below is the safety net
			c.logWarn("proactive token refresh failed", err, zap.String("url", req.URL))
		}
	}

	var resp *Response
	var err error
	for auth := 0; ; auth++ {
		resp, err = c.Exec.Do(ctx, c.withBearer(req))
		if err != nil {
			return nil, err
		}
		if resp.Status != http.StatusUnauthorized || auth >= authRetryBudget || c.Creds == nil {
			break
		}
		c.logWarn("unauthorized response, refreshing token", nil, zap.String("url", req.URL))
		if rerr := c.Creds.Refresh(ctx); rerr != nil {
			return nil, fmt.Errorf("token refresh after 401: %w", rerr)
		}
	}

	if resp.Status == http.StatusUnauthorized {
		if msg := errorMessage(resp.Body); msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
		return nil, ErrUnauthorized
	}
	if !resp.OK() {
		return nil, &HTTPError{Status: resp.Status, Message: errorMessage(resp.Body), Body: string(resp.Body)}
	}
	return resp, nil
}

// DoJSON sends the request and decodes the 2xx body into out.
func (c *AuthClient) DoJSON(ctx context.Context, req *Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// withBearer copies the request with a fresh Authorization header so every
// attempt carries the token current at send time.
func (c *AuthClient) withBearer(req *Request) *Request {
	out := *req
	out.Header = http.Header{}
	for k, vs := range req.Header {
		for _, v := range vs {
			out.Header.Add(k, v)
		}
	}
	if c.Creds != nil {
		if tok := strings.TrimSpace(c.Creds.Token()); tok != "" {
			out.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return &out
}

func (c *AuthClient) logWarn(msg string, err error, fields ...zap.Field) {
	if c.Logger == nil {
		return
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	c.Logger.Warn(msg, fields...)
}
