// Package httpx is the resilient request stack shared by the remote
// integration clients: an executor that retries connectivity failures with
// exponential backoff, and an authenticated layer that injects bearer tokens
// and handles 401 refresh.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

var (
	// ErrMissingCredentials marks a sync precondition failure: no access
	// token or no tenant identifier configured for the integration.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrUnauthorized marks a 401 that survived the refresh-and-retry cycle.
	ErrUnauthorized = errors.New("unauthorized")
)

// Request describes one HTTP exchange. It carries no connection state, so the
// executor can rebuild and re-send it any number of times.
type Request struct {
	Method string
	URL    string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Response is a completed exchange, whatever the status.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

func (r *Request) build(ctx context.Context) (*http.Request, error) {
	fullURL := r.URL
	if len(r.Query) > 0 {
		fullURL = fullURL + "?" + r.Query.Encode()
	}
	var body io.Reader
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if len(r.Body) > 0 && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// MaxRetriesError reports an exhausted retry budget for connectivity
// failures. Last is the final transport error.
type MaxRetriesError struct {
	Attempts int
	Last     error
}

func (e *MaxRetriesError) Error() string {
	return fmt.Sprintf("max retries exceeded after %d attempts: %v", e.Attempts, e.Last)
}

func (e *MaxRetriesError) Unwrap() error {
	return e.Last
}

// HTTPError is a non-2xx application response. Message is extracted from the
// body best-effort and may be empty.
type HTTPError struct {
	Status  int
	Message string
	Body    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d", e.Status)
}

// errorMessage pulls a human-readable message out of a JSON error body.
// Remote systems disagree on the envelope, so several shapes are probed; a
// body that fails to parse never masks the original status.
func errorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
		Errors  any    `json:"errors"`
		Fault   struct {
			Error []struct {
				Message string `json:"Message"`
				Detail  string `json:"Detail"`
			} `json:"Error"`
		} `json:"Fault"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	if len(payload.Fault.Error) > 0 {
		first := payload.Fault.Error[0]
		if msg := strings.TrimSpace(first.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(first.Detail); msg != "" {
			return msg
		}
	}
	if msg := stringValue(payload.Error); msg != "" {
		return msg
	}
	return stringValue(payload.Errors)
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
