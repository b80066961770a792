package httpx

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultMaxRetries      = 3
	DefaultBaseDelay       = time.Second
	DefaultRequestTimeout  = 60 * time.Second
	DefaultResourceTimeout = 120 * time.Second

	maxBodyBytes = 8 << 20
)

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Executor sends one logical request, retrying connectivity-class failures
// with exponential backoff (base delay doubled per retry, no jitter). Any
// completed exchange is returned as a Response whatever its status; statuses
// are classified one layer up.
//
// The zero value of a field falls back to its default; MaxRetries < 0 means
// no retries. Safe for concurrent use with independent requests.
type Executor struct {
	Client          Doer
	MaxRetries      int
	BaseDelay       time.Duration
	RequestTimeout  time.Duration
	ResourceTimeout time.Duration
	Logger          *zap.Logger
}

func NewExecutor(client Doer, logger *zap.Logger) *Executor {
	return &Executor{Client: client, Logger: logger}
}

func (e *Executor) Do(ctx context.Context, req *Request) (*Response, error) {
	if e == nil || req == nil {
		return nil, errors.New("executor: nil request")
	}
	maxRetry := e.maxRetries()

	octx := ctx
	if t := e.resourceTimeout(); t > 0 {
		var cancel context.CancelFunc
		octx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= maxRetry; attempt++ {
		resp, err := e.attempt(octx, req)
		attempts++
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !isConnectivity(err) || octx.Err() != nil {
			return nil, err
		}
		if attempt == maxRetry {
			break
		}
		backoff := e.baseDelay() << uint(attempt)
		if e.Logger != nil {
			e.Logger.Warn("retrying request",
				zap.String("method", req.Method),
				zap.String("url", req.URL),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
				zap.Error(err))
		}
		select {
		case <-octx.Done():
			return nil, octx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, &MaxRetriesError{Attempts: attempts, Last: lastErr}
}

func (e *Executor) attempt(ctx context.Context, req *Request) (*Response, error) {
	actx := ctx
	if t := e.requestTimeout(); t > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	hreq, err := req.build(actx)
	if err != nil {
		return nil, err
	}
	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// isConnectivity reports whether err is a connection-class failure worth
// retrying: timeouts, refused or reset connections, DNS failures, dropped
// connections. Context cancellation and malformed requests are not.
func isConnectivity(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.EPIPE,
		syscall.EHOSTUNREACH,
		syscall.ENETUNREACH,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func (e *Executor) maxRetries() int {
	if e.MaxRetries < 0 {
		return 0
	}
	if e.MaxRetries == 0 {
		return DefaultMaxRetries
	}
	return e.MaxRetries
}

func (e *Executor) baseDelay() time.Duration {
	if e.BaseDelay <= 0 {
		return DefaultBaseDelay
	}
	return e.BaseDelay
}

func (e *Executor) requestTimeout() time.Duration {
	if e.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return e.RequestTimeout
}

func (e *Executor) resourceTimeout() time.Duration {
	if e.ResourceTimeout <= 0 {
		return DefaultResourceTimeout
	}
	return e.ResourceTimeout
}
