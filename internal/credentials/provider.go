// Package credentials supplies bearer tokens for the remote integrations.
// One Provider instance is injected per integration client; there is no
// process-wide token state.
package credentials

import (
	"context"
	"errors"
	"strings"
)

// ErrRefreshNotSupported is returned by providers whose tokens cannot be
// refreshed, such as static private-app tokens.
var ErrRefreshNotSupported = errors.New("credential refresh not supported")

// Provider reports and renews one integration's access token. Refresh
// replaces the held token in place; implementations must be safe for
// concurrent use.
type Provider interface {
	Token() string
	NearExpiry() bool
	Refresh(ctx context.Context) error
}

// Static wraps a fixed access token that never expires or refreshes.
type Static struct {
	AccessToken string
}

func NewStatic(token string) *Static {
	return &Static{AccessToken: strings.TrimSpace(token)}
}

func (s *Static) Token() string {
	if s == nil {
		return ""
	}
	return s.AccessToken
}

func (s *Static) NearExpiry() bool {
	return false
}

func (s *Static) Refresh(ctx context.Context) error {
	return ErrRefreshNotSupported
}
