package credentials

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// DefaultLeeway is how close to expiry a token counts as near-expired.
const DefaultLeeway = 2 * time.Minute

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	Leeway       time.Duration
	HTTPClient   *http.Client
}

// OAuth drives the refresh-token grant for integrations that rotate bearer
// tokens. Servers may rotate the refresh token on every grant; the rotated
// value replaces the held one.
type OAuth struct {
	cfg    oauth2.Config
	leeway time.Duration
	client *http.Client

	mu      sync.RWMutex
	access  string
	refresh string
	expiry  time.Time
}

func NewOAuth(cfg OAuthConfig) *OAuth {
	leeway := cfg.Leeway
	if leeway <= 0 {
		leeway = DefaultLeeway
	}
	return &OAuth{
		cfg: oauth2.Config{
			ClientID:     strings.TrimSpace(cfg.ClientID),
			ClientSecret: strings.TrimSpace(cfg.ClientSecret),
			Endpoint: oauth2.Endpoint{
				TokenURL:  strings.TrimSpace(cfg.TokenURL),
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		leeway:  leeway,
		client:  cfg.HTTPClient,
		access:  strings.TrimSpace(cfg.AccessToken),
		refresh: strings.TrimSpace(cfg.RefreshToken),
		expiry:  cfg.Expiry,
	}
}

func (o *OAuth) Token() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.access
}

func (o *OAuth) NearExpiry() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.access == "" {
		// never had a token; a held refresh token means one can be minted
		return o.refresh != ""
	}
	return !o.expiry.IsZero() && time.Until(o.expiry) < o.leeway
}

// Refresh performs the refresh-token grant and adopts the returned tokens.
// The token source is seeded with only the refresh token so the grant always
// reaches the token endpoint instead of returning the cached access token.
func (o *OAuth) Refresh(ctx context.Context) error {
	o.mu.RLock()
	refresh := o.refresh
	o.mu.RUnlock()
	if refresh == "" {
		return errors.New("no refresh token held")
	}
	if o.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.client)
	}
	tok, err := o.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refresh}).Token()
	if err != nil {
		return fmt.Errorf("refresh token grant: %w", err)
	}
	o.mu.Lock()
	o.access = tok.AccessToken
	if strings.TrimSpace(tok.RefreshToken) != "" {
		o.refresh = tok.RefreshToken
	}
	o.expiry = tok.Expiry
	o.mu.Unlock()
	return nil
}
