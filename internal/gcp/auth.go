package gcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Lllllllleong/slidesmcp/internal/errinfo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/slides/v1"
)

// Scopes covers listing documents read-only and editing presentations.
var Scopes = []string{
	drive.DriveReadonlyScope,
	slides.PresentationsScope,
}

// CapabilityProvider hands out an authenticated HTTP client. Implementations
// cache the client for the process lifetime and refresh tokens on expiry.
type CapabilityProvider interface {
	Acquire(ctx context.Context) (*http.Client, error)
}

// AuthConfig configures an OAuthProvider.
type AuthConfig struct {
	ClientSecretPath string
	Tokens           TokenStore
	Interactive      bool
	CallbackTimeout  time.Duration
	HTTPTimeout      time.Duration
}

// OAuthProvider authenticates as the end user with an installed-app OAuth
// client. A missing token triggers the local callback handshake when
// interactive mode is on.
type OAuthProvider struct {
	cfg       AuthConfig
	authorize func(ctx context.Context, oc *oauth2.Config) (*oauth2.Token, error)

	mu     sync.Mutex
	client *http.Client
}

// NewOAuthProvider creates a provider. Nothing is read until the first Acquire.
func NewOAuthProvider(cfg AuthConfig) *OAuthProvider {
	return &OAuthProvider{
		cfg:       cfg,
		authorize: Handshake{Timeout: cfg.CallbackTimeout}.Run,
	}
}

func (p *OAuthProvider) Acquire(ctx context.Context) (*http.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}

	if p.cfg.ClientSecretPath == "" {
		return nil, errinfo.AuthFailure("", errors.New("OAUTH_CLIENT_SECRET environment variable not set"))
	}
	if p.cfg.Tokens == nil {
		return nil, errinfo.AuthFailure("", errors.New("OAUTH_CLIENT_TOKEN environment variable not set"))
	}
	secret, err := os.ReadFile(p.cfg.ClientSecretPath)
	if err != nil {
		return nil, errinfo.AuthFailure("", fmt.Errorf("failed to read client secret: %w", err))
	}
	oc, err := google.ConfigFromJSON(secret, Scopes...)
	if err != nil {
		return nil, errinfo.AuthFailure("", fmt.Errorf("failed to parse client secret: %w", err))
	}

	tok, err := p.cfg.Tokens.Load(ctx)
	switch {
	case errors.Is(err, ErrNoToken):
		if !p.cfg.Interactive {
			return nil, errinfo.AuthFailure("", errors.New("no stored token and interactive authorization is disabled"))
		}
		slog.Info("No stored token, starting OAuth authorization.")
		tok, err = p.authorize(ctx, oc)
		if err != nil {
			return nil, errinfo.AuthFailure("", err)
		}
		if err := p.cfg.Tokens.Save(ctx, tok); err != nil {
			slog.Error("Failed to save token after authorization", "error", err)
		}
	case err != nil:
		return nil, errinfo.AuthFailure("", err)
	}

	// Refreshes happen long after ctx is gone, so they get their own context.
	refreshCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: p.httpTimeout()})
	src := &persistingTokenSource{
		base:  oc.TokenSource(refreshCtx, tok),
		store: p.cfg.Tokens,
		last:  tok.AccessToken,
	}
	client := oauth2.NewClient(refreshCtx, oauth2.ReuseTokenSource(tok, src))
	client.Timeout = p.httpTimeout()
	p.client = client
	slog.Info("Authenticated with Google Drive and Slides APIs.")
	return client, nil
}

func (p *OAuthProvider) httpTimeout() time.Duration {
	if p.cfg.HTTPTimeout > 0 {
		return p.cfg.HTTPTimeout
	}
	return 60 * time.Second
}

// persistingTokenSource saves every rotated token so the next process starts
// from it.
type persistingTokenSource struct {
	base  oauth2.TokenSource
	store TokenStore

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.store.Save(ctx, tok); err != nil {
			slog.Error("Failed to persist refreshed token", "error", err)
		}
	}
	return tok, nil
}

// DefaultProvider uses Application Default Credentials, for service
// accounts the presentations are shared with.
type DefaultProvider struct {
	HTTPTimeout time.Duration

	mu     sync.Mutex
	client *http.Client
}

func (p *DefaultProvider) Acquire(ctx context.Context) (*http.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	client, err := google.DefaultClient(context.Background(), Scopes...)
	if err != nil {
		return nil, errinfo.AuthFailure("", fmt.Errorf("failed to find default credentials: %w", err))
	}
	if p.HTTPTimeout > 0 {
		client.Timeout = p.HTTPTimeout
	}
	p.client = client
	return client, nil
}

// StaticProvider returns a fixed client. Useful when the caller already
// holds an authenticated client.
type StaticProvider struct {
	Client *http.Client
}

func (p StaticProvider) Acquire(context.Context) (*http.Client, error) {
	if p.Client == nil {
		return nil, errinfo.AuthFailure("", errors.New("no http client configured"))
	}
	return p.Client, nil
}
