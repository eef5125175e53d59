package gcp

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

const (
	defaultCallbackTimeout = 5 * time.Minute
	shutdownTimeout        = 5 * time.Second
)

// Handshake runs the installed-app authorization code flow: it listens on a
// loopback port, prints the consent URL and exchanges the code delivered to
// the redirect for a token.
type Handshake struct {
	Timeout time.Duration
	// Prompt shows the consent URL to the user. Defaults to a warn log, since
	// stdout belongs to the tool protocol.
	Prompt func(authURL string)
}

// Run performs one handshake. The listening socket is held for the whole
// handshake and closed on every return path.
func (h Handshake) Run(ctx context.Context, oc *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return nil, fmt.Errorf("failed to open callback listener: %w", err)
	}
	defer ln.Close()

	cfg := *oc
	cfg.RedirectURL = fmt.Sprintf("http://localhost:%d/", ln.Addr().(*net.TCPAddr).Port)

	state, err := newState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate oauth state: %w", err)
	}
	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	prompt := h.Prompt
	if prompt == nil {
		prompt = func(u string) {
			slog.Warn("Authorization required. Open this URL in your browser.", "url", u)
		}
	}
	prompt(authURL)

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultCallbackTimeout
	}
	code, err := waitForCode(ctx, ln, state, timeout)
	if err != nil {
		return nil, err
	}
	slog.Info("OAuth callback received, exchanging code for tokens.")

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return tok, nil
}

type callbackResult struct {
	code string
	err  error
}

// waitForCode serves ln until one authorization callback arrives, the
// timeout passes or ctx ends. The server is shut down before it returns.
func waitForCode(ctx context.Context, ln net.Listener, state string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("callback server failed: %w", err)
		}
		return nil
	})

	var code string
	g.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		select {
		case res := <-results:
			code = res.code
			return res.err
		case <-gctx.Done():
			return fmt.Errorf("no authorization callback received: %w", gctx.Err())
		}
	})

	if err := g.Wait(); err != nil {
		return "", err
	}
	return code, nil
}

// callbackHandler reports the first callback carrying a code or an error.
// Other requests (a browser's favicon probe) are answered and ignored.
func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		var res callbackResult
		switch {
		case query.Get("error") != "":
			res.err = fmt.Errorf("oauth error: %s", query.Get("error"))
		case query.Get("code") != "":
			if query.Get("state") != state {
				res.err = errors.New("oauth state mismatch")
			} else {
				res.code = query.Get("code")
			}
		default:
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("<html><body><h1>Authentication failed</h1></body></html>"))
		} else {
			_, _ = w.Write([]byte("<html><body><h1>Authentication successful!</h1><p>You can close this window.</p></body></html>"))
		}

		select {
		case results <- res:
		default:
		}
	})
}

func newState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
