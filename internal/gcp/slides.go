package gcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/Lllllllleong/slidesmcp/internal/errinfo"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/slides/v1"
)

// SlidesClient reads and batch-updates presentations. The underlying
// service is built on first use from the capability provider's client and
// reused afterwards.
type SlidesClient struct {
	provider CapabilityProvider
	opts     []option.ClientOption

	mu  sync.Mutex
	svc *slides.Service
}

// NewSlidesClient creates a client. Extra options (an endpoint override in
// tests) are applied after the authenticated HTTP client.
func NewSlidesClient(provider CapabilityProvider, opts ...option.ClientOption) *SlidesClient {
	return &SlidesClient{provider: provider, opts: opts}
}

func (c *SlidesClient) service(ctx context.Context) (*slides.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.svc != nil {
		return c.svc, nil
	}
	httpClient, err := acquire(ctx, c.provider)
	if err != nil {
		return nil, err
	}
	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.opts...)
	svc, err := slides.NewService(ctx, opts...)
	if err != nil {
		return nil, errinfo.TransportFailure("", fmt.Errorf("failed to create slides service: %w", err))
	}
	c.svc = svc
	return svc, nil
}

// Read fetches the full presentation tree.
func (c *SlidesClient) Read(ctx context.Context, presentationID string) (*slides.Presentation, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, withPresentation(err, presentationID)
	}
	presentation, err := svc.Presentations.Get(presentationID).Context(ctx).Do()
	if err != nil {
		return nil, classify(presentationID, err)
	}
	return presentation, nil
}

// BatchWrite submits requests as one atomic batch update.
func (c *SlidesClient) BatchWrite(ctx context.Context, presentationID string, requests []*slides.Request) (*slides.BatchUpdatePresentationResponse, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, withPresentation(err, presentationID)
	}
	body := &slides.BatchUpdatePresentationRequest{Requests: requests}
	resp, err := svc.Presentations.BatchUpdate(presentationID, body).Context(ctx).Do()
	if err != nil {
		return nil, classify(presentationID, err)
	}
	return resp, nil
}

func acquire(ctx context.Context, provider CapabilityProvider) (*http.Client, error) {
	if provider == nil {
		return nil, errinfo.AuthFailure("", errors.New("no capability provider configured"))
	}
	client, err := provider.Acquire(ctx)
	if err != nil {
		var ie *errinfo.Error
		if errors.As(err, &ie) {
			return nil, err
		}
		return nil, errinfo.AuthFailure("", err)
	}
	return client, nil
}

func withPresentation(err error, presentationID string) error {
	var ie *errinfo.Error
	if errors.As(err, &ie) && ie.PresentationID == "" {
		copied := *ie
		copied.PresentationID = presentationID
		return &copied
	}
	return err
}

// classify maps API and OAuth errors into the closed taxonomy.
func classify(presentationID string, err error) error {
	var ie *errinfo.Error
	if errors.As(err, &ie) {
		return withPresentation(err, presentationID)
	}
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		return errinfo.AuthFailure(presentationID, err)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return errinfo.AuthFailure(presentationID, err)
		case http.StatusNotFound:
			return errinfo.NotFound(presentationID, err)
		case http.StatusBadRequest, http.StatusConflict:
			if alreadyExists(gerr) {
				return errinfo.DuplicateID(presentationID, "", err)
			}
		}
	}
	return errinfo.TransportFailure(presentationID, err)
}

func alreadyExists(gerr *googleapi.Error) bool {
	if strings.Contains(strings.ToLower(gerr.Message), "already exists") {
		return true
	}
	for _, item := range gerr.Errors {
		if strings.Contains(strings.ToLower(item.Message), "already exists") {
			return true
		}
	}
	return false
}
