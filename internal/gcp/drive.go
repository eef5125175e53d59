package gcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Lllllllleong/slidesmcp/internal/errinfo"
	"github.com/Lllllllleong/slidesmcp/internal/models"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const presentationMimeType = "application/vnd.google-apps.presentation"

var errListFull = errors.New("listing limit reached")

// DriveClient lists presentations visible to the authenticated user.
type DriveClient struct {
	provider CapabilityProvider
	opts     []option.ClientOption

	mu  sync.Mutex
	svc *drive.Service
}

// NewDriveClient creates a new DriveClient. The Drive service is built on
// first use.
func NewDriveClient(provider CapabilityProvider, opts ...option.ClientOption) *DriveClient {
	return &DriveClient{provider: provider, opts: opts}
}

func (c *DriveClient) service(ctx context.Context) (*drive.Service, error) {
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
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, errinfo.TransportFailure("", fmt.Errorf("failed to create drive service: %w", err))
	}
	c.svc = svc
	return svc, nil
}

// ListPresentations returns up to limit presentations, most recently
// modified first. A non-empty nameContains narrows the search by name.
func (c *DriveClient) ListPresentations(ctx context.Context, nameContains string, limit int) ([]models.PresentationFile, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	call := svc.Files.List().
		Q(presentationQuery(nameContains)).
		OrderBy("modifiedTime desc").
		PageSize(int64(limit)).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Fields("nextPageToken", "files(id,name,modifiedTime,webViewLink)")

	files := make([]models.PresentationFile, 0, limit)
	err = call.Pages(ctx, func(page *drive.FileList) error {
		for _, f := range page.Files {
			files = append(files, models.PresentationFile{
				ID:           f.Id,
				Name:         f.Name,
				ModifiedTime: f.ModifiedTime,
				URL:          f.WebViewLink,
			})
			if len(files) >= limit {
				return errListFull
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errListFull) {
		return nil, classify("", err)
	}
	return files, nil
}

func presentationQuery(nameContains string) string {
	q := fmt.Sprintf("mimeType='%s' and trashed=false", presentationMimeType)
	nameContains = strings.TrimSpace(nameContains)
	if nameContains == "" {
		return q
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(nameContains)
	return q + fmt.Sprintf(" and name contains '%s'", escaped)
}
