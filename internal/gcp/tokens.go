package gcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
)

// ErrNoToken is returned by a TokenStore that holds no token yet.
var ErrNoToken = errors.New("no stored oauth token")

// TokenStore persists the OAuth token between process lifetimes.
type TokenStore interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, tok *oauth2.Token) error
}

// NewTokenStore picks a store for location: a gs:// URI is kept in Cloud
// Storage, anything else is a local file path. The returned close func
// releases the storage client, if any.
func NewTokenStore(ctx context.Context, location string) (TokenStore, func() error, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, nil, fmt.Errorf("OAUTH_CLIENT_TOKEN environment variable not set")
	}
	if !strings.HasPrefix(location, "gs://") {
		return &FileTokenStore{Path: location}, func() error { return nil }, nil
	}
	bucket, object, err := ParseGCSURI(location)
	if err != nil {
		return nil, nil, err
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSTokenStore{bucket: client.Bucket(bucket), object: object}, client.Close, nil
}

// FileTokenStore keeps the token as JSON on local disk.
type FileTokenStore struct {
	Path string
}

func (s *FileTokenStore) Load(ctx context.Context) (*oauth2.Token, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("failed to read token file %s: %w", s.Path, err)
	}
	return decodeToken(data)
}

func (s *FileTokenStore) Save(ctx context.Context, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file %s: %w", s.Path, err)
	}
	return nil
}

// GCSTokenStore keeps the token in a Cloud Storage object, for deployments
// without a writable disk.
type GCSTokenStore struct {
	bucket *storage.BucketHandle
	object string
}

func (s *GCSTokenStore) Load(ctx context.Context) (*oauth2.Token, error) {
	data, err := ReadGCSObject(ctx, s.bucket, s.object)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNoToken
		}
		return nil, err
	}
	return decodeToken(data)
}

func (s *GCSTokenStore) Save(ctx context.Context, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	return SaveToGCS(ctx, s.bucket, s.object, data, "application/json")
}

func decodeToken(data []byte) (*oauth2.Token, error) {
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse stored token: %w", err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, ErrNoToken
	}
	return &tok, nil
}
