package platform

import (
	"context"
	"errors"
	"fmt"
	"io"

	"documind-backend/internal/extract"
	"documind-backend/internal/llm"
	"documind-backend/internal/shared/storage/object"
)

// ErrNotConfigured is returned when a port has no adapter behind it.
var ErrNotConfigured = errors.New("platform: integration not configured")

// UploadedFile is the stable reference returned by UploadFile.
type UploadedFile struct {
	FileURL    string
	StorageKey string
	SizeBytes  int64
	MimeType   string
}

// Client bundles the integration ports the application runs on.
type Client struct {
	Store     object.ObjectStore
	Extractor *extract.Extractor
	LLM       llm.Client
}

// UploadFile stores the binary and returns a URL and storage key for it.
func (c *Client) UploadFile(ctx context.Context, fileName string, r io.Reader) (UploadedFile, error) {
	if c.Store == nil {
		return UploadedFile{}, ErrNotConfigured
	}
	key, size, mime, err := c.Store.Save(ctx, fileName, r)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("upload file: %w", err)
	}
	url, err := c.Store.URL(ctx, key)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("upload file url key=%s: %w", key, err)
	}
	return UploadedFile{FileURL: url, StorageKey: key, SizeBytes: size, MimeType: mime}, nil
}

// ExtractDataFromUploadedFile runs schema-constrained extraction on a stored file.
func (c *Client) ExtractDataFromUploadedFile(ctx context.Context, storageKey string, schema extract.Schema) (extract.Result, error) {
	if c.Extractor == nil {
		return extract.Result{}, ErrNotConfigured
	}
	return c.Extractor.ExtractDataFromUploadedFile(ctx, storageKey, schema)
}

// InvokeLLM sends a single prompt to the configured model.
func (c *Client) InvokeLLM(ctx context.Context, prompt string) (string, error) {
	if c.LLM == nil {
		return "", ErrNotConfigured
	}
	return c.LLM.Complete(ctx, prompt)
}
