package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

var ErrUnexpectedStatus = errors.New("unexpected response status")

// Fetcher returns the raw text of a named question source.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (string, error)
}

// FileFetcher reads sources from a local directory.
type FileFetcher struct {
	baseDir string
}

// NewFileFetcher creates a FileFetcher rooted at baseDir.
func NewFileFetcher(baseDir string) *FileFetcher {
	return &FileFetcher{baseDir: baseDir}
}

// Fetch reads the file name relative to the base directory.
func (f *FileFetcher) Fetch(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(f.baseDir, filepath.FromSlash(name)))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}

	return string(data), nil
}

// HTTPFetcher downloads sources relative to a base URL.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher. A nil client gets a 30 second timeout.
func NewHTTPFetcher(baseURL string, client *http.Client) (*HTTPFetcher, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTPFetcher{baseURL: baseURL, client: client}, nil
}

// Fetch GETs name relative to the base URL. Any non-2xx status is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) (string, error) {
	u, err := url.JoinPath(f.baseURL, name)
	if err != nil {
		return "", fmt.Errorf("build url for %s: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: %s returned %s", ErrUnexpectedStatus, u, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", u, err)
	}

	return string(body), nil
}
