package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxResourceBytes = 16 << 20

// Source fetches a catalog resource by its relative name.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// HTTPSource resolves names against a base URL, like the browser fetching /data/*.json.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	u := s.baseURL + "/" + strings.TrimLeft(name, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", name, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResourceBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// FileSource reads resources from a local directory such as a static build's public/.
type FileSource struct {
	dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := filepath.Clean("/" + filepath.FromSlash(name))
	data, err := os.ReadFile(filepath.Join(s.dir, clean))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

type objectReader interface {
	ReadObject(ctx context.Context, bucket, object string) ([]byte, error)
	ObjectName(name string) string
}

// GCSSource reads resources from the configured bucket.
type GCSSource struct {
	reader objectReader
}

func NewGCSSource(reader objectReader) *GCSSource {
	return &GCSSource{reader: reader}
}

func (s *GCSSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	data, err := s.reader.ReadObject(ctx, "", s.reader.ObjectName(name))
	if err != nil {
		return nil, fmt.Errorf("reading %s from gcs: %w", name, err)
	}
	return data, nil
}
