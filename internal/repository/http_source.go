package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/stwalsh4118/campusplan/internal/ingest"
	"github.com/stwalsh4118/campusplan/internal/models"
)

const userAgent = "campusplan/0.1"

// HTTPSource downloads the dataset from a URL.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a source that fetches rawURL with the given timeout.
func NewHTTPSource(rawURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url: rawURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *HTTPSource) Kind() string { return "url" }

// Name is the unescaped last path segment of the URL.
func (s *HTTPSource) Name() string {
	u, err := url.Parse(s.url)
	if err != nil || u.Path == "" || u.Path == "/" {
		return s.url
	}
	return path.Base(u.Path)
}

// Load fetches the file and parses it by extension, falling back to CSV
// when the URL has none.
func (s *HTTPSource) Load(ctx context.Context) ([]models.CommuteRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building dataset request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading dataset body: %w", err)
	}

	name := s.Name()
	if _, err := ingest.DetectFormat(name); err != nil {
		name += ".csv"
	}
	return ingest.Parse(name, data)
}
