package articles

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mohammad-safakhou/spacebio/config"
	"github.com/mohammad-safakhou/spacebio/internal/helpers"
	"github.com/mohammad-safakhou/spacebio/tools/web_fetch/models"
)

const maxCSVBytes = 16 << 20

// Source yields the raw CSV document of the article corpus.
type Source interface {
	Name() string
	Read(ctx context.Context) (string, error)
}

// HTTPSource downloads the CSV from a URL.
type HTTPSource struct {
	URL       string
	UserAgent string
	Client    *http.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:       url,
		UserAgent: config.DefaultUserAgent,
		Client:    &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Read(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.5")
	resp, err := s.Client.Do(req)
	if err != nil {
		return "", err
	}
	body, err := helpers.ReadLimitedAndClose(resp.Body, maxCSVBytes)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("csv %s: %w: %d", s.URL, models.ErrUnexpectedStatus, resp.StatusCode)
	}
	return string(body), nil
}

// FileSource reads a local CSV snapshot.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file" }

func (s FileSource) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SourcesFromConfig returns the configured sources in priority order:
// remote URL first, local snapshot second.
func SourcesFromConfig(cfg config.IndexConfig) []Source {
	var out []Source
	if cfg.CSVURL != "" {
		out = append(out, NewHTTPSource(cfg.CSVURL, cfg.Timeout))
	}
	if cfg.LocalPath != "" {
		out = append(out, FileSource{Path: cfg.LocalPath})
	}
	return out
}
