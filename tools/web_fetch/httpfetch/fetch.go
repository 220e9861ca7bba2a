package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mohammad-safakhou/spacebio/internal/helpers"
	"github.com/mohammad-safakhou/spacebio/tools/web_fetch/models"
)

// Fetch retrieves pages with a plain HTTP client that presents itself as a
// desktop browser.
type Fetch struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	timeout      time.Duration
}

func New(timeout time.Duration, userAgent string, maxBodyBytes int64) *Fetch {
	return &Fetch{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return errors.New("stopped after 5 redirects")
				}
				return nil
			},
		},
		userAgent:    userAgent,
		maxBodyBytes: maxBodyBytes,
		timeout:      timeout,
	}
}

func (f *Fetch) Fetch(ctx context.Context, url string) (models.Page, error) {
	if !helpers.IsHTTPURL(url) {
		return models.Page{}, fmt.Errorf("invalid url %q", url)
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	t0 := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return models.Page{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if origin := helpers.Origin(url); origin != "" {
		req.Header.Set("Referer", origin)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return models.Page{URL: url}, fmt.Errorf("request failed: %w", err)
	}
	page := models.Page{URL: url, FinalURL: resp.Request.URL.String(), Status: resp.StatusCode}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return page, fmt.Errorf("%w: %d", models.ErrUnexpectedStatus, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") && !strings.Contains(ct, "xml") {
		resp.Body.Close()
		return page, fmt.Errorf("unsupported content type %q", ct)
	}

	body, err := helpers.ReadLimitedAndClose(resp.Body, f.maxBodyBytes)
	if err != nil {
		return page, fmt.Errorf("failed to read body: %w", err)
	}
	page.HTML = string(body)
	page.RenderMS = int(time.Since(t0) / time.Millisecond)
	return page, nil
}
