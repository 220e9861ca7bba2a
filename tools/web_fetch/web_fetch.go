package web_fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/mohammad-safakhou/spacebio/tools/web_fetch/chromedp"
	"github.com/mohammad-safakhou/spacebio/tools/web_fetch/httpfetch"
	"github.com/mohammad-safakhou/spacebio/tools/web_fetch/models"
)

const (
	DefaultTimeout      = 15 * time.Second
	DefaultMaxBodyBytes = 4 << 20
)

// Fetcher retrieves the raw HTML of a page. Implementations return an error
// wrapping models.ErrUnexpectedStatus for non-2xx responses.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (models.Page, error)
}

type FetcherType string

const (
	HTTPFetcherType     FetcherType = "http"
	ChromedpFetcherType FetcherType = "chromedp"
)

// Options configures NewFetcher.
type Options struct {
	Type         FetcherType
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

func NewFetcher(opts Options) (Fetcher, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	switch opts.Type {
	case HTTPFetcherType, "":
		return httpfetch.New(opts.Timeout, opts.UserAgent, opts.MaxBodyBytes), nil
	case ChromedpFetcherType:
		return &chromedp.Fetch{Timeout: opts.Timeout, UserAgent: opts.UserAgent, MaxBodyBytes: opts.MaxBodyBytes}, nil
	default:
		return nil, fmt.Errorf("unsupported fetcher type %q", opts.Type)
	}
}
