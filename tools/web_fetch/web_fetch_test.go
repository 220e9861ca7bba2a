package web_fetch

import (
	"testing"

	"github.com/mohammad-safakhou/spacebio/tools/web_fetch/chromedp"
	"github.com/mohammad-safakhou/spacebio/tools/web_fetch/httpfetch"
)

func TestNewFetcher(t *testing.T) {
	f, err := NewFetcher(Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.(*httpfetch.Fetch); !ok {
		t.Fatalf("expected http fetcher by default, got %T", f)
	}

	f, err = NewFetcher(Options{Type: ChromedpFetcherType})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cf, ok := f.(*chromedp.Fetch)
	if !ok {
		t.Fatalf("expected chromedp fetcher, got %T", f)
	}
	if cf.Timeout != DefaultTimeout || cf.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Fatalf("defaults not applied: %+v", cf)
	}

	if _, err := NewFetcher(Options{Type: "curl"}); err == nil {
		t.Fatalf("expected error for unknown fetcher")
	}
}
