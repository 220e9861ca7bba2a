package chromedp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/mohammad-safakhou/spacebio/internal/helpers"
	"github.com/mohammad-safakhou/spacebio/tools/web_fetch/models"
)

// Fetch renders pages in headless Chrome, for article hosts that build their
// content client-side.
type Fetch struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

func (f Fetch) Fetch(ctx context.Context, url string) (models.Page, error) {
	if !helpers.IsHTTPURL(url) {
		return models.Page{}, errors.New("invalid url")
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()
	t0 := time.Now()

	html, status, err := f.render(ctx, url)
	page := models.Page{URL: url, FinalURL: url, Status: status, RenderMS: int(time.Since(t0) / time.Millisecond)}
	if err != nil {
		return page, fmt.Errorf("render %s: %w", url, err)
	}
	if status != 0 && (status < 200 || status > 299) {
		return page, fmt.Errorf("%w: %d", models.ErrUnexpectedStatus, status)
	}
	if f.MaxBodyBytes > 0 && int64(len(html)) > f.MaxBodyBytes {
		html = html[:f.MaxBodyBytes]
	}
	page.HTML = html
	return page, nil
}

func (f Fetch) render(ctx context.Context, url string) (string, int, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(f.UserAgent),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	// The first document response is the navigation itself.
	var status atomic.Int64
	chromedp.ListenTarget(bctx, func(ev interface{}) {
		if resp, ok := ev.(*network.EventResponseReceived); ok && resp.Type == network.ResourceTypeDocument {
			status.CompareAndSwap(0, resp.Response.Status)
		}
	})

	var html string
	err := chromedp.Run(bctx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Referer": helpers.Origin(url)}),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return strings.TrimSpace(html), int(status.Load()), err
}
