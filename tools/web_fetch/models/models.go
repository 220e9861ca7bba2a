package models

import "errors"

// ErrUnexpectedStatus indicates a non-2xx response from the article host.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Page is the raw result of fetching one URL.
type Page struct {
	URL      string `json:"url"`
	FinalURL string `json:"final_url"`
	Status   int    `json:"status"`
	HTML     string `json:"-"`
	RenderMS int    `json:"render_ms"`
}
