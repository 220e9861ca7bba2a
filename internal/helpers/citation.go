package helpers

import (
	"net/url"
	"strconv"
	"strings"
)

// Citation models one numbered source in an answer.
type Citation struct {
	Index   int
	Title   string
	URL     string
	Snippet string
}

type citationConfig struct {
	maxSnippet int
}

// CitationOption configures citation formatting.
type CitationOption func(*citationConfig)

// WithMaxSnippetLength truncates snippets to n runes (default 180).
func WithMaxSnippetLength(n int) CitationOption {
	return func(cfg *citationConfig) {
		if n > 0 {
			cfg.maxSnippet = n
		}
	}
}

// FormatCitation renders a citation as
// [n] Title: "Snippet" (domain) <URL>
func FormatCitation(c Citation, opts ...CitationOption) string {
	cfg := citationConfig{maxSnippet: 180}
	for _, opt := range opts {
		opt(&cfg)
	}

	parts := []string{"[" + strconv.Itoa(c.Index) + "]"}
	title := CollapseWhitespace(c.Title)
	if snippet := formatSnippet(c.Snippet, cfg.maxSnippet); snippet != "" {
		title += ": " + snippet
	}
	if title = strings.TrimSpace(title); title != "" {
		parts = append(parts, title)
	}
	if domain := extractDomain(c.URL); domain != "" {
		parts = append(parts, "("+domain+")")
	}
	if link := strings.TrimSpace(c.URL); link != "" {
		parts = append(parts, "<"+link+">")
	}
	return strings.Join(parts, " ")
}

// FormatCitations renders a collection of citations.
func FormatCitations(citations []Citation, opts ...CitationOption) []string {
	if len(citations) == 0 {
		return nil
	}
	out := make([]string, 0, len(citations))
	for _, c := range citations {
		out = append(out, FormatCitation(c, opts...))
	}
	return out
}

func formatSnippet(snippet string, limit int) string {
	snippet = CollapseWhitespace(snippet)
	if snippet == "" {
		return ""
	}
	if cut := TruncateRunes(snippet, limit); cut != snippet {
		snippet = strings.TrimSpace(cut) + "…"
	}
	return `"` + strings.Trim(snippet, `"`) + `"`
}

func extractDomain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
